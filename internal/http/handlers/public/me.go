package public

import (
	"errors"

	handlershared "github.com/agromate/agromate-api/internal/http/handlers/shared"
	"github.com/agromate/agromate-api/internal/http/response"
	"github.com/agromate/agromate-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMe returns the signed-in user's profile.
func (h *Handler) GetMe(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.AuthService.GetProfile(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		respondError(c, response.CodeInternal, "profile fetch failed", err)
		return
	}
	response.Success(c, user)
}

// UpdateProfileRequest carries the settings form; omitted fields stay as
// they are.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Location  *string `json:"location"`
}

// UpdateProfile applies a partial profile edit.
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	user, err := h.AuthService.UpdateProfile(uid, service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Location:  req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrInvalidPhone):
			respondError(c, response.CodeBadRequest, "invalid phone number", nil)
		default:
			respondError(c, response.CodeInternal, "profile update failed", err)
		}
		return
	}
	response.Success(c, user)
}

// ChangePasswordRequest carries the password change form.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword rotates the password and revokes outstanding tokens.
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	if err := h.AuthService.ChangePassword(uid, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrPasswordMismatch):
			respondError(c, response.CodeBadRequest, "current password incorrect", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "password change failed", err)
		}
		return
	}
	response.SuccessWithMsg(c, "password changed", gin.H{"reauthenticate": true})
}

// UploadAvatar stores a new avatar image and saves its URL on the profile.
func (h *Handler) UploadAvatar(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "missing upload file", err)
		return
	}

	url, err := h.UploadService.SaveFile(c.Request.Context(), file, "avatar")
	if err != nil {
		if errors.Is(err, service.ErrUploadInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "avatar upload failed", err)
		return
	}

	user, err := h.AuthService.UpdateAvatar(uid, url)
	if err != nil {
		respondError(c, response.CodeInternal, "avatar update failed", err)
		return
	}
	response.Success(c, user)
}

// ListNotifications returns the user's notifications, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := handlershared.QueryPagination(c)
	onlyUnread := c.Query("unread") == "true"

	items, total, unread, err := h.NotificationService.ListForUser(uid, onlyUnread, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "notification listing failed", err)
		return
	}

	response.SuccessWithPage(c, gin.H{
		"notifications": items,
		"unread_count":  unread,
	}, response.NewPagination(page, pageSize, total))
}

// MarkNotificationRead marks one notification as read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.NotificationService.MarkRead(id, uid); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		respondError(c, response.CodeInternal, "notification update failed", err)
		return
	}
	response.Success(c, gin.H{"read": true})
}

// MarkAllNotificationsRead marks every notification as read.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.NotificationService.MarkAllRead(uid); err != nil {
		respondError(c, response.CodeInternal, "notification update failed", err)
		return
	}
	response.Success(c, gin.H{"read": true})
}
