package public

import (
	"errors"

	"github.com/agromate/agromate-api/internal/http/response"
	"github.com/agromate/agromate-api/internal/models"
	"github.com/agromate/agromate-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SignupRequest is the registration payload.
type SignupRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	FirstName      string                `json:"first_name" binding:"required"`
	LastName       string                `json:"last_name" binding:"required"`
	Role           string                `json:"role" binding:"required"`
	Phone          string                `json:"phone"`
	Location       string                `json:"location"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

type authSession struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"`
}

// Signup registers a farmer, buyer or delivery account and signs it in.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}
	if !h.verifyCaptcha(c, req.CaptchaPayload) {
		return
	}

	user, token, expiresAt, err := h.AuthService.Signup(service.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Phone:     req.Phone,
		Location:  req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "invalid email address", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeConflict, "email already registered", nil)
		case errors.Is(err, service.ErrInvalidRole):
			respondError(c, response.CodeBadRequest, "invalid account role", nil)
		case errors.Is(err, service.ErrInvalidPhone):
			respondError(c, response.CodeBadRequest, "invalid phone number", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "signup failed", err)
		}
		return
	}

	response.Success(c, authSession{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	})
}

// Login authenticates a user and returns a fresh token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}
	if !h.verifyCaptcha(c, req.CaptchaPayload) {
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeUnauthorized, "invalid email or password", nil)
		case errors.Is(err, service.ErrAccountDisabled):
			response.Forbidden(c, "account disabled", "")
		default:
			respondError(c, response.CodeInternal, "login failed", err)
		}
		return
	}

	response.Success(c, authSession{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	})
}
