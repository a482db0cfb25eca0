package service

import "errors"

// Sentinel errors surfaced to handlers for HTTP status mapping.
var (
	ErrEmailExists               = errors.New("email already registered")
	ErrInvalidCredentials        = errors.New("invalid email or password")
	ErrAccountDisabled           = errors.New("account disabled")
	ErrUserNotFound              = errors.New("user not found")
	ErrWeakPassword              = errors.New("password does not meet policy")
	ErrInvalidRole               = errors.New("invalid account role")
	ErrInvalidPhone              = errors.New("invalid phone number")
	ErrCaptchaInvalid            = errors.New("captcha verification failed")
	ErrCaptchaRequired           = errors.New("captcha is required")
	ErrCaptchaConfigInvalid      = errors.New("captcha configuration invalid")
	ErrPasswordMismatch          = errors.New("current password incorrect")
	ErrProductNotFound           = errors.New("product not found")
	ErrProductNameRequired       = errors.New("product name is required")
	ErrProductNotAvailable       = errors.New("product not available")
	ErrInvalidCategory           = errors.New("invalid product category")
	ErrInvalidPrice              = errors.New("invalid product price")
	ErrInvalidQuantity           = errors.New("invalid quantity")
	ErrInsufficientStock         = errors.New("insufficient stock")
	ErrCartEmpty                 = errors.New("cart is empty")
	ErrDeliveryLocationRequired  = errors.New("delivery location is required")
	ErrOrderNotFound             = errors.New("order not found")
	ErrOrderStatusInvalid        = errors.New("order status transition not allowed")
	ErrOrderAlreadyClaimed       = errors.New("order already claimed")
	ErrForbidden                 = errors.New("operation not permitted")
	ErrUploadInvalid             = errors.New("invalid upload")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
	ErrNotificationInvalid       = errors.New("notification payload invalid")
	ErrNotificationNotFound      = errors.New("notification not found")
)
