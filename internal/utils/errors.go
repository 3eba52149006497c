package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidCredentials   = errors.New("INVALID_CREDENTIALS")
	ErrEmailTaken           = errors.New("EMAIL_TAKEN")
	ErrAccountInactive      = errors.New("ACCOUNT_INACTIVE")
	ErrUnauthenticated      = errors.New("UNAUTHENTICATED")
	ErrPasswordMismatch     = errors.New("PASSWORD_MISMATCH")
	ErrResetTokenInvalid    = errors.New("RESET_TOKEN_INVALID")
	ErrProductNotFound      = errors.New("PRODUCT_NOT_FOUND")
	ErrCategoryNotFound     = errors.New("CATEGORY_NOT_FOUND")
	ErrLinkNotFound         = errors.New("LINK_NOT_FOUND")
	ErrPendingOrderNotFound = errors.New("PENDING_ORDER_NOT_FOUND")
	ErrUserProductNotFound  = errors.New("USER_PRODUCT_NOT_FOUND")
	ErrPromoEndRequired     = errors.New("PROMO_END_REQUIRED")
	ErrPaymentGateway       = errors.New("PAYMENT_GATEWAY_ERROR")
)
