package service

import "errors"

// 资源不存在
var (
	ErrNotFound          = errors.New("resource not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrPrintSizeNotFound = errors.New("print size not found")
	ErrUserNotFound      = errors.New("user not found")
)

// 参数或业务校验失败
var (
	ErrInvalidOrderItem     = errors.New("invalid order item")
	ErrInvalidCustomer      = errors.New("customer name and email are required")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrPrintSizeInactive    = errors.New("print size inactive")
	ErrPrintSizeExists      = errors.New("print size already exists")
	ErrPrintSizeInvalid     = errors.New("print size invalid")
	ErrOrderStatusInvalid   = errors.New("order status invalid")
	ErrCallerRequired       = errors.New("caller identity required")
	ErrGatewayRefRequired   = errors.New("gateway reference required")
	ErrAffiliateCodeExists  = errors.New("affiliate code already exists")
	ErrRoleInvalid          = errors.New("role invalid")
	ErrEmailExists          = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserDisabled         = errors.New("user disabled")
	ErrWeakPassword         = errors.New("weak password")
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaDisabled      = errors.New("captcha disabled")
	ErrDateRangeInvalid     = errors.New("date range invalid")
	ErrNotificationPayload  = errors.New("notification payload invalid")
	ErrTokenSecretMissing   = errors.New("jwt secret missing")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrAffiliateCodeFailure = errors.New("affiliate code generation failed")
)

// 冲突
var (
	ErrOrderNoConflict = errors.New("order number conflict")
)

// 依赖失败
var (
	ErrOrderCreateFailed   = errors.New("order create failed")
	ErrOrderUpdateFailed   = errors.New("order update failed")
	ErrOrderFetchFailed    = errors.New("order fetch failed")
	ErrPaymentUpdateFailed = errors.New("payment update failed")
	ErrStatsQueryFailed    = errors.New("stats query failed")
	ErrPrintSizeSaveFailed = errors.New("print size save failed")
	ErrUserUpdateFailed    = errors.New("user update failed")

	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
