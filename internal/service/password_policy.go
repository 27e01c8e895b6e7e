package service

import (
	"unicode"

	"github.com/polaroid-next/internal/config"
)

// PasswordPolicyError 密码不符合策略，携带 i18n key 与参数
type PasswordPolicyError struct {
	MessageKey string
	Params     []interface{}
}

func (e *PasswordPolicyError) Error() string { return e.MessageKey }

// Unwrap 使 errors.Is(err, ErrWeakPassword) 成立
func (e *PasswordPolicyError) Unwrap() error { return ErrWeakPassword }

// Key i18n 文案 key
func (e *PasswordPolicyError) Key() string { return e.MessageKey }

// Args i18n 文案参数
func (e *PasswordPolicyError) Args() []interface{} { return e.Params }

// passwordTraits 密码包含的字符类别
type passwordTraits struct {
	length                       int
	upper, lower, digit, special bool
}

func inspectPassword(password string) passwordTraits {
	var traits passwordTraits
	for _, r := range password {
		traits.length++
		switch {
		case unicode.IsUpper(r):
			traits.upper = true
		case unicode.IsLower(r):
			traits.lower = true
		case unicode.IsDigit(r):
			traits.digit = true
		default:
			traits.special = true
		}
	}
	return traits
}

// validatePassword 按配置顺序校验，返回第一条未满足的规则
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	traits := inspectPassword(password)
	if policy.MinLength > 0 && traits.length < policy.MinLength {
		return &PasswordPolicyError{MessageKey: "error.password_min_length", Params: []interface{}{policy.MinLength}}
	}

	checks := []struct {
		required bool
		present  bool
		key      string
	}{
		{policy.RequireUpper, traits.upper, "error.password_require_upper"},
		{policy.RequireLower, traits.lower, "error.password_require_lower"},
		{policy.RequireNumber, traits.digit, "error.password_require_number"},
		{policy.RequireSpecial, traits.special, "error.password_require_special"},
	}
	for _, check := range checks {
		if check.required && !check.present {
			return &PasswordPolicyError{MessageKey: check.key}
		}
	}
	return nil
}
