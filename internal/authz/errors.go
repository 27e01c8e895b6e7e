package authz

import "errors"

var (
	ErrUnavailable    = errors.New("authz service unavailable")
	ErrRoleRequired   = errors.New("role is required")
	ErrRoleReserved   = errors.New("reserved role is not allowed")
	ErrRoleBuiltin    = errors.New("builtin role cannot be deleted")
	ErrActionRequired = errors.New("action is required")
)
