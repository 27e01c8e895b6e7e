package authz

import (
	"fmt"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/logger"
)

// RoleSeed 内置角色及其默认策略
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

var builtinRoleSeeds = []RoleSeed{
	{
		Role:     constants.RoleAdmin,
		Policies: []Policy{{Object: "/admin/*", Action: "*"}},
	},
	{
		Role: constants.RolePacker,
		Policies: []Policy{
			{Object: "/admin/orders", Action: "GET"},
			{Object: "/admin/orders/:id", Action: "GET"},
			{Object: "/admin/orders/:id/status", Action: "PATCH"},
			{Object: "/admin/orders/:id/tracking", Action: "PATCH"},
			{Object: "/admin/orders/:id/notes", Action: "PATCH"},
			{Object: "/admin/print-sizes", Action: "GET"},
		},
	},
	{
		Role: constants.RoleMarketing,
		Policies: []Policy{
			{Object: "/admin/stats/*", Action: "GET"},
			{Object: "/admin/users", Action: "GET"},
			{Object: "/admin/users/count-by-role", Action: "GET"},
			{Object: "/admin/users/:id", Action: "GET"},
			{Object: "/admin/users/:id/affiliate-code", Action: "POST"},
			{Object: "/admin/print-sizes", Action: "GET"},
			{Object: "/admin/print-sizes/:id", Action: "GET"},
		},
	},
}

// BuiltinRoleSeeds 内置角色矩阵，CUSTOMER 不进后台故不在其中
func BuiltinRoleSeeds() []RoleSeed {
	out := make([]RoleSeed, len(builtinRoleSeeds))
	copy(out, builtinRoleSeeds)
	return out
}

// IsBuiltinRole 内置角色不可删除
func IsBuiltinRole(role string) bool {
	subject, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range builtinRoleSeeds {
		if seedSubject, _ := NormalizeRole(seed.Role); seedSubject == subject {
			return true
		}
	}
	return false
}

// BootstrapBuiltinRoles 补齐内置角色与默认策略，已存在的条目保持不变
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	added := 0
	for _, seed := range builtinRoleSeeds {
		subject, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentSubject, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			ok, err := s.enforcer.AddNamedGroupingPolicy("g", subject, parentSubject)
			if err != nil {
				return fmt.Errorf("bootstrap %s inherits %s: %w", subject, parentSubject, err)
			}
			if ok {
				added++
			}
		}
		for _, policy := range seed.Policies {
			ok, err := s.enforcer.AddPolicy(subject, NormalizeObject(policy.Object), NormalizeAction(policy.Action))
			if err != nil {
				return fmt.Errorf("bootstrap %s policy %s: %w", subject, policy.Object, err)
			}
			if ok {
				added++
			}
		}
	}
	if added > 0 {
		logger.Infow("authz_builtin_policies_added", "count", added)
	}
	return nil
}
