package authz

import (
	"fmt"
	"sort"
	"strings"
)

// EnsureRole 登记角色并返回规范化后的主体名
func (s *Service) EnsureRole(role string) (string, error) {
	subject, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if subject == roleAnchor {
		return "", ErrRoleReserved
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, roleAnchor); err != nil {
		return "", fmt.Errorf("ensure role %s: %w", subject, err)
	}
	return subject, nil
}

// ListRoles 已登记的角色，按名称排序
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	links, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	seen := make(map[string]struct{})
	for _, link := range links {
		for _, name := range link {
			if strings.HasPrefix(name, rolePrefix) && name != roleAnchor {
				seen[name] = struct{}{}
			}
		}
	}
	roles := make([]string, 0, len(seen))
	for name := range seen {
		roles = append(roles, name)
	}
	sort.Strings(roles)
	return roles, nil
}

// DeleteRole 删除自定义角色及其全部策略和继承关系
func (s *Service) DeleteRole(role string) error {
	subject, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	switch {
	case subject == roleAnchor:
		return ErrRoleReserved
	case IsBuiltinRole(subject):
		return ErrRoleBuiltin
	}
	if err := s.ready(); err != nil {
		return err
	}

	if _, err := s.enforcer.RemoveFilteredPolicy(0, subject); err != nil {
		return fmt.Errorf("delete role policies: %w", err)
	}
	for _, field := range []int{0, 1} {
		if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", field, subject); err != nil {
			return fmt.Errorf("delete role links: %w", err)
		}
	}
	return nil
}
