package service

import (
	"errors"
	"regexp"
	"testing"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/repository"
)

func TestUserServiceRoleAndActive(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewUserService(env.userRepo)
	user := createTestUser(t, env.db, "staff@example.com", constants.RoleCustomer, "")

	updated, err := svc.UpdateRole(t.Context(), user.ID, " packer ")
	if err != nil {
		t.Fatalf("update role failed: %v", err)
	}
	if updated.Role != constants.RolePacker {
		t.Fatalf("want PACKER got %s", updated.Role)
	}
	if _, err := svc.UpdateRole(t.Context(), user.ID, "OWNER"); !errors.Is(err, ErrRoleInvalid) {
		t.Fatalf("want ErrRoleInvalid got %v", err)
	}
	if _, err := svc.UpdateRole(t.Context(), 9999, constants.RoleAdmin); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound got %v", err)
	}

	toggled, err := svc.ToggleActive(t.Context(), user.ID)
	if err != nil || toggled.IsActive {
		t.Fatalf("toggle should disable user: %+v err=%v", toggled, err)
	}
	reloaded, err := svc.GetUser(user.ID)
	if err != nil || reloaded.IsActive || reloaded.Role != constants.RolePacker {
		t.Fatalf("unexpected persisted user: %+v err=%v", reloaded, err)
	}
}

func TestUserServiceAffiliateCode(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewUserService(env.userRepo)
	user := createTestUser(t, env.db, "promo@example.com", constants.RoleMarketing, "")

	updated, err := svc.GenerateAffiliateCode(user.ID)
	if err != nil {
		t.Fatalf("generate affiliate code failed: %v", err)
	}
	if updated.AffiliateCode == nil || !regexp.MustCompile(`^PG[0-9A-F]{8}$`).MatchString(*updated.AffiliateCode) {
		t.Fatalf("unexpected affiliate code: %v", updated.AffiliateCode)
	}
	if _, err := svc.GenerateAffiliateCode(user.ID); !errors.Is(err, ErrAffiliateCodeExists) {
		t.Fatalf("want ErrAffiliateCodeExists got %v", err)
	}
}

func TestUserServiceListAndCount(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewUserService(env.userRepo)
	createTestUser(t, env.db, "alice@example.com", constants.RoleCustomer, "")
	createTestUser(t, env.db, "bob@example.com", constants.RoleCustomer, "")
	createTestUser(t, env.db, "packer@example.com", constants.RolePacker, "")

	users, total, err := svc.ListUsers(repository.UserListFilter{Page: 1, PageSize: 10, Role: "customer"})
	if err != nil || total != 2 || len(users) != 2 {
		t.Fatalf("want 2 customers got %d (%d) err=%v", total, len(users), err)
	}
	users, total, err = svc.ListUsers(repository.UserListFilter{Page: 1, PageSize: 10, Keyword: "ALICE"})
	if err != nil || total != 1 || users[0].Email != "alice@example.com" {
		t.Fatalf("keyword search failed: total=%d err=%v", total, err)
	}
	if _, _, err := svc.ListUsers(repository.UserListFilter{Role: "ghost"}); !errors.Is(err, ErrRoleInvalid) {
		t.Fatalf("want ErrRoleInvalid got %v", err)
	}

	counts, err := svc.CountByRole()
	if err != nil {
		t.Fatalf("count by role failed: %v", err)
	}
	if counts[constants.RoleCustomer] != 2 || counts[constants.RolePacker] != 1 || counts[constants.RoleAdmin] != 0 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
