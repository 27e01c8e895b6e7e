package service

import (
	"context"
	"strings"
	"time"

	"github.com/polaroid-next/internal/cache"
	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/repository"

	"github.com/google/uuid"
)

const affiliateCodeMaxAttempts = 5

var assignableRoles = map[string]struct{}{
	constants.RoleCustomer:  {},
	constants.RoleAdmin:     {},
	constants.RoleMarketing: {},
	constants.RolePacker:    {},
}

// UserService 用户管理服务
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// NormalizeRole 规范化角色名，未知角色返回空串
func NormalizeRole(role string) string {
	normalized := strings.ToUpper(strings.TrimSpace(role))
	if _, ok := assignableRoles[normalized]; !ok {
		return ""
	}
	return normalized
}

// GetUser 获取用户
func (s *UserService) GetUser(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers 后台用户列表
func (s *UserService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	if strings.TrimSpace(filter.Role) != "" {
		role := NormalizeRole(filter.Role)
		if role == "" {
			return nil, 0, ErrRoleInvalid
		}
		filter.Role = role
	}
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	return s.userRepo.List(filter)
}

// UpdateRole 修改用户角色
func (s *UserService) UpdateRole(ctx context.Context, id uint, role string) (*models.User, error) {
	normalized := NormalizeRole(role)
	if normalized == "" {
		return nil, ErrRoleInvalid
	}
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.Role == normalized {
		return user, nil
	}
	previous := user.Role
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"role":       normalized,
		"updated_at": time.Now(),
	}); err != nil {
		logger.Errorw("user_role_update_failed", "user_id", user.ID, "error", err)
		return nil, ErrUserUpdateFailed
	}
	user.Role = normalized
	s.invalidateAuthState(ctx, user.ID)
	logger.Infow("user_role_updated", "user_id", user.ID, "previous_role", previous, "role", normalized)
	return user, nil
}

// ToggleActive 切换启用状态
func (s *UserService) ToggleActive(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	next := !user.IsActive
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"is_active":  next,
		"updated_at": time.Now(),
	}); err != nil {
		logger.Errorw("user_toggle_active_failed", "user_id", user.ID, "error", err)
		return nil, ErrUserUpdateFailed
	}
	user.IsActive = next
	s.invalidateAuthState(ctx, user.ID)
	logger.Infow("user_active_toggled", "user_id", user.ID, "is_active", next)
	return user, nil
}

// GenerateAffiliateCode 生成推广码（已有推广码时拒绝）
func (s *UserService) GenerateAffiliateCode(id uint) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.AffiliateCode != nil && strings.TrimSpace(*user.AffiliateCode) != "" {
		return nil, ErrAffiliateCodeExists
	}

	for attempt := 1; attempt <= affiliateCodeMaxAttempts; attempt++ {
		code := newAffiliateCode()
		err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
			"affiliate_code": code,
			"updated_at":     time.Now(),
		})
		if err == nil {
			user.AffiliateCode = &code
			logger.Infow("user_affiliate_code_generated", "user_id", user.ID, "affiliate_code", code)
			return user, nil
		}
		if !repository.IsUniqueViolation(err) {
			logger.Errorw("user_affiliate_code_save_failed", "user_id", user.ID, "error", err)
			return nil, ErrUserUpdateFailed
		}
		logger.Warnw("user_affiliate_code_conflict_retry", "user_id", user.ID, "attempt", attempt)
	}
	return nil, ErrAffiliateCodeFailure
}

// CountByRole 按角色统计用户数
func (s *UserService) CountByRole() (map[string]int64, error) {
	counts, err := s.userRepo.CountByRole()
	if err != nil {
		return nil, err
	}
	for role := range assignableRoles {
		if _, ok := counts[role]; !ok {
			counts[role] = 0
		}
	}
	return counts, nil
}

func (s *UserService) invalidateAuthState(ctx context.Context, userID uint) {
	if err := cache.DelUserAuthState(ctx, userID); err != nil {
		logger.Warnw("user_auth_state_invalidate_failed", "user_id", userID, "error", err)
	}
}

func newAffiliateCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return constants.AffiliateCodePrefix + strings.ToUpper(raw[:8])
}
