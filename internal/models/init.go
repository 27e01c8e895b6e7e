package models

import (
	"strings"
	"time"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAdminEmail    = "admin@localhost"
	defaultAdminPassword = "admin123"
)

// PrintSizeSeed 初始尺寸定义
type PrintSizeSeed struct {
	ID          string
	Name        string
	DisplayName string
	Width       float64
	Height      float64
	Price       string
}

// InitDefaultAdmin 初始化默认管理员账号（已存在 ADMIN 角色用户时跳过）
func InitDefaultAdmin(email, password string) error {
	var count int64
	if err := DB.Model(&User{}).Where("role = ?", constants.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = defaultAdminEmail
	}
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Role:         constants.RoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return nil
}

// SeedPrintSizes 尺寸目录为空时写入初始尺寸
func SeedPrintSizes(seeds []PrintSizeSeed) error {
	var count int64
	if err := DB.Model(&PrintSize{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(seeds) == 0 {
		return nil
	}

	now := time.Now()
	sizes := make([]PrintSize, 0, len(seeds))
	for idx, seed := range seeds {
		id := strings.TrimSpace(seed.ID)
		if id == "" {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(seed.Price))
		if err != nil {
			logger.Warnw("print_size_seed_price_invalid", "id", id, "price", seed.Price, "error", err)
			continue
		}
		sizes = append(sizes, PrintSize{
			ID:          id,
			Name:        seed.Name,
			DisplayName: seed.DisplayName,
			Width:       seed.Width,
			Height:      seed.Height,
			Price:       NewMoneyFromDecimal(price),
			IsActive:    true,
			SortOrder:   idx,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if len(sizes) == 0 {
		return nil
	}
	if err := DB.Create(&sizes).Error; err != nil {
		return err
	}
	logger.Infow("print_sizes_seeded", "count", len(sizes))
	return nil
}
