package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/polaroid-next/internal/cache"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/repository"

	"github.com/shopspring/decimal"
)

var printSizeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// PrintSizeService 尺寸目录服务
type PrintSizeService struct {
	repo repository.PrintSizeRepository
}

// NewPrintSizeService 创建尺寸服务
func NewPrintSizeService(repo repository.PrintSizeRepository) *PrintSizeService {
	return &PrintSizeService{repo: repo}
}

// PrintSizeInput 创建/更新尺寸输入
type PrintSizeInput struct {
	ID          string
	Name        string
	DisplayName string
	Width       float64
	Height      float64
	Price       string
	Description string
	IsActive    *bool
	SortOrder   int
}

// ListAll 后台尺寸列表
func (s *PrintSizeService) ListAll() ([]models.PrintSize, error) {
	return s.repo.List(repository.PrintSizeListFilter{})
}

// ListActive 前台上架尺寸（优先读缓存）
func (s *PrintSizeService) ListActive(ctx context.Context) ([]models.PrintSize, error) {
	if sizes, hit, err := cache.GetActivePrintSizes(ctx); err != nil {
		logger.Warnw("print_size_cache_read_failed", "error", err)
	} else if hit {
		return sizes, nil
	}

	sizes, err := s.repo.List(repository.PrintSizeListFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}
	if err := cache.SetActivePrintSizes(ctx, sizes); err != nil {
		logger.Warnw("print_size_cache_write_failed", "error", err)
	}
	return sizes, nil
}

// GetByID 获取尺寸
func (s *PrintSizeService) GetByID(id string) (*models.PrintSize, error) {
	size, err := s.repo.GetByID(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if size == nil {
		return nil, ErrPrintSizeNotFound
	}
	return size, nil
}

// Create 新建尺寸
func (s *PrintSizeService) Create(ctx context.Context, input PrintSizeInput) (*models.PrintSize, error) {
	id := strings.TrimSpace(input.ID)
	if !printSizeIDPattern.MatchString(id) {
		return nil, ErrPrintSizeInvalid
	}
	price, err := parsePrintSizePrice(input.Price)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPrintSizeInvalid
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrPrintSizeSaveFailed
	}
	if existing != nil {
		return nil, ErrPrintSizeExists
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = name
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	now := time.Now()
	size := &models.PrintSize{
		ID:          id,
		Name:        name,
		DisplayName: displayName,
		Width:       input.Width,
		Height:      input.Height,
		Price:       price,
		Description: strings.TrimSpace(input.Description),
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(size); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrPrintSizeExists
		}
		logger.Errorw("print_size_create_failed", "print_size_id", id, "error", err)
		return nil, ErrPrintSizeSaveFailed
	}
	s.invalidate(ctx)
	logger.Infow("print_size_created", "print_size_id", id)
	return size, nil
}

// Update 更新尺寸（is_active 仅在显式提供时修改）
func (s *PrintSizeService) Update(ctx context.Context, id string, input PrintSizeInput) (*models.PrintSize, error) {
	size, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	price, err := parsePrintSizePrice(input.Price)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPrintSizeInvalid
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = name
	}

	size.Name = name
	size.DisplayName = displayName
	size.Width = input.Width
	size.Height = input.Height
	size.Price = price
	size.Description = strings.TrimSpace(input.Description)
	size.SortOrder = input.SortOrder
	if input.IsActive != nil {
		size.IsActive = *input.IsActive
	}
	size.UpdatedAt = time.Now()
	if err := s.repo.Update(size); err != nil {
		logger.Errorw("print_size_update_failed", "print_size_id", size.ID, "error", err)
		return nil, ErrPrintSizeSaveFailed
	}
	s.invalidate(ctx)
	logger.Infow("print_size_updated", "print_size_id", size.ID)
	return size, nil
}

// Delete 删除尺寸（历史订单保留快照，不受影响）
func (s *PrintSizeService) Delete(ctx context.Context, id string) error {
	size, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(size.ID); err != nil {
		logger.Errorw("print_size_delete_failed", "print_size_id", size.ID, "error", err)
		return ErrPrintSizeSaveFailed
	}
	s.invalidate(ctx)
	logger.Infow("print_size_deleted", "print_size_id", size.ID)
	return nil
}

func (s *PrintSizeService) invalidate(ctx context.Context) {
	if err := cache.InvalidatePrintSizes(ctx); err != nil {
		logger.Warnw("print_size_cache_invalidate_failed", "error", err)
	}
}

func parsePrintSizePrice(raw string) (models.Money, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return models.Money{}, ErrPrintSizeInvalid
	}
	return models.NewMoneyFromDecimal(price), nil
}
