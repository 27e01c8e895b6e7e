package repository

import (
	"github.com/polaroid-next/internal/models"

	"gorm.io/gorm"
)

// PrintSizeRepository 尺寸目录数据访问接口
type PrintSizeRepository interface {
	List(filter PrintSizeListFilter) ([]models.PrintSize, error)
	GetByID(id string) (*models.PrintSize, error)
	ListByIDs(ids []string) ([]models.PrintSize, error)
	Create(size *models.PrintSize) error
	Update(size *models.PrintSize) error
	Delete(id string) error
	WithTx(tx *gorm.DB) *GormPrintSizeRepository
}

// GormPrintSizeRepository GORM 实现
type GormPrintSizeRepository struct {
	db *gorm.DB
}

// NewPrintSizeRepository 创建尺寸仓库
func NewPrintSizeRepository(db *gorm.DB) *GormPrintSizeRepository {
	return &GormPrintSizeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPrintSizeRepository) WithTx(tx *gorm.DB) *GormPrintSizeRepository {
	if tx == nil {
		return r
	}
	return &GormPrintSizeRepository{db: tx}
}

// List 尺寸列表（按排序值与ID）
func (r *GormPrintSizeRepository) List(filter PrintSizeListFilter) ([]models.PrintSize, error) {
	query := r.db.Model(&models.PrintSize{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	var sizes []models.PrintSize
	if err := query.Order("sort_order asc, id asc").Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}

// GetByID 根据 ID 获取尺寸
func (r *GormPrintSizeRepository) GetByID(id string) (*models.PrintSize, error) {
	return firstOrNil[models.PrintSize](r.db.Where("id = ?", id))
}

// ListByIDs 批量获取尺寸
func (r *GormPrintSizeRepository) ListByIDs(ids []string) ([]models.PrintSize, error) {
	if len(ids) == 0 {
		return []models.PrintSize{}, nil
	}
	var sizes []models.PrintSize
	if err := r.db.Where("id IN ?", ids).Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}

// Create 创建尺寸
func (r *GormPrintSizeRepository) Create(size *models.PrintSize) error {
	return r.db.Create(size).Error
}

// Update 更新尺寸
func (r *GormPrintSizeRepository) Update(size *models.PrintSize) error {
	return r.db.Save(size).Error
}

// Delete 删除尺寸
func (r *GormPrintSizeRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.PrintSize{}).Error
}
