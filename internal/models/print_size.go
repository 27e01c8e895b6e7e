package models

import "time"

// PrintSize 冲印尺寸目录
type PrintSize struct {
	ID          string    `gorm:"primarykey;type:varchar(32)" json:"id"`              // 尺寸ID（如 A4）
	Name        string    `gorm:"type:varchar(120);not null" json:"name"`             // 内部名称
	DisplayName string    `gorm:"type:varchar(120);not null" json:"display_name"`     // 展示名称
	Width       float64   `gorm:"not null;default:0" json:"width"`                    // 宽度（英寸）
	Height      float64   `gorm:"not null;default:0" json:"height"`                   // 高度（英寸）
	Price       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Description string    `gorm:"type:text" json:"description"`                       // 描述
	IsActive    bool      `gorm:"not null;index" json:"is_active"`                    // 是否上架
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`               // 排序
	CreatedAt   time.Time `json:"created_at"`                                         // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (PrintSize) TableName() string {
	return "print_sizes"
}
