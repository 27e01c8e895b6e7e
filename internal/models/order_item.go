package models

import (
	"time"
)

// OrderItem 订单项表（下单时快照尺寸名称与单价）
type OrderItem struct {
	ID          uint        `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID     uint        `gorm:"index;not null" json:"order_id"`                           // 订单ID
	PrintSizeID string      `gorm:"type:varchar(32);index;not null" json:"print_size_id"`     // 尺寸ID
	SizeName    string      `gorm:"type:varchar(120);not null" json:"size_name"`              // 尺寸名称快照
	UnitPrice   Money       `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价快照
	Quantity    int         `gorm:"not null" json:"quantity"`                                 // 数量
	TotalPrice  Money       `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计
	Images      StringArray `gorm:"type:text" json:"images"`                                  // 图片引用
	CustomTexts StringArray `gorm:"type:text" json:"custom_texts"`                            // 定制文字
	CreatedAt   time.Time   `json:"created_at"`                                               // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
