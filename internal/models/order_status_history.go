package models

import "time"

// OrderStatusHistory 订单状态历史（只追加，不修改）
type OrderStatusHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`                         // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`               // 订单ID
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`      // 进入的履约状态
	Message   string    `gorm:"type:text" json:"message"`                     // 说明
	CreatedBy string    `gorm:"type:varchar(191);not null" json:"created_by"` // 操作人
	CreatedAt time.Time `gorm:"index" json:"created_at"`                      // 创建时间
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
