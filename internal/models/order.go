package models

import (
	"time"
)

// Order 订单表（聚合根，拥有订单项与状态历史）
type Order struct {
	ID              uint       `gorm:"primarykey" json:"id"`                                             // 主键
	OrderNo         string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_no"`            // 订单编号（对外）
	UserID          *uint      `gorm:"index" json:"user_id,omitempty"`                                   // 下单用户ID（游客为空）
	AffiliateID     *uint      `gorm:"index" json:"affiliate_id,omitempty"`                              // 推广人用户ID
	CustomerName    string     `gorm:"type:varchar(120);not null" json:"customer_name"`                  // 客户姓名
	CustomerEmail   string     `gorm:"type:varchar(191);index;not null" json:"customer_email"`           // 客户邮箱
	CustomerPhone   string     `gorm:"type:varchar(40)" json:"customer_phone"`                           // 客户电话
	CustomerState   string     `gorm:"type:varchar(8);index;not null;default:'W'" json:"customer_state"` // 州/地区代码
	ShippingAddress string     `gorm:"type:text" json:"shipping_address"`                                // 收货地址
	Subtotal        Money      `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`            // 商品小计
	Shipping        Money      `gorm:"type:decimal(20,2);not null;default:0" json:"shipping"`            // 运费
	Total           Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total"`               // 订单总额
	Status          string     `gorm:"type:varchar(20);index;not null" json:"status"`                    // 履约状态
	PaymentStatus   string     `gorm:"type:varchar(20);index;not null" json:"payment_status"`            // 支付状态
	PaymentMethod   string     `gorm:"type:varchar(32)" json:"payment_method"`                           // 支付方式
	GatewayRef      string     `gorm:"type:varchar(64);index" json:"gateway_ref,omitempty"`              // 支付网关账单号
	TrackingNumber  string     `gorm:"type:varchar(64)" json:"tracking_number,omitempty"`                // 物流单号
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`                                 // 备注
	CancelReason    string     `gorm:"type:text" json:"cancel_reason,omitempty"`                         // 取消原因
	PaidAt          *time.Time `gorm:"index" json:"paid_at"`                                             // 支付时间
	ShippedAt       *time.Time `json:"shipped_at"`                                                       // 发货时间
	DeliveredAt     *time.Time `json:"delivered_at"`                                                     // 签收时间
	CancelledAt     *time.Time `json:"cancelled_at"`                                                     // 取消时间
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt       time.Time  `json:"updated_at"`                                                       // 更新时间

	Items   []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`   // 订单项
	History []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"history,omitempty"` // 状态历史
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
