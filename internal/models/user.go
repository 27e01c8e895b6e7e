package models

import (
	"time"
)

// User 用户表（顾客与员工共用，按角色区分）
type User struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                // 主键
	Email         string     `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"` // 邮箱
	PasswordHash  string     `gorm:"not null" json:"-"`                                   // 密码哈希（不返回给前端）
	Name          string     `gorm:"type:varchar(120);default:''" json:"name"`            // 姓名
	Phone         string     `gorm:"type:varchar(40);default:''" json:"phone"`            // 电话
	AvatarURL     string     `gorm:"type:varchar(500);default:''" json:"avatar_url"`      // 头像
	Role          string     `gorm:"type:varchar(20);index;not null" json:"role"`         // 角色
	AffiliateCode *string    `gorm:"type:varchar(32);uniqueIndex" json:"affiliate_code"`  // 推广码
	ReferredBy    *uint      `gorm:"index" json:"referred_by,omitempty"`                  // 推荐人用户ID
	IsActive      bool       `gorm:"not null" json:"is_active"`                           // 是否启用
	LastLoginAt   *time.Time `json:"last_login_at"`                                       // 最后登录时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                          // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
