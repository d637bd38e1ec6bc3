package models

import "time"

// User 用户，仅作为订单的外键锚点
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`    // 主键
	CreatedAt time.Time `gorm:"index" json:"created_at"` // 创建时间
}

// TableName 指定表名。user 在 postgres 中是保留字，这里使用复数。
func (User) TableName() string {
	return "users"
}
