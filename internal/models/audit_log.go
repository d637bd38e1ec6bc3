package models

import "time"

// AuditLog 审计日志，记录每次成功写操作
type AuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`                               // 主键
	EntityKind string    `gorm:"type:varchar(24);index;not null" json:"entity_kind"` // 实体类型
	EntityID   uint      `gorm:"index;not null" json:"entity_id"`                    // 实体ID
	Operation  string    `gorm:"type:varchar(16);not null" json:"operation"`         // 操作类型
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                            // 记录时间
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_log"
}
