package repository

import (
	"github.com/giftcert-next/internal/models"

	"gorm.io/gorm"
)

// AuditLogRepository 审计日志数据访问接口
type AuditLogRepository interface {
	Create(entry *models.AuditLog) error
	ListByEntity(entityKind string, entityID uint) ([]models.AuditLog, error)
	WithTx(tx *gorm.DB) *GormAuditLogRepository
}

// GormAuditLogRepository GORM 实现
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository 创建审计日志仓库
func NewAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAuditLogRepository) WithTx(tx *gorm.DB) *GormAuditLogRepository {
	if tx == nil {
		return r
	}
	return &GormAuditLogRepository{db: tx}
}

// Create 写入审计日志
func (r *GormAuditLogRepository) Create(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

// ListByEntity 按实体查询审计日志，按 ID 升序
func (r *GormAuditLogRepository) ListByEntity(entityKind string, entityID uint) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.
		Where("entity_kind = ? AND entity_id = ?", entityKind, entityID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
