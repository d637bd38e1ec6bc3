package service

import (
	"fmt"

	"github.com/giftcert-next/internal/constants"
	"github.com/giftcert-next/internal/models"
	"github.com/giftcert-next/internal/repository"

	"gorm.io/gorm"
)

var auditEntityKinds = map[string]struct{}{
	constants.AuditEntityCertificate: {},
	constants.AuditEntityTag:         {},
	constants.AuditEntityUser:        {},
	constants.AuditEntityOrder:       {},
}

var auditOperations = map[string]struct{}{
	constants.AuditOperationCreate: {},
	constants.AuditOperationUpdate: {},
	constants.AuditOperationDelete: {},
}

// AuditService 审计日志服务
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record 在给定事务内记录一次实体变更
func (s *AuditService) Record(tx *gorm.DB, entityKind string, entityID uint, operation string) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if _, ok := auditEntityKinds[entityKind]; !ok {
		return fmt.Errorf("unknown audit entity kind: %s", entityKind)
	}
	if _, ok := auditOperations[operation]; !ok {
		return fmt.Errorf("unknown audit operation: %s", operation)
	}
	entry := &models.AuditLog{
		EntityKind: entityKind,
		EntityID:   entityID,
		Operation:  operation,
	}
	return s.repo.WithTx(tx).Create(entry)
}
