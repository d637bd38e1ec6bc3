package service

import (
	"strings"

	"github.com/giftcert-next/internal/constants"
	"github.com/giftcert-next/internal/logger"
	"github.com/giftcert-next/internal/models"
	"github.com/giftcert-next/internal/repository"

	"gorm.io/gorm"
)

// TagService 标签业务服务
type TagService struct {
	tagRepo  repository.TagRepository
	linkRepo repository.CertificateTagRepository
	audit    *AuditService
}

// NewTagService 创建标签服务
func NewTagService(
	tagRepo repository.TagRepository,
	linkRepo repository.CertificateTagRepository,
	audit *AuditService,
) *TagService {
	return &TagService{tagRepo: tagRepo, linkRepo: linkRepo, audit: audit}
}

// GetAll 分页获取全部标签
func (s *TagService) GetAll(limit, offset int) ([]models.Tag, error) {
	if err := checkPagination(limit, offset); err != nil {
		return nil, err
	}
	return s.tagRepo.GetAll(limit, offset)
}

// GetByID 获取单个标签
func (s *TagService) GetByID(id uint) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(id)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}
	return tag, nil
}

// GetByName 按名称获取标签
func (s *TagService) GetByName(name string) (*models.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, newFieldError("name", "must not be blank")
	}
	tag, err := s.tagRepo.GetByName(trimmed)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}
	return tag, nil
}

// Create 创建标签，名称冲突返回 ErrTagAlreadyExists
func (s *TagService) Create(name string) (*models.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, newFieldError("name", "must not be blank")
	}
	if len(trimmed) > 80 {
		return nil, newFieldError("name", "must not exceed 80 characters")
	}

	existing, err := s.tagRepo.GetByName(trimmed)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if existing != nil {
		return nil, ErrTagAlreadyExists
	}

	tag := &models.Tag{Name: trimmed}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.tagRepo.WithTx(tx).Create(tag); err != nil {
			return err
		}
		return s.audit.Record(tx, constants.AuditEntityTag, tag.ID, constants.AuditOperationCreate)
	})
	if err != nil {
		if repository.IsDuplicateKeyError(err) {
			return nil, ErrTagAlreadyExists
		}
		return nil, err
	}

	logger.Infow("tag_created", "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}

// Delete 删除标签及其全部礼品券关联
func (s *TagService) Delete(id uint) error {
	existing, err := s.tagRepo.GetByID(id)
	if err != nil {
		return mapRowConflict(err)
	}
	if existing == nil {
		return ErrTagNotFound
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.linkRepo.WithTx(tx).DeleteByTag(id); err != nil {
			return err
		}
		if err := s.tagRepo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		return s.audit.Record(tx, constants.AuditEntityTag, id, constants.AuditOperationDelete)
	})
	if err != nil {
		return err
	}

	logger.Infow("tag_deleted", "tag_id", id)
	return nil
}

// TopTagOfUser 返回指定用户订单消费合计最高的标签
func (s *TagService) TopTagOfUser(userID uint) (*repository.TagCostRow, error) {
	top, err := s.tagRepo.TopTagByUserOrderCost(userID)
	if err != nil {
		return nil, err
	}
	if top == nil {
		return nil, ErrTagNotFound
	}
	return top, nil
}
