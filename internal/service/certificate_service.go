package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/giftcert-next/internal/constants"
	"github.com/giftcert-next/internal/logger"
	"github.com/giftcert-next/internal/models"
	"github.com/giftcert-next/internal/repository"

	"gorm.io/gorm"
)

// certificateUpdatableFields 部分更新允许的字段
var certificateUpdatableFields = map[string]struct{}{
	constants.CertificateFieldName:        {},
	constants.CertificateFieldDescription: {},
	constants.CertificateFieldPrice:       {},
	constants.CertificateFieldDuration:    {},
}

// CertificateSearchInput 礼品券搜索入参
type CertificateSearchInput struct {
	Fields    map[string]string
	SortField string
	SortOrder string
	TagNames  []string
	Limit     int
	Offset    int
}

// CreateCertificateInput 创建礼品券入参
type CreateCertificateInput struct {
	Name        string
	Description string
	Price       int
	Duration    int
	Tags        []models.Tag
}

// UpdateCertificateInput 整体更新入参，nil 字段表示不修改，
// Tags 为 nil 表示不动关联，为空切片表示清空关联
type UpdateCertificateInput struct {
	Name        *string
	Description *string
	Price       *int
	Duration    *int
	Tags        []models.Tag
}

// CertificateService 礼品券业务服务
type CertificateService struct {
	certRepo repository.CertificateRepository
	tagRepo  repository.TagRepository
	linkRepo repository.CertificateTagRepository
	audit    *AuditService
}

// NewCertificateService 创建礼品券服务
func NewCertificateService(
	certRepo repository.CertificateRepository,
	tagRepo repository.TagRepository,
	linkRepo repository.CertificateTagRepository,
	audit *AuditService,
) *CertificateService {
	return &CertificateService{
		certRepo: certRepo,
		tagRepo:  tagRepo,
		linkRepo: linkRepo,
		audit:    audit,
	}
}

// GetAll 分页获取全部礼品券
func (s *CertificateService) GetAll(limit, offset int) ([]models.GiftCertificate, error) {
	if err := checkPagination(limit, offset); err != nil {
		return nil, err
	}
	certificates, err := s.certRepo.GetAll(limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(certificates); err != nil {
		return nil, err
	}
	return certificates, nil
}

// Search 按条件搜索礼品券
func (s *CertificateService) Search(input CertificateSearchInput) ([]models.GiftCertificate, error) {
	if err := checkPagination(input.Limit, input.Offset); err != nil {
		return nil, err
	}
	sortAscending, err := parseSortOrder(input.SortOrder)
	if err != nil {
		return nil, err
	}

	search := repository.CertificateSearch{
		Fields:        input.Fields,
		SortField:     input.SortField,
		SortAscending: sortAscending,
	}
	certificates, err := s.certRepo.Search(search, input.TagNames, input.Limit, input.Offset)
	if err != nil {
		if isUnknownFieldError(err) {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err)
		}
		return nil, err
	}
	if err := s.attachTags(certificates); err != nil {
		return nil, err
	}
	return certificates, nil
}

// GetByID 获取单张礼品券
func (s *CertificateService) GetByID(id uint) (*models.GiftCertificate, error) {
	certificate, err := s.certRepo.GetByID(id)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if certificate == nil {
		return nil, ErrCertificateNotFound
	}
	tags, err := s.tagsOfCertificate(certificate.ID)
	if err != nil {
		return nil, err
	}
	certificate.Tags = tags
	return certificate, nil
}

// Create 创建礼品券并关联标签
func (s *CertificateService) Create(input CreateCertificateInput) (*models.GiftCertificate, error) {
	if err := validateCertificateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateCertificateDescription(input.Description); err != nil {
		return nil, err
	}
	if input.Price <= 0 {
		return nil, newFieldError("price", "must be positive")
	}
	if input.Duration <= 0 {
		return nil, newFieldError("duration", "must be positive")
	}

	now := models.Now()
	certificate := &models.GiftCertificate{
		Name:           strings.TrimSpace(input.Name),
		Description:    strings.TrimSpace(input.Description),
		Price:          input.Price,
		Duration:       input.Duration,
		CreateDate:     now,
		LastUpdateDate: now,
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.certRepo.WithTx(tx).Create(certificate); err != nil {
			return err
		}
		if len(input.Tags) > 0 {
			if err := s.reconcileTags(tx, certificate.ID, input.Tags); err != nil {
				return err
			}
		}
		return s.audit.Record(tx, constants.AuditEntityCertificate, certificate.ID, constants.AuditOperationCreate)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("certificate_created", "certificate_id", certificate.ID, "name", certificate.Name)
	return s.GetByID(certificate.ID)
}

// Update 整体更新礼品券，缺省字段保持原值
func (s *CertificateService) Update(id uint, input UpdateCertificateInput) (*models.GiftCertificate, error) {
	existing, err := s.certRepo.GetByID(id)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if existing == nil {
		return nil, ErrCertificateNotFound
	}

	columns := map[string]interface{}{}
	if input.Name != nil {
		if err := validateCertificateName(*input.Name); err != nil {
			return nil, err
		}
		columns[constants.CertificateFieldName] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		if err := validateCertificateDescription(*input.Description); err != nil {
			return nil, err
		}
		columns[constants.CertificateFieldDescription] = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, newFieldError("price", "must be positive")
		}
		columns[constants.CertificateFieldPrice] = *input.Price
	}
	if input.Duration != nil {
		if *input.Duration <= 0 {
			return nil, newFieldError("duration", "must be positive")
		}
		columns[constants.CertificateFieldDuration] = *input.Duration
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			columns[constants.CertificateFieldLastUpdateDate] = models.Now()
			if err := s.certRepo.WithTx(tx).UpdateColumns(id, columns); err != nil {
				return err
			}
		}
		if input.Tags != nil {
			if err := s.reconcileTags(tx, id, input.Tags); err != nil {
				return err
			}
			if len(columns) == 0 {
				stamp := map[string]interface{}{constants.CertificateFieldLastUpdateDate: models.Now()}
				if err := s.certRepo.WithTx(tx).UpdateColumns(id, stamp); err != nil {
					return err
				}
			}
		}
		return s.audit.Record(tx, constants.AuditEntityCertificate, id, constants.AuditOperationUpdate)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("certificate_updated", "certificate_id", id)
	return s.GetByID(id)
}

// UpdateFields 按字段名更新礼品券，map 的键限定为可更新字段
func (s *CertificateService) UpdateFields(id uint, fields map[string]string) (*models.GiftCertificate, error) {
	existing, err := s.certRepo.GetByID(id)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if existing == nil {
		return nil, ErrCertificateNotFound
	}
	if len(fields) == 0 {
		return nil, newFieldError("fields", "must not be empty")
	}

	columns := make(map[string]interface{}, len(fields)+1)
	for name, value := range fields {
		column := strings.ToLower(strings.TrimSpace(name))
		if _, ok := certificateUpdatableFields[column]; !ok {
			return nil, newFieldError(name, "is not an updatable field")
		}
		switch column {
		case constants.CertificateFieldName:
			if err := validateCertificateName(value); err != nil {
				return nil, err
			}
			columns[column] = strings.TrimSpace(value)
		case constants.CertificateFieldDescription:
			if err := validateCertificateDescription(value); err != nil {
				return nil, err
			}
			columns[column] = strings.TrimSpace(value)
		default:
			number, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || number <= 0 {
				return nil, newFieldError(column, "must be a positive integer")
			}
			columns[column] = number
		}
	}
	columns[constants.CertificateFieldLastUpdateDate] = models.Now()

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.certRepo.WithTx(tx).UpdateColumns(id, columns); err != nil {
			return err
		}
		return s.audit.Record(tx, constants.AuditEntityCertificate, id, constants.AuditOperationUpdate)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("certificate_fields_updated", "certificate_id", id, "fields", len(fields))
	return s.GetByID(id)
}

// Delete 删除礼品券及其标签关联
func (s *CertificateService) Delete(id uint) error {
	existing, err := s.certRepo.GetByID(id)
	if err != nil {
		return mapRowConflict(err)
	}
	if existing == nil {
		return ErrCertificateNotFound
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.linkRepo.WithTx(tx).DeleteByCertificate(id); err != nil {
			return err
		}
		if err := s.certRepo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		return s.audit.Record(tx, constants.AuditEntityCertificate, id, constants.AuditOperationDelete)
	})
	if err != nil {
		return err
	}

	logger.Infow("certificate_deleted", "certificate_id", id)
	return nil
}

// reconcileTags 让礼品券的标签关联收敛到期望集合：
// 先解析或创建期望标签，再补建缺失关联、解除多余关联。
func (s *CertificateService) reconcileTags(tx *gorm.DB, certificateID uint, desired []models.Tag) error {
	tagRepo := s.tagRepo.WithTx(tx)
	linkRepo := s.linkRepo.WithTx(tx)

	desiredIDs := make(map[uint]struct{}, len(desired))
	seen := make(map[string]struct{}, len(desired))
	for _, want := range desired {
		name := strings.TrimSpace(want.Name)
		if name == "" {
			return newFieldError("tags", "must not contain blank names")
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		tag, err := resolveOrCreateTag(tagRepo, name)
		if err != nil {
			return err
		}
		desiredIDs[tag.ID] = struct{}{}
	}

	currentIDs, err := linkRepo.GetTagIDsByCertificate(certificateID)
	if err != nil {
		return err
	}
	current := make(map[uint]struct{}, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = struct{}{}
	}

	for id := range desiredIDs {
		if _, ok := current[id]; ok {
			continue
		}
		if err := linkRepo.Link(certificateID, id); err != nil {
			return err
		}
	}
	for _, id := range currentIDs {
		if _, ok := desiredIDs[id]; ok {
			continue
		}
		if err := linkRepo.Unlink(certificateID, id); err != nil {
			return err
		}
	}
	return nil
}

// resolveOrCreateTag 按名称解析标签，不存在则创建。
// 并发创建以 ON CONFLICT DO NOTHING 落库，冲突不产生语句错误，
// 当前事务得以继续，未写入行时按名称回读并发创建的行。
func resolveOrCreateTag(tagRepo repository.TagRepository, name string) (*models.Tag, error) {
	tag, err := tagRepo.GetByName(name)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if tag != nil {
		return tag, nil
	}

	tag = &models.Tag{Name: name}
	if err := tagRepo.CreateIgnoreDuplicate(tag); err != nil {
		return nil, err
	}
	if tag.ID != 0 {
		return tag, nil
	}
	tag, err = tagRepo.GetByName(name)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if tag == nil {
		return nil, ErrStoreConsistency
	}
	return tag, nil
}

// tagsOfCertificate 获取礼品券当前关联的标签
func (s *CertificateService) tagsOfCertificate(certificateID uint) ([]models.Tag, error) {
	ids, err := s.linkRepo.GetTagIDsByCertificate(certificateID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	return s.tagRepo.ListByIDs(ids)
}

// attachTags 为查询结果批量装配标签
func (s *CertificateService) attachTags(certificates []models.GiftCertificate) error {
	for i := range certificates {
		tags, err := s.tagsOfCertificate(certificates[i].ID)
		if err != nil {
			return err
		}
		certificates[i].Tags = tags
	}
	return nil
}

func validateCertificateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return newFieldError("name", "must not be blank")
	}
	if len(trimmed) > 120 {
		return newFieldError("name", "must not exceed 120 characters")
	}
	return nil
}

func validateCertificateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return newFieldError("description", "must not be blank")
	}
	if len(trimmed) > 500 {
		return newFieldError("description", "must not exceed 500 characters")
	}
	return nil
}

// parseSortOrder 解析排序方向，空串表示未提供
func parseSortOrder(order string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
		return nil, nil
	case constants.SortOrderAsc:
		asc := true
		return &asc, nil
	case constants.SortOrderDesc:
		asc := false
		return &asc, nil
	default:
		return nil, newFieldError("sort_order", "must be asc or desc")
	}
}

func isUnknownFieldError(err error) bool {
	return errors.Is(err, repository.ErrUnknownField)
}

// mapRowConflict 将仓库层的重复行错误映射为一致性错误
func mapRowConflict(err error) error {
	if errors.Is(err, repository.ErrRowConflict) {
		return ErrStoreConsistency
	}
	return err
}
