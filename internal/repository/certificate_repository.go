package repository

import (
	"github.com/giftcert-next/internal/models"

	"gorm.io/gorm"
)

// CertificateRepository 礼品券数据访问接口
type CertificateRepository interface {
	GetAll(limit, offset int) ([]models.GiftCertificate, error)
	Search(search CertificateSearch, tagNames []string, limit, offset int) ([]models.GiftCertificate, error)
	GetByID(id uint) (*models.GiftCertificate, error)
	Create(certificate *models.GiftCertificate) error
	UpdateColumns(id uint, columns map[string]interface{}) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormCertificateRepository
}

// GormCertificateRepository GORM 实现
type GormCertificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository 创建礼品券仓库
func NewCertificateRepository(db *gorm.DB) *GormCertificateRepository {
	return &GormCertificateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCertificateRepository) WithTx(tx *gorm.DB) *GormCertificateRepository {
	if tx == nil {
		return r
	}
	return &GormCertificateRepository{db: tx}
}

// GetAll 按 ID 升序分页获取礼品券
func (r *GormCertificateRepository) GetAll(limit, offset int) ([]models.GiftCertificate, error) {
	var certificates []models.GiftCertificate
	query := applyLimitOffset(r.db.Order("id ASC"), limit, offset)
	if err := query.Find(&certificates).Error; err != nil {
		return nil, err
	}
	return certificates, nil
}

// Search 按动态条件查询礼品券
func (r *GormCertificateRepository) Search(search CertificateSearch, tagNames []string, limit, offset int) ([]models.GiftCertificate, error) {
	query, args, err := BuildCertificateQuery(r.db, search, tagNames, limit, offset)
	if err != nil {
		return nil, err
	}
	var certificates []models.GiftCertificate
	if err := r.db.Raw(query, args...).Scan(&certificates).Error; err != nil {
		return nil, err
	}
	return certificates, nil
}

// GetByID 根据 ID 获取礼品券，不存在返回 nil，出现重复行返回 ErrRowConflict
func (r *GormCertificateRepository) GetByID(id uint) (*models.GiftCertificate, error) {
	var certificates []models.GiftCertificate
	if err := r.db.Where("id = ?", id).Limit(2).Find(&certificates).Error; err != nil {
		return nil, err
	}
	switch len(certificates) {
	case 0:
		return nil, nil
	case 1:
		return &certificates[0], nil
	default:
		return nil, ErrRowConflict
	}
}

// Create 创建礼品券
func (r *GormCertificateRepository) Create(certificate *models.GiftCertificate) error {
	return r.db.Create(certificate).Error
}

// UpdateColumns 按列名更新礼品券字段
func (r *GormCertificateRepository) UpdateColumns(id uint, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.Model(&models.GiftCertificate{}).Where("id = ?", id).Updates(columns).Error
}

// Delete 删除礼品券
func (r *GormCertificateRepository) Delete(id uint) error {
	return r.db.Where("id = ?", id).Delete(&models.GiftCertificate{}).Error
}
