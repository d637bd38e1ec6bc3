package repository

import (
	"github.com/giftcert-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CertificateTagRepository 礼品券与标签关联数据访问接口
type CertificateTagRepository interface {
	GetTagIDsByCertificate(certificateID uint) ([]uint, error)
	GetCertificateIDsByTag(tagID uint) ([]uint, error)
	Link(certificateID, tagID uint) error
	Unlink(certificateID, tagID uint) error
	DeleteByCertificate(certificateID uint) error
	DeleteByTag(tagID uint) error
	WithTx(tx *gorm.DB) *GormCertificateTagRepository
}

// GormCertificateTagRepository GORM 实现
type GormCertificateTagRepository struct {
	db *gorm.DB
}

// NewCertificateTagRepository 创建关联仓库
func NewCertificateTagRepository(db *gorm.DB) *GormCertificateTagRepository {
	return &GormCertificateTagRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCertificateTagRepository) WithTx(tx *gorm.DB) *GormCertificateTagRepository {
	if tx == nil {
		return r
	}
	return &GormCertificateTagRepository{db: tx}
}

// GetTagIDsByCertificate 获取礼品券当前关联的标签 ID，按 ID 升序
func (r *GormCertificateTagRepository) GetTagIDsByCertificate(certificateID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.CertificateTag{}).
		Where("certificate_id = ?", certificateID).
		Order("tag_id ASC").
		Pluck("tag_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetCertificateIDsByTag 获取标签当前关联的礼品券 ID，按 ID 升序
func (r *GormCertificateTagRepository) GetCertificateIDsByTag(tagID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.CertificateTag{}).
		Where("tag_id = ?", tagID).
		Order("certificate_id ASC").
		Pluck("certificate_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Link 建立关联，已存在时不报错
func (r *GormCertificateTagRepository) Link(certificateID, tagID uint) error {
	link := models.CertificateTag{CertificateID: certificateID, TagID: tagID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// Unlink 解除关联，不存在时视为成功
func (r *GormCertificateTagRepository) Unlink(certificateID, tagID uint) error {
	return r.db.
		Where("certificate_id = ? AND tag_id = ?", certificateID, tagID).
		Delete(&models.CertificateTag{}).Error
}

// DeleteByCertificate 删除礼品券的全部关联
func (r *GormCertificateTagRepository) DeleteByCertificate(certificateID uint) error {
	return r.db.Where("certificate_id = ?", certificateID).Delete(&models.CertificateTag{}).Error
}

// DeleteByTag 删除标签的全部关联
func (r *GormCertificateTagRepository) DeleteByTag(tagID uint) error {
	return r.db.Where("tag_id = ?", tagID).Delete(&models.CertificateTag{}).Error
}
