package repository

import (
	"github.com/giftcert-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetAll(limit, offset int) ([]models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(user *models.User) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormUserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) *GormUserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetAll 按 ID 升序分页获取用户
func (r *GormUserRepository) GetAll(limit, offset int) ([]models.User, error) {
	var users []models.User
	query := applyLimitOffset(r.db.Order("id ASC"), limit, offset)
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetByID 根据 ID 获取用户，不存在返回 nil
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var users []models.User
	if err := r.db.Where("id = ?", id).Limit(2).Find(&users).Error; err != nil {
		return nil, err
	}
	switch len(users) {
	case 0:
		return nil, nil
	case 1:
		return &users[0], nil
	default:
		return nil, ErrRowConflict
	}
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Delete 删除用户
func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Where("id = ?", id).Delete(&models.User{}).Error
}
