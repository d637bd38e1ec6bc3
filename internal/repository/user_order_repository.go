package repository

import (
	"github.com/giftcert-next/internal/models"

	"gorm.io/gorm"
)

// UserOrderRepository 订单数据访问接口
type UserOrderRepository interface {
	GetAll(limit, offset int) ([]models.UserOrder, error)
	GetAllByUser(userID uint, limit, offset int) ([]models.UserOrder, error)
	GetByID(id uint) (*models.UserOrder, error)
	Create(order *models.UserOrder) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormUserOrderRepository
}

// GormUserOrderRepository GORM 实现
type GormUserOrderRepository struct {
	db *gorm.DB
}

// NewUserOrderRepository 创建订单仓库
func NewUserOrderRepository(db *gorm.DB) *GormUserOrderRepository {
	return &GormUserOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserOrderRepository) WithTx(tx *gorm.DB) *GormUserOrderRepository {
	if tx == nil {
		return r
	}
	return &GormUserOrderRepository{db: tx}
}

// GetAll 按 ID 升序分页获取订单
func (r *GormUserOrderRepository) GetAll(limit, offset int) ([]models.UserOrder, error) {
	var orders []models.UserOrder
	query := applyLimitOffset(r.db.Order("id ASC"), limit, offset)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetAllByUser 按 ID 升序分页获取指定用户的订单
func (r *GormUserOrderRepository) GetAllByUser(userID uint, limit, offset int) ([]models.UserOrder, error) {
	var orders []models.UserOrder
	query := applyLimitOffset(r.db.Where("user_id = ?", userID).Order("id ASC"), limit, offset)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID 根据 ID 获取订单，不存在返回 nil
func (r *GormUserOrderRepository) GetByID(id uint) (*models.UserOrder, error) {
	var orders []models.UserOrder
	if err := r.db.Where("id = ?", id).Limit(2).Find(&orders).Error; err != nil {
		return nil, err
	}
	switch len(orders) {
	case 0:
		return nil, nil
	case 1:
		return &orders[0], nil
	default:
		return nil, ErrRowConflict
	}
}

// Create 创建订单
func (r *GormUserOrderRepository) Create(order *models.UserOrder) error {
	return r.db.Create(order).Error
}

// Delete 删除订单
func (r *GormUserOrderRepository) Delete(id uint) error {
	return r.db.Where("id = ?", id).Delete(&models.UserOrder{}).Error
}
