package repository

import (
	"github.com/giftcert-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository 标签数据访问接口
type TagRepository interface {
	GetAll(limit, offset int) ([]models.Tag, error)
	GetByID(id uint) (*models.Tag, error)
	GetByName(name string) (*models.Tag, error)
	ListByIDs(ids []uint) ([]models.Tag, error)
	Create(tag *models.Tag) error
	CreateIgnoreDuplicate(tag *models.Tag) error
	Delete(id uint) error
	TopTagByUserOrderCost(userID uint) (*TagCostRow, error)
	WithTx(tx *gorm.DB) *GormTagRepository
}

// GormTagRepository GORM 实现
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建标签仓库
func NewTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTagRepository) WithTx(tx *gorm.DB) *GormTagRepository {
	if tx == nil {
		return r
	}
	return &GormTagRepository{db: tx}
}

// GetAll 按 ID 升序分页获取标签
func (r *GormTagRepository) GetAll(limit, offset int) ([]models.Tag, error) {
	var tags []models.Tag
	query := applyLimitOffset(r.db.Order("id ASC"), limit, offset)
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetByID 根据 ID 获取标签，不存在返回 nil，出现重复行返回 ErrRowConflict
func (r *GormTagRepository) GetByID(id uint) (*models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Where("id = ?", id).Limit(2).Find(&tags).Error; err != nil {
		return nil, err
	}
	return singleTag(tags)
}

// GetByName 根据名称获取标签，不存在返回 nil，出现重复行返回 ErrRowConflict
func (r *GormTagRepository) GetByName(name string) (*models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Where("name = ?", name).Limit(2).Find(&tags).Error; err != nil {
		return nil, err
	}
	return singleTag(tags)
}

func singleTag(tags []models.Tag) (*models.Tag, error) {
	switch len(tags) {
	case 0:
		return nil, nil
	case 1:
		return &tags[0], nil
	default:
		return nil, ErrRowConflict
	}
}

// ListByIDs 按 ID 列表获取标签，按 ID 升序返回
func (r *GormTagRepository) ListByIDs(ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Create 创建标签，名称唯一约束冲突时返回底层错误
func (r *GormTagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// CreateIgnoreDuplicate 创建标签，名称冲突时不写入也不报错，
// 未写入行时 tag.ID 保持为 0，由调用方按名称回读
func (r *GormTagRepository) CreateIgnoreDuplicate(tag *models.Tag) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(tag).Error
}

// Delete 删除标签
func (r *GormTagRepository) Delete(id uint) error {
	return r.db.Where("id = ?", id).Delete(&models.Tag{}).Error
}

// TopTagByUserOrderCost 统计用户订单消费合计最高的标签，
// 合计相同时取 ID 最小的标签，用户无订单返回 nil。
func (r *GormTagRepository) TopTagByUserOrderCost(userID uint) (*TagCostRow, error) {
	const query = `SELECT t.id, t.name, SUM(uo.cost) AS cost_sum
FROM tag t
INNER JOIN gift_and_tag gat ON t.id = gat.tag_id
INNER JOIN user_order uo ON gat.certificate_id = uo.gift_certificate_id
WHERE uo.user_id = ?
GROUP BY t.id, t.name
ORDER BY cost_sum DESC, t.id ASC
LIMIT 1`

	var rows []TagCostRow
	if err := r.db.Raw(query, userID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
