package models

// GiftCertificate 礼品券
type GiftCertificate struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                       // 主键
	Name           string    `gorm:"type:varchar(120);not null" json:"name"`                     // 名称
	Description    string    `gorm:"type:varchar(500);not null" json:"description"`              // 描述
	Price          int       `gorm:"not null" json:"price"`                                      // 价格
	Duration       int       `gorm:"not null" json:"duration"`                                   // 有效期（天）
	CreateDate     Timestamp `gorm:"type:varchar(32);not null;column:create_date" json:"create_date"`           // 创建时间
	LastUpdateDate Timestamp `gorm:"type:varchar(32);not null;column:last_update_date" json:"last_update_date"` // 更新时间
	Tags           []Tag     `gorm:"-" json:"tags"`                                              // 关联标签，由服务层填充
}

// TableName 指定表名
func (GiftCertificate) TableName() string {
	return "gift_certificate"
}
