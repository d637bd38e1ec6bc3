package models

// UserOrder 用户购买礼品券的订单
type UserOrder struct {
	ID                uint      `gorm:"primarykey" json:"id"`                                              // 主键
	UserID            uint      `gorm:"index;not null;column:user_id" json:"user_id"`                      // 用户ID
	GiftCertificateID uint      `gorm:"index;not null;column:gift_certificate_id" json:"gift_certificate_id"` // 礼品券ID
	Cost              int       `gorm:"not null" json:"cost"`                                              // 下单时锁定的价格
	PurchaseTimestamp Timestamp `gorm:"type:varchar(32);not null;column:purchase_timestamp" json:"purchase_timestamp"` // 购买时间
}

// TableName 指定表名
func (UserOrder) TableName() string {
	return "user_order"
}
