package models

// CertificateTag 礼品券与标签的多对多关联
type CertificateTag struct {
	CertificateID uint `gorm:"primaryKey;column:certificate_id" json:"certificate_id"`
	TagID         uint `gorm:"primaryKey;column:tag_id" json:"tag_id"`
}

// TableName 指定表名
func (CertificateTag) TableName() string {
	return "gift_and_tag"
}
