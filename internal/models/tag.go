package models

// Tag 标签
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`                          // 主键
	Name string `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"` // 标签名，全局唯一
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tag"
}
