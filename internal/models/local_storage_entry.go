package models

import "time"

// LocalStorageEntry 购物者本地存储条目，按 (origin, key) 唯一
type LocalStorageEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                        // 主键
	Origin    string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_storage_origin_key" json:"origin"` // 购物者来源标识
	Key       string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_storage_origin_key" json:"key"`    // 键
	Value     string    `gorm:"type:text;not null" json:"value"`                                             // 值（原样字符串）
	Writer    string    `gorm:"type:varchar(128)" json:"writer"`                                             // 最后写入的标签页
	CreatedAt time.Time `json:"created_at"`                                                                  // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                                     // 更新时间
}

// TableName 指定表名
func (LocalStorageEntry) TableName() string {
	return "local_storage_entries"
}
