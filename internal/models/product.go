package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品目录（咖啡豆与器具）
type Product struct {
	ID          uint           `gorm:"primarykey" json:"-"`                                         // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"id"`                              // 唯一标识，同时作为购物车行 id
	Kind        string         `gorm:"type:varchar(20);not null;index" json:"kind"`                 // coffee / equipment
	Name        string         `gorm:"not null" json:"name"`                                        // 名称
	Origin      string         `json:"origin,omitempty"`                                            // 产地
	Roast       string         `json:"roast,omitempty"`                                             // 烘焙度
	Notes       string         `json:"notes,omitempty"`                                             // 风味描述
	Method      string         `json:"method,omitempty"`                                            // 推荐冲煮方式
	Category    string         `gorm:"type:varchar(40);index" json:"category,omitempty"`            // 器具分类
	Tip         string         `json:"tip,omitempty"`                                               // 小贴士
	Description string         `gorm:"type:text" json:"description,omitempty"`                      // 详细描述
	Image       string         `json:"image"`                                                       // 图片地址
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`          // 价格
	SortOrder   int            `gorm:"default:0;index" json:"-"`                                    // 排序权重
	IsActive    bool           `gorm:"default:true;index" json:"-"`                                 // 是否上架
	CreatedAt   time.Time      `gorm:"index" json:"-"`                                              // 创建时间
	UpdatedAt   time.Time      `json:"-"`                                                           // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
