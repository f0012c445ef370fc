package repository

import (
	"errors"
	"strings"

	"github.com/bean-boutique/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	ListByKind(kind string, onlyActive bool) ([]models.Product, error)
	GetBySlug(slug string, onlyActive bool) (*models.Product, error)
	Upsert(product *models.Product) error
	CountByKind(kind string) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// productSearchColumns 关键词匹配的列，覆盖咖啡与器具的描述字段
var productSearchColumns = []string{"slug", "name", "origin", "notes", "category", "tip", "description"}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 商品列表（按目录顺序，可选分页与关键词 LIKE 匹配），total 为分页前总数
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, productSearchColumns)
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	if err := query.Order("sort_order ASC, id ASC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListByKind 按类型列出商品，保持目录顺序
func (r *GormProductRepository) ListByKind(kind string, onlyActive bool) ([]models.Product, error) {
	products, _, err := r.List(ProductListFilter{Kind: kind, OnlyActive: onlyActive})
	return products, err
}

// GetBySlug 根据 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	query := r.db.Where("slug = ?", slug)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Upsert 按 slug 写入商品（种子数据重复执行时覆盖）
func (r *GormProductRepository) Upsert(product *models.Product) error {
	if product == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"kind", "name", "origin", "roast", "notes", "method", "category",
			"tip", "description", "image", "price_amount", "sort_order", "is_active", "updated_at",
		}),
	}).Create(product).Error
}

// CountByKind 统计某类型商品数量
func (r *GormProductRepository) CountByKind(kind string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("kind = ?", kind).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
