package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bean-boutique/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageRepository 本地存储条目数据访问接口
type StorageRepository interface {
	Get(origin, key string) (*models.LocalStorageEntry, error)
	Upsert(entry *models.LocalStorageEntry) error
	Delete(origin, key string) (int64, error)
	ListByOrigin(origin string) ([]models.LocalStorageEntry, error)
	DeleteIdleOrigins(before time.Time) (int64, error)
	WithContext(ctx context.Context) StorageRepository
}

// GormStorageRepository GORM 实现
type GormStorageRepository struct {
	db *gorm.DB
}

// NewStorageRepository 创建本地存储仓库
func NewStorageRepository(db *gorm.DB) *GormStorageRepository {
	return &GormStorageRepository{db: db}
}

// WithContext 绑定请求上下文
func (r *GormStorageRepository) WithContext(ctx context.Context) StorageRepository {
	if ctx == nil {
		return r
	}
	return &GormStorageRepository{db: r.db.WithContext(ctx)}
}

// Get 获取条目，不存在时返回 nil
func (r *GormStorageRepository) Get(origin, key string) (*models.LocalStorageEntry, error) {
	var entry models.LocalStorageEntry
	if err := r.db.Where("origin = ? AND key = ?", origin, key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// Upsert 整值写入，按 (origin, key) 覆盖
func (r *GormStorageRepository) Upsert(entry *models.LocalStorageEntry) error {
	if entry == nil {
		return nil
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "origin"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "writer", "updated_at"}),
	}).Create(entry).Error
}

// Delete 删除条目，返回影响行数
func (r *GormStorageRepository) Delete(origin, key string) (int64, error) {
	result := r.db.Where("origin = ? AND key = ?", origin, key).Delete(&models.LocalStorageEntry{})
	return result.RowsAffected, result.Error
}

// ListByOrigin 列出某个来源的全部条目
func (r *GormStorageRepository) ListByOrigin(origin string) ([]models.LocalStorageEntry, error) {
	var entries []models.LocalStorageEntry
	if err := r.db.Where("origin = ?", origin).Order("key asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteIdleOrigins 删除最后写入早于 before 的来源下的全部条目
func (r *GormStorageRepository) DeleteIdleOrigins(before time.Time) (int64, error) {
	idle := r.db.Model(&models.LocalStorageEntry{}).
		Select("origin").
		Group("origin").
		Having("MAX(updated_at) < ?", before)
	result := r.db.Where("origin IN (?)", idle).Delete(&models.LocalStorageEntry{})
	return result.RowsAffected, result.Error
}
