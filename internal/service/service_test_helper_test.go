package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/repository"
	"github.com/bean-boutique/internal/storage"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// flakyStore 可注入读写错误的存储
type flakyStore struct {
	storage.Store
	mu     sync.Mutex
	getErr error
	setErr error
}

func (s *flakyStore) Get(ctx context.Context, origin, key string) (string, bool, error) {
	s.mu.Lock()
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return s.Store.Get(ctx, origin, key)
}

func (s *flakyStore) Set(ctx context.Context, origin, key, value, writer string) error {
	s.mu.Lock()
	err := s.setErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, origin, key, value, writer)
}

var errStoreDown = errors.New("store down")

// productLookupStub 固定商品目录
type productLookupStub map[string]*models.Product

func (s productLookupStub) GetProduct(_ context.Context, slug string) (*models.Product, error) {
	if product, ok := s[slug]; ok {
		return product, nil
	}
	return nil, ErrProductNotFound
}

func newTestCartService(t *testing.T) (*CartService, *storage.MemoryStore, *CartNotifier) {
	t.Helper()
	store := storage.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	notifier := NewCartNotifier()
	return NewCartService(store, notifier, nil, "bb_cart"), store, notifier
}

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedCatalog(t *testing.T, repo repository.ProductRepository) {
	t.Helper()
	products := []models.Product{
		{Slug: "ethiopia-gedeb", Kind: constants.ProductKindCoffee, Name: "Ethiopia Gedeb", Origin: "Ethiopia", Roast: "Light", Notes: "Bergamot, jasmine, peach", Method: "Pour-over", Image: "/images/ethiopia.jpg", PriceAmount: models.NewMoneyFromFloat(12.5), SortOrder: 1, IsActive: true},
		{Slug: "colombia-huila", Kind: constants.ProductKindCoffee, Name: "Colombia Huila", Origin: "Colombia", Roast: "Medium", Notes: "Caramel, apple, cocoa", Method: "Drip", Image: "/images/colombia.jpg", PriceAmount: models.NewMoneyFromFloat(11.5), SortOrder: 2, IsActive: true},
		{Slug: "kenya-aa", Kind: constants.ProductKindCoffee, Name: "Kenya AA", Origin: "Kenya", Roast: "Medium-Light", Notes: "Blackcurrant, citrus, honey", Method: "AeroPress", Image: "/images/kenya.jpg", PriceAmount: models.NewMoneyFromFloat(13), SortOrder: 3, IsActive: true},
		{Slug: "v60", Kind: constants.ProductKindEquipment, Name: "Hario V60", Category: constants.EquipmentCategoryBrewers, Tip: "Use a gooseneck kettle", Image: "/images/v60.jpg", PriceAmount: models.NewMoneyFromFloat(8.99), SortOrder: 1, IsActive: true},
		{Slug: "burr-grinder", Kind: constants.ProductKindEquipment, Name: "Burr Coffee Grinder", Category: constants.EquipmentCategoryGrinders, Image: "/images/grinder.jpg", PriceAmount: models.NewMoneyFromFloat(89.99), SortOrder: 2, IsActive: true},
		{Slug: "aeropress", Kind: constants.ProductKindEquipment, Name: "AeroPress", Category: constants.EquipmentCategoryBrewers, Image: "/images/aeropress.jpg", PriceAmount: models.NewMoneyFromFloat(24.5), SortOrder: 3, IsActive: true},
	}
	for i := range products {
		if err := repo.Upsert(&products[i]); err != nil {
			t.Fatalf("seed product failed: %v", err)
		}
	}
}
