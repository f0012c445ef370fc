package main

import (
	"github.com/bean-boutique/internal/config"
	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/repository"
	"github.com/bean-boutique/internal/seed"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	repo := repository.NewProductRepository(models.DB)
	count, err := seed.Run(repo)
	if err != nil {
		stdLog.Fatalf("Failed to seed catalog: %v", err)
	}

	coffees, _ := repo.CountByKind(constants.ProductKindCoffee)
	equipment, _ := repo.CountByKind(constants.ProductKindEquipment)
	stdLog.Printf("Seeded %d products (coffee=%d, equipment=%d)", count, coffees, equipment)
}
