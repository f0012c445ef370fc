package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/bean-boutique/internal/app"
	"github.com/bean-boutique/internal/config"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiYellow    = "\033[33m"
	ansiBrightMag = "\033[95m"
)

func main() {
	// 解析命令行参数
	var mode string
	var seedCatalog bool
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.BoolVar(&seedCatalog, "seed", false, "启动前写入默认商品目录")
	flag.Parse()

	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:      cfg,
		Logger:      logger.S(),
		Signals:     []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:        mode,
		SeedCatalog: seedCatalog,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║         ☕ Bean Boutique API 启动中          ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiYellow + "  ___                 ___           _   _              " + ansiReset)
	fmt.Println(ansiYellow + " | _ ) ___ __ _ _ _  | _ ) ___ _  _| |_(_)__ _ _  _ ___ " + ansiReset)
	fmt.Println(ansiYellow + " | _ \\/ -_) _` | ' \\ | _ \\/ _ \\ || |  _| / _` | || / -_)" + ansiReset)
	fmt.Println(ansiYellow + " |___/\\___\\__,_|_||_||___/\\___/\\_,_|\\__|_\\__, |\\_,_\\___|" + ansiReset)
	fmt.Println(ansiYellow + "                                            |_|         " + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Specialty coffee & brewing equipment" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}
