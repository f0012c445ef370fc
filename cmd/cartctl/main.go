// cartctl 运维命令行：按购物者查看、清空、监听购物车，以及检索商品目录。
// 只适用于 database / redis 存储驱动，memory 驱动的数据不跨进程。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bean-boutique/internal/config"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/provider"
	"github.com/bean-boutique/internal/service"

	"github.com/spf13/cobra"
)

var (
	shopperID string
	tabID     string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "cartctl",
	Short: "Inspect Bean Boutique shopper carts",
	Long: `Inspect and manage shopper carts directly against the configured storage.

Available subcommands:
  show   - Print the cart of a shopper
  clear  - Empty the cart of a shopper
  watch  - Stream cart changes of a shopper until interrupted
  search - Search the coffee catalog
  evict  - Remove shoppers idle longer than the retention window`,
	SilenceUsage: true,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cart of a shopper",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCLI(cmd, true, func(ctx context.Context, c *cli) error {
			return c.show(ctx, scope())
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart of a shopper",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCLI(cmd, true, func(ctx context.Context, c *cli) error {
			return c.clear(ctx, scope())
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream cart changes of a shopper until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)
		return withCLI(cmd, false, func(ctx context.Context, c *cli) error {
			return c.watch(ctx, scope())
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the coffee catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCLI(cmd, true, func(ctx context.Context, c *cli) error {
			return c.search(ctx, args[0])
		})
	},
}

var evictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Remove shoppers idle longer than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCLI(cmd, true, func(ctx context.Context, c *cli) error {
			return c.evict(ctx, time.Now())
		})
	},
}

func scope() service.CartScope {
	return service.CartScope{Origin: shopperID, Tab: tabID}
}

// withCLI 初始化容器并在命令结束后释放；bounded 为 true 时受 --timeout 约束
func withCLI(cmd *cobra.Command, bounded bool, fn func(ctx context.Context, c *cli) error) error {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	container, err := provider.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	ctx := cmd.Context()
	if bounded && timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx, newCLI(container, cmd.OutOrStdout()))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&shopperID, "shopper", "", "Shopper id (the bb_shopper cookie value)")
	rootCmd.PersistentFlags().StringVar(&tabID, "tab", "cartctl", "Tab id recorded as the writer")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(evictCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
