package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/provider"
	"github.com/bean-boutique/internal/service"
)

var errShopperRequired = errors.New("--shopper is required")

type cli struct {
	container *provider.Container
	out       io.Writer
}

func newCLI(container *provider.Container, out io.Writer) *cli {
	return &cli{container: container, out: out}
}

func (c *cli) show(ctx context.Context, scope service.CartScope) error {
	if scope.Origin == "" {
		return errShopperRequired
	}
	view, err := c.container.CartService.View(ctx, scope)
	if err != nil {
		return err
	}
	c.printView(view)
	return nil
}

func (c *cli) clear(ctx context.Context, scope service.CartScope) error {
	if scope.Origin == "" {
		return errShopperRequired
	}
	if _, err := c.container.CartService.Clear(ctx, scope); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "cart of %s cleared\n", scope.Origin)
	return nil
}

// watch 打印初始视图及之后的每次变更，直到 ctx 结束
func (c *cli) watch(ctx context.Context, scope service.CartScope) error {
	if scope.Origin == "" {
		return errShopperRequired
	}
	return c.container.CartWatcher.Watch(ctx, scope, func(view service.CartView) {
		fmt.Fprintf(c.out, "--- %s\n", time.Now().Format(time.RFC3339))
		c.printView(view)
	})
}

func (c *cli) search(ctx context.Context, query string) error {
	coffees, err := c.container.CatalogService.ListCoffees(ctx, query)
	if err != nil {
		return err
	}
	if len(coffees) == 0 {
		fmt.Fprintf(c.out, "no coffees match %q\n", query)
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tORIGIN\tROAST\tPRICE")
	for _, coffee := range coffees {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", coffee.Slug, coffee.Name, coffee.Origin, coffee.Roast, c.price(coffee.PriceAmount))
	}
	return tw.Flush()
}

func (c *cli) evict(ctx context.Context, now time.Time) error {
	retention := c.container.RetentionService
	if !retention.Enabled() {
		return service.ErrRetentionDisabled
	}
	evicted, err := retention.EvictIdle(ctx, retention.Cutoff(now))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "evicted %d idle shoppers\n", evicted)
	return nil
}

func (c *cli) printView(view service.CartView) {
	if len(view.Items) == 0 {
		fmt.Fprintln(c.out, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tSUBTOTAL")
	for _, line := range view.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", line.ID, line.Name, line.Quantity, c.price(models.NewMoneyFromDecimal(line.Subtotal())))
	}
	fmt.Fprintf(tw, "\t\t%d\t%s\n", view.ItemCount, c.price(view.Total))
	_ = tw.Flush()
}

func (c *cli) price(amount models.Money) string {
	return amount.Format(c.container.Config.Cart.CurrencySymbol)
}
