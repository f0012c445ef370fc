package service

import (
	"context"
	"testing"

	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) (*CatalogService, *repository.GormProductRepository) {
	t.Helper()
	repo := repository.NewProductRepository(openServiceTestDB(t))
	seedCatalog(t, repo)
	return NewCatalogService(repo, 0), repo
}

func slugs(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Slug)
	}
	return out
}

func TestCatalogListCoffeesBlankQueryReturnsAll(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	for _, q := range []string{"", "   "} {
		coffees, err := catalog.ListCoffees(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, []string{"ethiopia-gedeb", "colombia-huila", "kenya-aa"}, slugs(coffees))
	}
}

func TestCatalogListCoffeesSearchesAcrossFields(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	cases := map[string]string{
		"kenya":     "kenya-aa",
		"COLOMBIA":  "colombia-huila",
		"jasmine":   "ethiopia-gedeb",
		"aeropress": "kenya-aa",
		"drip":      "colombia-huila",
	}
	for query, want := range cases {
		coffees, err := catalog.ListCoffees(ctx, query)
		require.NoError(t, err)
		require.NotEmpty(t, coffees, "query %q", query)
		assert.Equal(t, want, coffees[0].Slug, "query %q", query)
	}

	none, err := catalog.ListCoffees(ctx, "xyzzy")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalogReloadPicksUpNewCoffees(t *testing.T) {
	catalog, repo := newTestCatalog(t)
	ctx := context.Background()
	_, err := catalog.ListCoffees(ctx, "")
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(&models.Product{Slug: "brazil-santos", Kind: constants.ProductKindCoffee, Name: "Brazil Santos", PriceAmount: models.NewMoneyFromFloat(10.5), SortOrder: 4, IsActive: true}))
	coffees, _ := catalog.ListCoffees(ctx, "")
	assert.Len(t, coffees, 3, "index is built once")

	catalog.Reload(ctx)
	coffees, _ = catalog.ListCoffees(ctx, "")
	assert.Len(t, coffees, 4)
}

func TestCatalogListEquipmentByCategory(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	for _, category := range []string{"", "All", "all"} {
		items, err := catalog.ListEquipment(ctx, category)
		require.NoError(t, err)
		assert.Equal(t, []string{"v60", "burr-grinder", "aeropress"}, slugs(items))
	}

	brewers, err := catalog.ListEquipment(ctx, constants.EquipmentCategoryBrewers)
	require.NoError(t, err)
	assert.Equal(t, []string{"v60", "aeropress"}, slugs(brewers))

	kettles, err := catalog.ListEquipment(ctx, constants.EquipmentCategoryKettles)
	require.NoError(t, err)
	assert.Empty(t, kettles)
}

func TestCatalogSearchEquipmentPagesAndMatches(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	items, total, err := catalog.SearchEquipment(ctx, EquipmentQuery{Search: "grinder"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"burr-grinder"}, slugs(items))

	// tip 字段同样参与匹配
	items, _, err = catalog.SearchEquipment(ctx, EquipmentQuery{Search: "gooseneck"})
	require.NoError(t, err)
	assert.Equal(t, []string{"v60"}, slugs(items))

	items, total, err = catalog.SearchEquipment(ctx, EquipmentQuery{Category: "All", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"aeropress"}, slugs(items))

	items, total, err = catalog.SearchEquipment(ctx, EquipmentQuery{Category: constants.EquipmentCategoryBrewers, Search: "press"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"aeropress"}, slugs(items))
}

func TestCatalogEquipmentCategoriesAllFirst(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	categories, err := catalog.EquipmentCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "Brewers", "Grinders"}, categories)
}

func TestCatalogGetProduct(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	product, err := catalog.GetProduct(ctx, "v60")
	require.NoError(t, err)
	assert.Equal(t, "Hario V60", product.Name)

	_, err = catalog.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = catalog.GetProduct(ctx, " ")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartAddProductThroughCatalog(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	svc, _, _ := newTestCartService(t)
	svc.catalog = catalog
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, tabA, "v60", 1)
	require.NoError(t, err)
	cart, err := svc.AddProduct(ctx, tabA, "ethiopia-gedeb", 2)
	require.NoError(t, err)

	require.Len(t, cart, 2)
	assert.Equal(t, "Brewers", cart[0].Category)
	assert.Contains(t, cart[0].Extra, "tip")
	assert.Equal(t, "33.99", models.NewMoneyFromDecimal(cart.Total()).String())
}
