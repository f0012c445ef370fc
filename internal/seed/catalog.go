package seed

import (
	"fmt"

	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/repository"

	"gorm.io/gorm"
)

const unsplashParams = "?auto=format&fit=crop&w=400&q=80"

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + unsplashParams
}

// Coffees 店铺在售的六款咖啡豆
func Coffees() []models.Product {
	return []models.Product{
		{
			Slug:        "ethiopia-gedeb",
			Name:        "Ethiopia Gedeb",
			Origin:      "Ethiopia",
			Roast:       "Light",
			Notes:       "Bergamot, jasmine, peach",
			Method:      "Pour-over",
			PriceAmount: models.NewMoneyFromFloat(12.5),
			Image:       unsplash("photo-1447933601403-0c6688de566e"),
			Description: "A delicate and floral coffee with bright acidity and complex fruit notes.",
		},
		{
			Slug:        "colombia-huila",
			Name:        "Colombia Huila",
			Origin:      "Colombia",
			Roast:       "Medium",
			Notes:       "Caramel, apple, cocoa",
			Method:      "Drip",
			PriceAmount: models.NewMoneyFromFloat(11.5),
			Image:       unsplash("photo-1442512595331-e89e73853f31"),
			Description: "A well-balanced coffee with sweet caramel notes and a smooth finish.",
		},
		{
			Slug:        "kenya-aa",
			Name:        "Kenya AA",
			Origin:      "Kenya",
			Roast:       "Medium-Light",
			Notes:       "Blackcurrant, citrus, honey",
			Method:      "AeroPress",
			PriceAmount: models.NewMoneyFromFloat(13.0),
			Image:       unsplash("photo-1495474472287-4d71bcdd2085"),
			Description: "Bold and vibrant with distinctive blackcurrant notes and bright acidity.",
		},
		{
			Slug:        "brazil-santos",
			Name:        "Brazil Santos",
			Origin:      "Brazil",
			Roast:       "Medium-Dark",
			Notes:       "Chocolate, nuts, vanilla",
			Method:      "Espresso",
			PriceAmount: models.NewMoneyFromFloat(10.5),
			Image:       unsplash("photo-1447933601403-0c6688de566e"),
			Description: "Rich and full-bodied with chocolatey sweetness, perfect for espresso.",
		},
		{
			Slug:        "guatemala-antigua",
			Name:        "Guatemala Antigua",
			Origin:      "Guatemala",
			Roast:       "Medium",
			Notes:       "Spice, orange, dark chocolate",
			Method:      "French Press",
			PriceAmount: models.NewMoneyFromFloat(12.0),
			Image:       unsplash("photo-1442512595331-e89e73853f31"),
			Description: "Complex and spicy with citrus brightness and chocolate undertones.",
		},
		{
			Slug:        "costa-rica-tarrazu",
			Name:        "Costa Rica Tarrazú",
			Origin:      "Costa Rica",
			Roast:       "Light-Medium",
			Notes:       "Lemon, honey, almond",
			Method:      "V60",
			PriceAmount: models.NewMoneyFromFloat(13.5),
			Image:       unsplash("photo-1495474472287-4d71bcdd2085"),
			Description: "Bright and clean with citrus acidity and nutty sweetness.",
		},
	}
}

// Equipment 店铺在售的八款器具
func Equipment() []models.Product {
	return []models.Product{
		{
			Slug:        "v60",
			Name:        "Hario V60",
			Category:    constants.EquipmentCategoryBrewers,
			Tip:         "Use 1:15 ratio at 92–96°C",
			PriceAmount: models.NewMoneyFromFloat(8.99),
			Image:       unsplash("photo-1509042239860-f550ce710b93"),
			Description: "The iconic pour-over dripper that delivers clean, bright coffee with excellent clarity.",
		},
		{
			Slug:        "aeropress",
			Name:        "AeroPress",
			Category:    constants.EquipmentCategoryBrewers,
			Tip:         "Inverted method for richer body",
			PriceAmount: models.NewMoneyFromFloat(24.5),
			Image:       unsplash("photo-1495474472287-4d71bcdd2085"),
			Description: "Versatile brewing device that produces smooth, full-bodied coffee with minimal cleanup.",
		},
		{
			Slug:        "french-press",
			Name:        "French Press",
			Category:    constants.EquipmentCategoryBrewers,
			Tip:         "Coarse grind, 4-minute steep",
			PriceAmount: models.NewMoneyFromFloat(19.99),
			Image:       unsplash("photo-1544787219-7f47ccb76574"),
			Description: "Classic immersion brewer for rich, full-bodied coffee with natural oils and sediment.",
		},
		{
			Slug:        "burr-grinder",
			Name:        "Burr Coffee Grinder",
			Category:    constants.EquipmentCategoryGrinders,
			Tip:         "Consistent grind for better extraction",
			PriceAmount: models.NewMoneyFromFloat(89.99),
			Image:       unsplash("photo-1559056199-641a0ac8b55e"),
			Description: "Professional-grade burr grinder for uniform particle size and optimal flavor extraction.",
		},
		{
			Slug:        "gooseneck-kettle",
			Name:        "Gooseneck Kettle",
			Category:    constants.EquipmentCategoryKettles,
			Tip:         "Perfect pour control for pour-over",
			PriceAmount: models.NewMoneyFromFloat(45.99),
			Image:       unsplash("photo-1571019613454-1cb2f99b2d8b"),
			Description: "Precision pouring kettle with temperature control for perfect extraction.",
		},
		{
			Slug:        "digital-scale",
			Name:        "Digital Coffee Scale",
			Category:    constants.EquipmentCategoryScales,
			Tip:         "Accurate timing and measurements",
			PriceAmount: models.NewMoneyFromFloat(29.99),
			Image:       unsplash("photo-1442512595331-e89e73853f31"),
			Description: "Precision scale with built-in timer for consistent brewing ratios.",
		},
		{
			Slug:        "espresso-machine",
			Name:        "Home Espresso Machine",
			Category:    constants.EquipmentCategoryEspresso,
			Tip:         "15-bar pressure for perfect crema",
			PriceAmount: models.NewMoneyFromFloat(299.99),
			Image:       unsplash("photo-1447933601403-0c6688de566e"),
			Description: "Semi-automatic espresso machine for café-quality espresso at home.",
		},
		{
			Slug:        "milk-frother",
			Name:        "Milk Frother",
			Category:    constants.EquipmentCategoryEspresso,
			Tip:         "Steam wand technique for microfoam",
			PriceAmount: models.NewMoneyFromFloat(39.99),
			Image:       unsplash("photo-1495474472287-4d71bcdd2085"),
			Description: "Professional milk frother for silky smooth microfoam and latte art.",
		},
	}
}

// Catalog 完整目录，补齐类型、排序与上架状态
func Catalog() []models.Product {
	products := make([]models.Product, 0, 14)
	for i, item := range Coffees() {
		item.Kind = constants.ProductKindCoffee
		item.SortOrder = i + 1
		item.IsActive = true
		products = append(products, item)
	}
	for i, item := range Equipment() {
		item.Kind = constants.ProductKindEquipment
		item.SortOrder = i + 1
		item.IsActive = true
		products = append(products, item)
	}
	return products
}

// Run 在一个事务内按 slug 写入目录，可重复执行
func Run(repo repository.ProductRepository) (int, error) {
	products := Catalog()
	err := repo.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		for i := range products {
			if err := txRepo.Upsert(&products[i]); err != nil {
				return fmt.Errorf("seed product %s: %w", products[i].Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(products), nil
}
