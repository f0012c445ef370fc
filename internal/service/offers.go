package service

import "github.com/bean-boutique/internal/models"

// SubscriptionTier 咖啡订阅档位（只读展示）
type SubscriptionTier struct {
	Tier         string       `json:"tier"`
	Deliveries   string       `json:"deliveries"`
	Benefits     []string     `json:"benefits"`
	MonthlyPrice models.Money `json:"monthly_price"`
	Popular      bool         `json:"popular"`
	Description  string       `json:"description"`
	Savings      string       `json:"savings"`
}

// OfferFAQ 订阅常见问题
type OfferFAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Offers 订阅档位与常见问题
type Offers struct {
	Subscriptions []SubscriptionTier `json:"subscriptions"`
	FAQ           []OfferFAQ         `json:"faq"`
}

// CurrentOffers 返回当前订阅方案，每次调用返回新切片
func CurrentOffers() Offers {
	return Offers{
		Subscriptions: []SubscriptionTier{
			{
				Tier:         "Basic",
				Deliveries:   "1×250g/month",
				Benefits:     []string{"5% off equipment", "Early event notice"},
				MonthlyPrice: models.NewMoneyFromFloat(10),
				Description:  "Perfect for casual coffee drinkers who want to explore new flavors",
				Savings:      "Save £12/year vs individual purchases",
			},
			{
				Tier:         "Plus",
				Deliveries:   "2×250g/month",
				Benefits:     []string{"10% off equipment", "Priority booking", "Free shipping"},
				MonthlyPrice: models.NewMoneyFromFloat(18),
				Popular:      true,
				Description:  "Our most popular plan for coffee enthusiasts",
				Savings:      "Save £36/year vs individual purchases",
			},
			{
				Tier:         "Premium",
				Deliveries:   "3×250g/month",
				Benefits:     []string{"15% off equipment", "Exclusive tastings", "Free shipping", "Monthly brewing guide"},
				MonthlyPrice: models.NewMoneyFromFloat(25),
				Description:  "The ultimate experience for serious coffee connoisseurs",
				Savings:      "Save £60/year vs individual purchases",
			},
		},
		FAQ: []OfferFAQ{
			{
				Question: "How does the subscription work?",
				Answer:   "You choose your preferred tier and we deliver freshly roasted coffee to your door every month. You can pause, modify, or cancel your subscription at any time through your account dashboard.",
			},
			{
				Question: "Can I choose which coffees I receive?",
				Answer:   "Yes! You can set your flavor preferences in your account, or let our experts surprise you with carefully curated selections. Premium members get access to exclusive single-origin coffees.",
			},
			{
				Question: "What if I don't like a coffee?",
				Answer:   "We offer a satisfaction guarantee. If you're not happy with any coffee, contact us within 7 days and we'll send you a replacement or credit your account.",
			},
			{
				Question: "Can I skip a month?",
				Answer:   "Absolutely! You can pause your subscription for any month through your account dashboard. Just make sure to pause before the 15th of the month to skip the next delivery.",
			},
			{
				Question: "Do you ship internationally?",
				Answer:   "Currently we only ship within the UK. We're working on expanding to Europe and will announce when international shipping becomes available.",
			},
			{
				Question: "How fresh is the coffee?",
				Answer:   "All coffee is roasted to order within 48 hours of shipping. You'll receive beans that are 3-7 days post-roast, which is the optimal window for brewing.",
			},
		},
	}
}
