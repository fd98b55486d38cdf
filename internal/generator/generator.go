// Package generator produces a synthetic order ledger for demos and local
// development. Output is deterministic for a fixed seed.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"ecomlens/internal/analytics"
)

// Config controls the shape of the generated ledger.
type Config struct {
	Orders    int
	Users     int
	Products  int
	RangeDays int
	Seed      int64
	End       time.Time
}

// DefaultConfig mirrors the demo dataset: 10k orders across 500 users and
// 200 products over 180 days.
func DefaultConfig() Config {
	return Config{
		Orders:    10000,
		Users:     500,
		Products:  200,
		RangeDays: 180,
		Seed:      42,
		End:       time.Now(),
	}
}

var categories = []string{"electronics", "apparel", "home", "beauty", "food", "sports"}

var cities = []string{
	"Beijing", "Shanghai", "Guangzhou", "Shenzhen",
	"Hangzhou", "Chengdu", "Wuhan", "Xian",
}

type weighted struct {
	value  string
	weight float64
}

var channels = []weighted{
	{"live", 0.30},
	{"search", 0.25},
	{"referral", 0.20},
	{"campaign", 0.15},
	{"repeat", 0.10},
}

var statuses = []weighted{
	{"completed", 0.85},
	{"refunded", 0.08},
	{"pending_shipment", 0.04},
	{"cancelled", 0.03},
}

var discounts = []float64{0, 0, 0, 0.1, 0.2, 0.3}

var quantities = []int{1, 1, 1, 2, 2, 3}

// Evening-heavy hour weights approximating real shopping traffic.
var hourWeights = []float64{
	0.01, 0.005, 0.005, 0.005, 0.01, 0.015,
	0.02, 0.03, 0.04, 0.05, 0.055, 0.05,
	0.045, 0.05, 0.055, 0.06, 0.065, 0.07,
	0.075, 0.08, 0.085, 0.075, 0.05, 0.025,
}

type product struct {
	id       string
	category string
	price    float64
	cost     float64
}

// Generate builds a synthetic order ledger. User cities and product prices
// are fixed per entity, so per-user and per-product rollups stay coherent.
func Generate(cfg Config) []analytics.Order {
	if cfg.End.IsZero() {
		cfg.End = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	userCities := make([]string, cfg.Users)
	for i := range userCities {
		userCities[i] = cities[rng.Intn(len(cities))]
	}

	products := make([]product, cfg.Products)
	for i := range products {
		price := round2(10 + rng.Float64()*1990)
		products[i] = product{
			id:       fmt.Sprintf("P%04d", i+1),
			category: categories[rng.Intn(len(categories))],
			price:    price,
			cost:     round2(price * (0.3 + rng.Float64()*0.4)),
		}
	}

	start := cfg.End.AddDate(0, 0, -cfg.RangeDays)
	orders := make([]analytics.Order, 0, cfg.Orders)
	for i := 0; i < cfg.Orders; i++ {
		user := rng.Intn(cfg.Users)
		p := products[rng.Intn(len(products))]
		quantity := quantities[rng.Intn(len(quantities))]
		discount := discounts[rng.Intn(len(discounts))]

		date := start.AddDate(0, 0, rng.Intn(cfg.RangeDays)).
			Truncate(24 * time.Hour).
			Add(time.Duration(pickHour(rng))*time.Hour +
				time.Duration(rng.Intn(60))*time.Minute)

		factor := float64(quantity) * (1 - discount)
		orders = append(orders, analytics.Order{
			OrderID:   fmt.Sprintf("ORD%08d", i+1),
			UserID:    fmt.Sprintf("U%05d", user+1),
			ProductID: p.id,
			Quantity:  quantity,
			OrderDate: date,
			Status:    analytics.ParseStatus(pickWeighted(rng, statuses)),
			Channel:   pickWeighted(rng, channels),
			Discount:  discount,
			Price:     p.price,
			Cost:      p.cost,
			Category:  p.category,
			Amount:    round2(p.price * factor),
			Profit:    round2((p.price - p.cost) * factor),
			City:      userCities[user],
		})
	}
	return orders
}

func pickWeighted(rng *rand.Rand, choices []weighted) string {
	var total float64
	for _, c := range choices {
		total += c.weight
	}
	r := rng.Float64() * total
	for _, c := range choices {
		r -= c.weight
		if r < 0 {
			return c.value
		}
	}
	return choices[len(choices)-1].value
}

func pickHour(rng *rand.Rand) int {
	var total float64
	for _, w := range hourWeights {
		total += w
	}
	r := rng.Float64() * total
	for h, w := range hourWeights {
		r -= w
		if r < 0 {
			return h
		}
	}
	return len(hourWeights) - 1
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
