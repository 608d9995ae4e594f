package report

import (
	"time"

	"dukani-be/internal/money"
)

// Range is the inclusive reporting window. Zero DateTo means "until now".
type Range struct {
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
}

type SalesSummary struct {
	Range        Range          `json:"range"`
	OrderCount   int            `json:"orderCount"`
	ItemsSold    int            `json:"itemsSold"`
	GrossRevenue money.Cents    `json:"grossRevenue"`
	Discounts    money.Cents    `json:"discounts"`
	Refunds      money.Cents    `json:"refunds"`
	NetRevenue   money.Cents    `json:"netRevenue"`
	AverageOrder money.Cents    `json:"averageOrder"`
	TopProducts  []TopProduct   `json:"topProducts"`
	StatusCounts map[string]int `json:"statusCounts"`
}

type TopProduct struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Revenue   money.Cents `json:"revenue"`
}
