package domain

import "github.com/shopspring/decimal"

type RevenuePoint struct {
	Date    string
	Revenue decimal.Decimal
}

type OrderStats struct {
	Total  int
	Counts map[Status]int
}

type ProductSales struct {
	Product   *Product
	TotalSold int
}

type DashboardStats struct {
	Orders        OrderStats
	TotalRevenue  decimal.Decimal
	LowStockCount int
	CustomerCount int
}
