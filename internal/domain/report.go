package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DashboardReport struct {
	TodaySales    decimal.Decimal
	TodayOrders   int
	ActiveOrders  int
	PendingOrders int
	PopularItems  []PopularItem
}

type PopularItem struct {
	MenuItemID   int64
	Name         string
	QuantitySold int
	Revenue      decimal.Decimal
}

type SalesReport struct {
	From        time.Time
	To          time.Time
	TotalSales  decimal.Decimal
	TotalOrders int
	Daily       []DailySales
}

type DailySales struct {
	Date   time.Time
	Sales  decimal.Decimal
	Orders int
}
