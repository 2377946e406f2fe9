package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"restopos/internal/domain"
)

type DashboardReportDTO struct {
	TodaySales    decimal.Decimal  `json:"today_sales"`
	TodayOrders   int              `json:"today_orders"`
	ActiveOrders  int              `json:"active_orders"`
	PendingOrders int              `json:"pending_orders"`
	PopularItems  []PopularItemDTO `json:"popular_items"`
}

type PopularItemDTO struct {
	MenuItemID   int64           `json:"menu_item_id"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"total_quantity"`
	Revenue      decimal.Decimal `json:"total_revenue"`
}

func (p PopularItemDTO) ToDomain() domain.PopularItem {
	return domain.PopularItem{
		MenuItemID:   p.MenuItemID,
		Name:         p.Name,
		QuantitySold: p.QuantitySold,
		Revenue:      p.Revenue,
	}
}

func (d DashboardReportDTO) ToDomain() domain.DashboardReport {
	items := make([]domain.PopularItem, 0, len(d.PopularItems))
	for _, p := range d.PopularItems {
		items = append(items, p.ToDomain())
	}
	return domain.DashboardReport{
		TodaySales:    d.TodaySales,
		TodayOrders:   d.TodayOrders,
		ActiveOrders:  d.ActiveOrders,
		PendingOrders: d.PendingOrders,
		PopularItems:  items,
	}
}

// Date is a calendar day as the reports endpoints send it.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

type SalesReportDTO struct {
	From        Date            `json:"start_date"`
	To          Date            `json:"end_date"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalOrders int             `json:"total_orders"`
	Daily       []DailySalesDTO `json:"daily"`
}

type DailySalesDTO struct {
	Date   Date            `json:"date"`
	Sales  decimal.Decimal `json:"total_sales"`
	Orders int             `json:"total_orders"`
}

func (s SalesReportDTO) ToDomain() domain.SalesReport {
	daily := make([]domain.DailySales, 0, len(s.Daily))
	for _, d := range s.Daily {
		daily = append(daily, domain.DailySales{Date: d.Date.Time, Sales: d.Sales, Orders: d.Orders})
	}
	return domain.SalesReport{
		From:        s.From.Time,
		To:          s.To.Time,
		TotalSales:  s.TotalSales,
		TotalOrders: s.TotalOrders,
		Daily:       daily,
	}
}
