package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"restopos/internal/domain"
	"restopos/internal/dto"
)

func (c *Client) DashboardReport(ctx context.Context) (domain.DashboardReport, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, route: "/reports/dashboard", path: "/reports/dashboard"})
	if err != nil {
		return domain.DashboardReport{}, fmt.Errorf("fetching dashboard report: %w", err)
	}
	r, err := decodeOne[dto.DashboardReportDTO](body, "report")
	if err != nil {
		return domain.DashboardReport{}, err
	}
	return r.ToDomain(), nil
}

func dateRange(from, to time.Time) url.Values {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("start_date", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		q.Set("end_date", to.Format("2006-01-02"))
	}
	return q
}

func (c *Client) SalesReport(ctx context.Context, from, to time.Time) (domain.SalesReport, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/reports/sales",
		path:   "/reports/sales",
		query:  dateRange(from, to),
	})
	if err != nil {
		return domain.SalesReport{}, fmt.Errorf("fetching sales report: %w", err)
	}
	r, err := decodeOne[dto.SalesReportDTO](body, "report")
	if err != nil {
		return domain.SalesReport{}, err
	}
	return r.ToDomain(), nil
}

func (c *Client) PopularItems(ctx context.Context, from, to time.Time, limit int) ([]domain.PopularItem, error) {
	q := dateRange(from, to)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/reports/popular-items",
		path:   "/reports/popular-items",
		query:  q,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching popular items: %w", err)
	}
	list, err := decodeList[dto.PopularItemDTO](body, "items")
	if err != nil {
		return nil, err
	}
	out := make([]domain.PopularItem, 0, len(list))
	for _, p := range list {
		out = append(out, p.ToDomain())
	}
	return out, nil
}
