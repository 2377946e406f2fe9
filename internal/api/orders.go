package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"restopos/internal/domain"
	"restopos/internal/dto"
)

func (c *Client) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.OrderType != "" {
		q.Set("order_type", string(f.OrderType))
	}
	if !f.Date.IsZero() {
		q.Set("date", f.Date.Format("2006-01-02"))
	}
	return c.listOrders(ctx, request{method: http.MethodGet, route: "/orders", path: "/orders", query: q})
}

func (c *Client) KitchenOrders(ctx context.Context) ([]domain.Order, error) {
	return c.listOrders(ctx, request{method: http.MethodGet, route: "/orders/kitchen/display", path: "/orders/kitchen/display"})
}

func (c *Client) listOrders(ctx context.Context, req request) ([]domain.Order, error) {
	body, err := c.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	list, err := decodeList[dto.OrderDTO](body, "orders")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(list))
	for _, o := range list {
		out = append(out, o.ToDomain())
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, route: "/orders/{id}", path: idPath("/orders", id)})
	if err != nil {
		return domain.Order{}, fmt.Errorf("fetching order %d: %w", id, err)
	}
	o, err := decodeOne[dto.OrderDTO](body, "order")
	if err != nil {
		return domain.Order{}, err
	}
	return o.ToDomain(), nil
}

func (c *Client) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (domain.Order, error) {
	req, err := jsonRequest(http.MethodPost, "/orders", "/orders", in)
	if err != nil {
		return domain.Order{}, err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return domain.Order{}, fmt.Errorf("creating order: %w", err)
	}
	o, err := decodeOne[dto.OrderDTO](body, "order")
	if err != nil {
		return domain.Order{}, err
	}
	return o.ToDomain(), nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	req, err := jsonRequest(http.MethodPut, "/orders/{id}/status", idPath("/orders", id, "status"),
		dto.UpdateOrderStatusRequest{Status: string(status)})
	if err != nil {
		return domain.Order{}, err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return domain.Order{}, fmt.Errorf("updating order %d status: %w", id, err)
	}
	o, err := decodeOne[dto.OrderDTO](body, "order")
	if err != nil {
		return domain.Order{}, err
	}
	return o.ToDomain(), nil
}
