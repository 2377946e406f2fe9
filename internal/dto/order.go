package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"restopos/internal/domain"
)

type OrderDTO struct {
	ID            int64           `json:"id"`
	OrderNumber   string          `json:"order_number"`
	OrderType     string          `json:"order_type"`
	TableID       *int64          `json:"table_id"`
	CustomerName  string          `json:"customer_name"`
	Status        string          `json:"status"`
	Items         []OrderItemDTO  `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	CreatedBy     *UserDTO        `json:"user,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderItemDTO struct {
	MenuItemID int64           `json:"menu_item_id"`
	MenuItem   *MenuItemDTO    `json:"menu_item,omitempty"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Notes      string          `json:"notes"`
}

func (o OrderDTO) ToDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		name := ""
		if it.MenuItem != nil {
			name = it.MenuItem.Name
		}
		items = append(items, domain.OrderItem{
			MenuItemID: it.MenuItemID,
			Name:       name,
			Quantity:   it.Quantity,
			UnitPrice:  it.Price,
			Subtotal:   it.Subtotal,
			Notes:      it.Notes,
		})
	}

	createdBy := ""
	if o.CreatedBy != nil {
		createdBy = o.CreatedBy.Name
	}

	return domain.Order{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		OrderType:     domain.OrderType(o.OrderType),
		TableID:       o.TableID,
		CustomerName:  o.CustomerName,
		Status:        domain.OrderStatus(o.Status),
		Items:         items,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		Discount:      o.Discount,
		Total:         o.Total,
		PaymentMethod: domain.PaymentMethod(o.PaymentMethod),
		PaidAmount:    o.PaidAmount,
		CreatedBy:     createdBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

type CreateOrderRequest struct {
	OrderType     string                   `json:"order_type"`
	TableID       *int64                   `json:"table_id,omitempty"`
	CustomerName  string                   `json:"customer_name,omitempty"`
	Discount      decimal.Decimal          `json:"discount"`
	PaymentMethod string                   `json:"payment_method"`
	PaidAmount    decimal.Decimal          `json:"paid_amount"`
	Items         []CreateOrderItemRequest `json:"items"`
}

type CreateOrderItemRequest struct {
	MenuItemID int64  `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
