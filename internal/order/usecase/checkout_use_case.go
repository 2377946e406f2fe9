package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restopos/internal/cart"
	"restopos/internal/domain"
	"restopos/internal/dto"
	apperrors "restopos/internal/errors"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (domain.Order, error)
}

// TablePrompter opens the table picker when a dine-in cart has no table.
type TablePrompter interface {
	PromptTable()
}

type CartStore interface {
	Snapshot() cart.Cart
	Reset()
}

type Payment struct {
	Method domain.PaymentMethod
	// Paid is what the customer handed over. Only cash needs it; card and
	// QRIS are charged the payable total when it is zero.
	Paid decimal.Decimal
}

type CheckoutResult struct {
	Order  domain.Order
	Change decimal.Decimal
}

type CheckoutUseCase struct {
	orders   OrderCreator
	carts    CartStore
	prompter TablePrompter
	logger   *zap.Logger
	inFlight atomic.Bool
}

func NewCheckoutUseCase(orders OrderCreator, carts CartStore, prompter TablePrompter, logger *zap.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:   orders,
		carts:    carts,
		prompter: prompter,
		logger:   logger,
	}
}

// Checkout turns the current cart into a backend order. The cart is cleared
// only once the backend has accepted it.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, pay Payment) (*CheckoutResult, error) {
	if !uc.inFlight.CompareAndSwap(false, true) {
		return nil, apperrors.NewConflictError("an order is already being submitted")
	}
	defer uc.inFlight.Store(false)

	c := uc.carts.Snapshot()

	if err := uc.validate(c, &pay); err != nil {
		return nil, err
	}

	req := buildCreateOrderRequest(c, pay)
	uc.logger.Info("checkout started",
		zap.String("orderType", req.OrderType),
		zap.Int("lines", len(req.Items)),
		zap.String("total", c.PayableTotal().String()),
		zap.String("paymentMethod", req.PaymentMethod),
	)

	order, err := uc.orders.CreateOrder(ctx, req)
	if err != nil {
		uc.logger.Warn("checkout failed, cart kept", zap.Error(err))
		return nil, fmt.Errorf("submitting order: %w", err)
	}

	uc.carts.Reset()
	change := c.Change(pay.Paid)
	uc.logger.Info("checkout completed", zap.Int64("orderId", order.ID), zap.String("orderNumber", order.OrderNumber))

	return &CheckoutResult{Order: order, Change: change}, nil
}

func (uc *CheckoutUseCase) validate(c cart.Cart, pay *Payment) error {
	if c.IsEmpty() {
		return apperrors.NewValidationError("cart is empty", apperrors.ValidationDetail{
			Field:   "items",
			Message: "add at least one item before checking out",
		})
	}

	if c.NeedsTable() {
		if uc.prompter != nil {
			uc.prompter.PromptTable()
		}
		return apperrors.NewValidationError("select a table for dine-in orders", apperrors.ValidationDetail{
			Field:   "table_id",
			Message: "table is required for dine-in orders",
		})
	}

	if _, err := domain.ParsePaymentMethod(string(pay.Method)); err != nil {
		return apperrors.NewValidationError("invalid payment method", apperrors.ValidationDetail{
			Field:   "payment_method",
			Message: "payment method must be one of: cash, card, qris",
		})
	}

	total := c.PayableTotal()
	switch {
	case pay.Method == domain.PaymentCash && pay.Paid.LessThan(total):
		return apperrors.NewValidationError("paid amount is less than the total", apperrors.ValidationDetail{
			Field:   "paid_amount",
			Message: "paid amount must be at least " + total.StringFixed(2),
		})
	case pay.Method != domain.PaymentCash && pay.Paid.IsZero():
		pay.Paid = total
	}
	return nil
}

func buildCreateOrderRequest(c cart.Cart, pay Payment) dto.CreateOrderRequest {
	lines := c.Lines()
	items := make([]dto.CreateOrderItemRequest, 0, len(lines))
	for _, l := range lines {
		items = append(items, dto.CreateOrderItemRequest{
			MenuItemID: l.ItemID,
			Quantity:   l.Quantity,
			Notes:      l.Notes,
		})
	}

	req := dto.CreateOrderRequest{
		OrderType:     string(c.OrderType()),
		CustomerName:  c.CustomerName(),
		Discount:      c.Discount(),
		PaymentMethod: string(pay.Method),
		PaidAmount:    pay.Paid,
		Items:         items,
	}
	if id, ok := c.TableID(); ok && c.OrderType() == domain.OrderTypeDineIn {
		req.TableID = &id
	}
	return req
}
