package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"restopos/internal/domain"
	apperrors "restopos/internal/errors"
)

type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error)
}

type UpdateStatusUseCase struct {
	orders StatusUpdater
	logger *zap.Logger
}

func NewUpdateStatusUseCase(orders StatusUpdater, logger *zap.Logger) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{orders: orders, logger: logger}
}

// UpdateStatus moves order to target. Moves the local table forbids are
// refused without a request; the backend can still refuse the rest when
// the order changed on another terminal.
func (uc *UpdateStatusUseCase) UpdateStatus(ctx context.Context, order domain.Order, target domain.OrderStatus) (domain.Order, error) {
	if !domain.CanTransition(order.Status, target) {
		uc.logger.Debug("status change refused locally",
			zap.Int64("orderId", order.ID),
			zap.String("from", string(order.Status)),
			zap.String("to", string(target)),
		)
		return domain.Order{}, apperrors.NewConflictError(
			fmt.Sprintf("order %s cannot move from %s to %s", label(order), order.Status, target))
	}

	updated, err := uc.orders.UpdateOrderStatus(ctx, order.ID, target)
	if err != nil {
		return domain.Order{}, fmt.Errorf("updating order %d status: %w", order.ID, err)
	}

	uc.logger.Info("order status updated",
		zap.Int64("orderId", order.ID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(updated.Status)),
	)
	return updated, nil
}

func label(o domain.Order) string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return fmt.Sprintf("#%d", o.ID)
}
