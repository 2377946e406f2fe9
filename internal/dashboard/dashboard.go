// Package dashboard picks the landing screen for the signed-in role.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"restopos/internal/domain"
	apperrors "restopos/internal/errors"
	"restopos/internal/kitchen"
)

// Renderer draws one role's dashboard to w. One-shot views return after a
// single draw; the chef view keeps redrawing until ctx is done.
type Renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

type RendererFunc func(ctx context.Context, w io.Writer) error

func (f RendererFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

type ReportSource interface {
	DashboardReport(ctx context.Context) (domain.DashboardReport, error)
}

type OrderLister interface {
	ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
}

type TableLister interface {
	ListTables(ctx context.Context) ([]domain.Table, error)
}

// Backend is everything the standard dashboards read.
type Backend interface {
	ReportSource
	OrderLister
	TableLister
	kitchen.OrderSource
}

type Dashboard struct {
	renderers map[domain.Role]Renderer
	logger    *zap.Logger
}

func New(renderers map[domain.Role]Renderer, logger *zap.Logger) *Dashboard {
	return &Dashboard{renderers: renderers, logger: logger}
}

// NewStandard wires the role table used by the POS: reports for admin,
// today's orders for cashier, tables for waiter, the kitchen board for chef.
func NewStandard(backend Backend, chefInterval time.Duration, metrics *kitchen.Metrics, logger *zap.Logger) *Dashboard {
	return New(map[domain.Role]Renderer{
		domain.RoleAdmin:   &AdminView{reports: backend},
		domain.RoleCashier: &CashierView{orders: backend, now: time.Now},
		domain.RoleWaiter:  &WaiterView{tables: backend, orders: backend},
		domain.RoleChef:    NewChefView(kitchen.NewDisplay(backend, metrics, logger), chefInterval, logger),
	}, logger)
}

func (d *Dashboard) Show(ctx context.Context, user domain.User, w io.Writer) error {
	r, ok := d.renderers[user.Role]
	if !ok {
		return apperrors.NewForbiddenError(fmt.Sprintf("no dashboard for role %q", user.Role))
	}
	d.logger.Debug("showing dashboard", zap.String("role", string(user.Role)), zap.Int64("userId", user.ID))
	if _, err := fmt.Fprintf(w, "Welcome, %s (%s)\n\n", user.Name, user.Role); err != nil {
		return err
	}
	return r.Render(ctx, w)
}
