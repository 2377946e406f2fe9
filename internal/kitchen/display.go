// Package kitchen keeps the kitchen display board: active orders grouped by
// status, refetched by a poller and kept on screen across failed fetches.
package kitchen

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"restopos/internal/domain"
	apperrors "restopos/internal/errors"
)

// Columns is the left-to-right order of the board.
var Columns = []domain.OrderStatus{
	domain.OrderStatusPending,
	domain.OrderStatusPreparing,
	domain.OrderStatusReady,
}

type OrderSource interface {
	KitchenOrders(ctx context.Context) ([]domain.Order, error)
}

type Ticket struct {
	Order   domain.Order
	Waiting time.Duration
	Actions []domain.OrderStatus
}

type Column struct {
	Status  domain.OrderStatus
	Tickets []Ticket
}

type Board struct {
	Columns   []Column
	FetchedAt time.Time
	// Stale is set when the latest fetch failed and the tickets are from an
	// earlier one.
	Stale     bool
	LastError string
}

func (b Board) Count() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tickets)
	}
	return n
}

// Ticket finds an order on the board by id.
func (b Board) Ticket(orderID int64) (Ticket, bool) {
	for _, c := range b.Columns {
		for _, t := range c.Tickets {
			if t.Order.ID == orderID {
				return t, true
			}
		}
	}
	return Ticket{}, false
}

// BuildBoard groups orders into the board columns, oldest first. Orders in a
// terminal status are left out.
func BuildBoard(orders []domain.Order, now time.Time) Board {
	byStatus := make(map[domain.OrderStatus][]Ticket, len(Columns))
	for _, o := range orders {
		byStatus[o.Status] = append(byStatus[o.Status], Ticket{
			Order:   o,
			Waiting: now.Sub(o.CreatedAt),
			Actions: domain.NextStatuses(o.Status),
		})
	}

	board := Board{FetchedAt: now, Columns: make([]Column, 0, len(Columns))}
	for _, status := range Columns {
		tickets := byStatus[status]
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].Order.CreatedAt.Before(tickets[j].Order.CreatedAt)
		})
		board.Columns = append(board.Columns, Column{Status: status, Tickets: tickets})
	}
	return board
}

type Display struct {
	source   OrderSource
	metrics  *Metrics
	logger   *zap.Logger
	now      func() time.Time
	onUpdate func(Board)

	mu    sync.RWMutex
	board Board
}

func NewDisplay(source OrderSource, metrics *Metrics, logger *zap.Logger) *Display {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Display{
		source:  source,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		board:   BuildBoard(nil, time.Time{}),
	}
}

// OnUpdate registers fn to be called with the board after every fetch,
// successful or not. Set it before the poller starts.
func (d *Display) OnUpdate(fn func(Board)) {
	d.onUpdate = fn
}

// Fetch loads the kitchen list and replaces the board. On failure the
// previous tickets stay and the board is marked stale. Results that arrive
// after ctx is done are dropped.
func (d *Display) Fetch(ctx context.Context) error {
	orders, err := d.source.KitchenOrders(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err != nil {
		d.metrics.refetchFailures.Inc()
		d.mu.Lock()
		d.board.Stale = true
		d.board.LastError = apperrors.UserMessage(err)
		board := d.board
		d.mu.Unlock()

		d.notify(board)
		return fmt.Errorf("fetching kitchen orders: %w", err)
	}

	board := BuildBoard(orders, d.now())
	for _, c := range board.Columns {
		d.metrics.activeOrders.WithLabelValues(string(c.Status)).Set(float64(len(c.Tickets)))
	}

	d.mu.Lock()
	d.board = board
	d.mu.Unlock()

	d.logger.Debug("kitchen board refreshed", zap.Int("orders", board.Count()))
	d.notify(board)
	return nil
}

func (d *Display) notify(b Board) {
	if d.onUpdate != nil {
		d.onUpdate(b)
	}
}

func (d *Display) Board() Board {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.board
}
