package dashboard

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"restopos/internal/domain"
	"restopos/internal/kitchen"
	"restopos/internal/poller"
)

type AdminView struct {
	reports ReportSource
}

func (v *AdminView) Render(ctx context.Context, w io.Writer) error {
	r, err := v.reports.DashboardReport(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "Sales today\t%s\n", r.TodaySales.StringFixed(2))
	fmt.Fprintf(tw, "Orders today\t%d\n", r.TodayOrders)
	fmt.Fprintf(tw, "Active orders\t%d\n", r.ActiveOrders)
	fmt.Fprintf(tw, "Pending orders\t%d\n", r.PendingOrders)
	if len(r.PopularItems) > 0 {
		fmt.Fprintln(tw, "\nPopular items\tsold\trevenue")
		for _, it := range r.PopularItems {
			fmt.Fprintf(tw, "  %s\t%d\t%s\n", it.Name, it.QuantitySold, it.Revenue.StringFixed(2))
		}
	}
	return tw.Flush()
}

type CashierView struct {
	orders OrderLister
	now    func() time.Time
}

func (v *CashierView) Render(ctx context.Context, w io.Writer) error {
	orders, err := v.orders.ListOrders(ctx, domain.OrderFilter{Date: v.now()})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Today's orders (%d)\n", len(orders))
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tTYPE\tSTATUS\tTOTAL\tACTIONS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.OrderNumber, o.OrderType, o.Status, o.Total.StringFixed(2), ActionList(o.Status))
	}
	return tw.Flush()
}

type WaiterView struct {
	tables TableLister
	orders OrderLister
}

func (v *WaiterView) Render(ctx context.Context, w io.Writer) error {
	tables, err := v.tables.ListTables(ctx)
	if err != nil {
		return err
	}
	orders, err := v.orders.ListOrders(ctx, domain.OrderFilter{OrderType: domain.OrderTypeDineIn})
	if err != nil {
		return err
	}

	open := make(map[int64][]domain.Order)
	for _, o := range orders {
		if o.Status.IsTerminal() || o.TableID == nil {
			continue
		}
		open[*o.TableID] = append(open[*o.TableID], o)
	}

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tSEATS\tSTATUS\tOPEN ORDERS")
	for _, t := range tables {
		var labels []string
		for _, o := range open[t.ID] {
			labels = append(labels, fmt.Sprintf("%s (%s)", o.OrderNumber, o.Status))
		}
		list := "-"
		if len(labels) > 0 {
			list = strings.Join(labels, ", ")
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", t.Number, t.Capacity, t.Status, list)
	}
	return tw.Flush()
}

// ChefView polls the kitchen list on a fixed interval, with no toggle, and
// redraws the board after every fetch.
type ChefView struct {
	display  *kitchen.Display
	interval time.Duration
	logger   *zap.Logger
}

func NewChefView(display *kitchen.Display, interval time.Duration, logger *zap.Logger) *ChefView {
	return &ChefView{display: display, interval: interval, logger: logger}
}

func (v *ChefView) Render(ctx context.Context, w io.Writer) error {
	var mu sync.Mutex
	v.display.OnUpdate(func(b kitchen.Board) {
		mu.Lock()
		defer mu.Unlock()
		if err := kitchen.Render(w, b); err != nil {
			v.logger.Warn("drawing kitchen board", zap.Error(err))
		}
		fmt.Fprintln(w)
	})

	poller.New("chef-dashboard", v.interval, v.display.Fetch, v.logger).Run(ctx)
	return nil
}

// ActionList is the text shown next to an order for the statuses it can
// move to.
func ActionList(s domain.OrderStatus) string {
	next := domain.NextStatuses(s)
	if len(next) == 0 {
		return "-"
	}
	parts := make([]string, len(next))
	for i, n := range next {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
