package kitchen

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"restopos/internal/domain"
)

// Render writes the board as plain text, one block per column.
func Render(w io.Writer, b Board) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)

	header := "KITCHEN"
	if !b.FetchedAt.IsZero() {
		header += " (updated " + b.FetchedAt.Format("15:04:05") + ")"
	}
	fmt.Fprintln(tw, header)
	if b.Stale {
		fmt.Fprintf(tw, "! last refresh failed: %s\n", b.LastError)
	}

	for _, col := range b.Columns {
		fmt.Fprintf(tw, "\n%s (%d)\n", strings.ToUpper(string(col.Status)), len(col.Tickets))
		if len(col.Tickets) == 0 {
			fmt.Fprintln(tw, "  -")
			continue
		}
		for _, t := range col.Tickets {
			fmt.Fprintf(tw, "  #%d\t%s\t%s\t%s\t-> %s\n",
				t.Order.ID, t.Order.OrderNumber, where(t.Order), waiting(t.Waiting), actions(t.Actions))
			for _, it := range t.Order.Items {
				line := fmt.Sprintf("    %dx %s", it.Quantity, it.Name)
				if it.Notes != "" {
					line += " (" + it.Notes + ")"
				}
				fmt.Fprintln(tw, line)
			}
		}
	}
	return tw.Flush()
}

func where(o domain.Order) string {
	if o.OrderType == domain.OrderTypeDineIn && o.TableID != nil {
		return fmt.Sprintf("table %d", *o.TableID)
	}
	return string(o.OrderType)
}

func waiting(d time.Duration) string {
	if d < time.Minute {
		return "just now"
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

func actions(next []domain.OrderStatus) string {
	if len(next) == 0 {
		return "none"
	}
	parts := make([]string, len(next))
	for i, s := range next {
		parts[i] = string(s)
	}
	return strings.Join(parts, "|")
}
