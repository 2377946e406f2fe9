package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"restopos/internal/api"
	"restopos/internal/cart"
	"restopos/internal/domain"
	apperrors "restopos/internal/errors"
	"restopos/internal/order"
	"restopos/internal/order/usecase"
)

const sellHelp = `commands:
  menu [search]             list available items
  add <item-id> [qty]       add an item
  qty <item-id> <n>         set quantity (0 removes)
  rm <item-id>              remove an item
  note <item-id> <text>     kitchen note for a line
  type dine_in|takeaway|delivery
  table <table-id>|none     pick or unset the table (dine-in)
  tables                    list tables
  customer <name>           customer name
  discount <amount>         flat discount
  show                      print the cart
  pay cash <amount> | pay card | pay qris
  clear                     empty the cart
  quit`

func sellCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sell",
		Short: "Interactive sale: build a cart and check it out",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.requireRole(domain.RoleCashier, domain.RoleWaiter, domain.RoleAdmin); err != nil {
				return err
			}
			s := newSale(a)
			return s.loop(cmd)
		}),
	}
}

// sale is one interactive checkout session.
type sale struct {
	app    *app
	store  *cart.Store
	orders *order.Module
	menu   map[int64]domain.MenuItem
}

func newSale(a *app) *sale {
	s := &sale{app: a, store: cart.NewStore(), menu: map[int64]domain.MenuItem{}}
	s.orders = order.NewModule(a.client, s.store, s, a.logger)
	return s
}

// PromptTable is called by checkout when a dine-in cart has no table.
func (s *sale) PromptTable() {
	fmt.Fprintln(s.app.out, "Dine-in orders need a table. Use `tables` to list them and `table <id>` to pick one.")
}

func (s *sale) loop(cmd *cobra.Command) error {
	fmt.Fprintln(s.app.out, sellHelp)
	for {
		line, err := s.app.prompt("> ")
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.exec(cmd, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(s.app.out, "error: %s\n", apperrors.UserMessage(err))
			if ve, ok := apperrors.IsValidationError(err); ok {
				for _, d := range ve.Details {
					fmt.Fprintf(s.app.out, "  %s: %s\n", d.Field, d.Message)
				}
			}
		}
	}
}

func (s *sale) exec(cmd *cobra.Command, verb string, args []string) error {
	ctx := cmd.Context()

	switch verb {
	case "help":
		fmt.Fprintln(s.app.out, sellHelp)
		return nil

	case "menu":
		items, err := s.app.client.ListMenuItems(ctx, api.MenuItemFilter{AvailableOnly: true, Search: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(s.app.out, 0, 2, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
		for _, it := range items {
			s.menu[it.ID] = it
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", it.ID, it.Name, it.Category, it.Price.StringFixed(2))
		}
		return tw.Flush()

	case "add":
		id, err := intArg(args, 0, "item-id")
		if err != nil {
			return err
		}
		qty := 1
		if len(args) > 1 {
			if qty, err = strconv.Atoi(args[1]); err != nil || qty < 1 {
				return apperrors.NewValidationError("quantity must be a positive number")
			}
		}
		item, err := s.menuItem(cmd, id)
		if err != nil {
			return err
		}
		if !item.IsAvailable {
			return apperrors.NewConflictError(item.Name + " is not available")
		}
		c := s.store.Dispatch(func(c cart.Cart) cart.Cart {
			c = c.AddItem(item)
			if qty > 1 {
				c = c.SetQuantity(item.ID, c.Quantity(item.ID)+qty-1)
			}
			return c
		})
		return renderCart(s.app.out, c)

	case "qty":
		id, err := intArg(args, 0, "item-id")
		if err != nil {
			return err
		}
		n, err := intArg(args, 1, "quantity")
		if err != nil {
			return err
		}
		return renderCart(s.app.out, s.store.Dispatch(func(c cart.Cart) cart.Cart { return c.SetQuantity(id, int(n)) }))

	case "rm":
		id, err := intArg(args, 0, "item-id")
		if err != nil {
			return err
		}
		return renderCart(s.app.out, s.store.Dispatch(func(c cart.Cart) cart.Cart { return c.RemoveItem(id) }))

	case "note":
		id, err := intArg(args, 0, "item-id")
		if err != nil {
			return err
		}
		notes := strings.Join(args[1:], " ")
		return renderCart(s.app.out, s.store.Dispatch(func(c cart.Cart) cart.Cart { return c.SetLineNotes(id, notes) }))

	case "type":
		if len(args) == 0 {
			return apperrors.NewValidationError("usage: type dine_in|takeaway|delivery")
		}
		t, err := domain.ParseOrderType(args[0])
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		return renderCart(s.app.out, s.store.Dispatch(func(c cart.Cart) cart.Cart { return c.SetOrderType(t) }))

	case "table":
		if len(args) > 0 && args[0] == "none" {
			return renderCart(s.app.out, s.store.Dispatch(func(c cart.Cart) cart.Cart {
				return c.SetCustomerInfo(cart.CustomerInfo{ClearTable: true})
			}))
		}
		id, err := intArg(args, 0, "table-id")
		if err != nil {
			return err
		}
		if s.store.Snapshot().OrderType() != domain.OrderTypeDineIn {
			return apperrors.NewValidationError("tables only apply to dine-in orders")
		}
		return renderCart(s.app.out, s.store.Dispatch(func(c cart.Cart) cart.Cart {
			return c.SetCustomerInfo(cart.CustomerInfo{TableID: &id})
		}))

	case "tables":
		tables, err := s.app.client.ListTables(ctx)
		if err != nil {
			return err
		}
		return renderTables(s.app.out, tables)

	case "customer":
		name := strings.Join(args, " ")
		return renderCart(s.app.out, s.store.Dispatch(func(c cart.Cart) cart.Cart {
			return c.SetCustomerInfo(cart.CustomerInfo{CustomerName: &name})
		}))

	case "discount":
		amount, err := decimalArg(args, 0, "amount")
		if err != nil {
			return err
		}
		return renderCart(s.app.out, s.store.Dispatch(func(c cart.Cart) cart.Cart { return c.SetDiscount(amount) }))

	case "show":
		return renderCart(s.app.out, s.store.Snapshot())

	case "clear":
		s.store.Reset()
		fmt.Fprintln(s.app.out, "Cart cleared.")
		return nil

	case "pay":
		return s.pay(cmd, args)
	}

	return apperrors.NewValidationError(fmt.Sprintf("unknown command %q, type help", verb))
}

func (s *sale) pay(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return apperrors.NewValidationError("usage: pay cash <amount> | pay card | pay qris")
	}
	pay := usecase.Payment{Method: domain.PaymentMethod(args[0])}
	if pay.Method == domain.PaymentCash {
		amount, err := decimalArg(args, 1, "amount")
		if err != nil {
			return err
		}
		pay.Paid = amount
	}

	res, err := s.orders.Checkout.Checkout(cmd.Context(), pay)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.app.out, "Order %s created (status %s), total %s\n",
		res.Order.OrderNumber, res.Order.Status, res.Order.Total.StringFixed(2))
	if res.Change.IsPositive() {
		fmt.Fprintf(s.app.out, "Change due: %s\n", res.Change.StringFixed(2))
	}
	return nil
}

// menuItem resolves an item from the last menu listing, fetching it when it
// was never listed.
func (s *sale) menuItem(cmd *cobra.Command, id int64) (domain.MenuItem, error) {
	if it, ok := s.menu[id]; ok {
		return it, nil
	}
	it, err := s.app.client.GetMenuItem(cmd.Context(), id)
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.menu[id] = it
	return it, nil
}

func renderCart(w io.Writer, c cart.Cart) error {
	if c.IsEmpty() {
		fmt.Fprintln(w, "Cart is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEM\tQTY\tPRICE\tAMOUNT\tNOTES")
	for _, l := range c.Lines() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n",
			l.ItemID, l.Name, l.Quantity, l.UnitPrice.StringFixed(2), l.Amount().StringFixed(2), l.Notes)
	}
	fmt.Fprintln(tw)

	where := string(c.OrderType())
	if id, ok := c.TableID(); ok {
		where += fmt.Sprintf(", table %d", id)
	}
	if c.CustomerName() != "" {
		where += ", " + c.CustomerName()
	}
	fmt.Fprintf(tw, "Order\t%s\n", where)
	fmt.Fprintf(tw, "Items\t%d\n", c.ItemCount())
	fmt.Fprintf(tw, "Subtotal\t%s\n", c.Subtotal().StringFixed(2))
	fmt.Fprintf(tw, "Tax\t%s\n", c.Tax().StringFixed(2))
	if !c.Discount().IsZero() {
		fmt.Fprintf(tw, "Discount\t-%s\n", c.Discount().StringFixed(2))
	}
	fmt.Fprintf(tw, "Total\t%s\n", c.PayableTotal().StringFixed(2))
	return tw.Flush()
}

func renderTables(w io.Writer, tables []domain.Table) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tSEATS\tSTATUS")
	for _, t := range tables {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", t.ID, t.Number, t.Capacity, t.Status)
	}
	return tw.Flush()
}

func intArg(args []string, i int, name string) (int64, error) {
	if len(args) <= i {
		return 0, apperrors.NewValidationError(name + " is required")
	}
	n, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be a number")
	}
	return n, nil
}

func decimalArg(args []string, i int, name string) (decimal.Decimal, error) {
	if len(args) <= i {
		return decimal.Zero, apperrors.NewValidationError(name + " is required")
	}
	d, err := decimal.NewFromString(args[i])
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError(name + " must be a number")
	}
	return d, nil
}
