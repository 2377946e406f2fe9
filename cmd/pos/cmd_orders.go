package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"restopos/internal/dashboard"
	"restopos/internal/domain"
	apperrors "restopos/internal/errors"
	"restopos/internal/order/usecase"
)

func ordersCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, inspect and advance orders",
	}
	cmd.AddCommand(ordersListCmd(flags), ordersShowCmd(flags), ordersStatusCmd(flags))
	return cmd
}

func ordersListCmd(flags *globalFlags) *cobra.Command {
	var status, orderType, date string
	var today bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.currentUser(); err != nil {
				return err
			}

			var f domain.OrderFilter
			var err error
			if status != "" {
				if f.Status, err = domain.ParseOrderStatus(status); err != nil {
					return apperrors.NewValidationError(err.Error())
				}
			}
			if orderType != "" {
				if f.OrderType, err = domain.ParseOrderType(orderType); err != nil {
					return apperrors.NewValidationError(err.Error())
				}
			}
			switch {
			case today:
				f.Date = time.Now()
			case date != "":
				if f.Date, err = time.Parse("2006-01-02", date); err != nil {
					return apperrors.NewValidationError("date must look like 2006-01-02")
				}
			}

			orders, err := a.client.ListOrders(cmd.Context(), f)
			if err != nil {
				return err
			}
			return renderOrders(a.out, orders)
		}),
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&orderType, "type", "", "Filter by order type")
	cmd.Flags().StringVar(&date, "date", "", "Filter by day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&today, "today", false, "Only today's orders")
	return cmd
}

func ordersShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order with its lines and next statuses",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.currentUser(); err != nil {
				return err
			}
			id, err := intArg(args, 0, "order-id")
			if err != nil {
				return err
			}
			o, err := a.client.GetOrder(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderOrder(a.out, o)
		}),
	}
}

func ordersStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to its next status",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.currentUser(); err != nil {
				return err
			}
			id, err := intArg(args, 0, "order-id")
			if err != nil {
				return err
			}
			target, err := domain.ParseOrderStatus(args[1])
			if err != nil {
				return apperrors.NewValidationError(err.Error())
			}

			current, err := a.client.GetOrder(cmd.Context(), id)
			if err != nil {
				return err
			}
			updated, err := usecase.NewUpdateStatusUseCase(a.client, a.logger).UpdateStatus(cmd.Context(), current, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Order %s is now %s\n", updated.OrderNumber, updated.Status)
			return nil
		}),
	}
}

func renderOrders(w io.Writer, orders []domain.Order) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tTYPE\tSTATUS\tTOTAL\tCREATED\tNEXT")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.OrderNumber, o.OrderType, o.Status, o.Total.StringFixed(2),
			o.CreatedAt.Local().Format("2006-01-02 15:04"), dashboard.ActionList(o.Status))
	}
	return tw.Flush()
}

func renderOrder(w io.Writer, o domain.Order) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "Order\t%s (#%d)\n", o.OrderNumber, o.ID)
	fmt.Fprintf(tw, "Type\t%s\n", o.OrderType)
	if o.TableID != nil {
		fmt.Fprintf(tw, "Table\t%d\n", *o.TableID)
	}
	if o.CustomerName != "" {
		fmt.Fprintf(tw, "Customer\t%s\n", o.CustomerName)
	}
	fmt.Fprintf(tw, "Status\t%s\n", o.Status)
	fmt.Fprintf(tw, "Next\t%s\n", dashboard.ActionList(o.Status))
	if o.CreatedBy != "" {
		fmt.Fprintf(tw, "Taken by\t%s\n", o.CreatedBy)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "QTY\tITEM\tAMOUNT\tNOTES")
	for _, it := range o.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", it.Quantity, it.Name, it.Subtotal.StringFixed(2), it.Notes)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Subtotal\t%s\n", o.Subtotal.StringFixed(2))
	fmt.Fprintf(tw, "Tax\t%s\n", o.Tax.StringFixed(2))
	if !o.Discount.IsZero() {
		fmt.Fprintf(tw, "Discount\t-%s\n", o.Discount.StringFixed(2))
	}
	fmt.Fprintf(tw, "Total\t%s\n", o.Total.StringFixed(2))
	if o.PaymentMethod != "" {
		fmt.Fprintf(tw, "Paid\t%s (%s)\n", o.PaidAmount.StringFixed(2), o.PaymentMethod)
	}
	return tw.Flush()
}
