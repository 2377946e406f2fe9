package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"restopos/internal/dashboard"
	"restopos/internal/domain"
	apperrors "restopos/internal/errors"
)

func dashboardCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Landing screen for the signed-in role",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			user, err := a.currentUser()
			if err != nil {
				return err
			}
			d := dashboard.NewStandard(a.client, a.cfg.Polling.ChefInterval, a.kitchen, a.logger)
			return d.Show(cmd.Context(), user, a.out)
		}),
	}
}

func reportsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Sales reports (admin)",
	}
	cmd.AddCommand(reportsSalesCmd(flags), reportsPopularCmd(flags))
	return cmd
}

type dateRangeFlags struct {
	from, to string
}

func (f *dateRangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "First day (YYYY-MM-DD), defaults to 7 days ago")
	cmd.Flags().StringVar(&f.to, "to", "", "Last day (YYYY-MM-DD), defaults to today")
}

func (f *dateRangeFlags) parse() (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -7)
	var err error
	if f.from != "" {
		if from, err = time.Parse("2006-01-02", f.from); err != nil {
			return from, to, apperrors.NewValidationError("from must look like 2006-01-02")
		}
	}
	if f.to != "" {
		if to, err = time.Parse("2006-01-02", f.to); err != nil {
			return from, to, apperrors.NewValidationError("to must look like 2006-01-02")
		}
	}
	if to.Before(from) {
		return from, to, apperrors.NewValidationError("to must not be before from")
	}
	return from, to, nil
}

func reportsSalesCmd(flags *globalFlags) *cobra.Command {
	var dates dateRangeFlags
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Sales totals per day",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.requireRole(domain.RoleAdmin); err != nil {
				return err
			}
			from, to, err := dates.parse()
			if err != nil {
				return err
			}
			r, err := a.client.SalesReport(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "DAY\tORDERS\tSALES")
			for _, d := range r.Daily {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Date.Format("2006-01-02"), d.Orders, d.Sales.StringFixed(2))
			}
			fmt.Fprintf(tw, "TOTAL\t%d\t%s\n", r.TotalOrders, r.TotalSales.StringFixed(2))
			return tw.Flush()
		}),
	}
	dates.register(cmd)
	return cmd
}

func reportsPopularCmd(flags *globalFlags) *cobra.Command {
	var dates dateRangeFlags
	var limit int
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Best selling items",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.requireRole(domain.RoleAdmin); err != nil {
				return err
			}
			from, to, err := dates.parse()
			if err != nil {
				return err
			}
			items, err := a.client.PopularItems(cmd.Context(), from, to, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "ITEM\tSOLD\tREVENUE")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", it.Name, it.QuantitySold, it.Revenue.StringFixed(2))
			}
			return tw.Flush()
		}),
	}
	dates.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of items")
	return cmd
}
