package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"restopos/internal/admin"
	"restopos/internal/api"
	"restopos/internal/domain"
	apperrors "restopos/internal/errors"
)

// adminCmd wraps run with the admin role check.
func adminCmd(flags *globalFlags, run func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
		if _, err := a.requireRole(domain.RoleAdmin); err != nil {
			return err
		}
		return run(a, cmd, args)
	})
}

func deleteCmd(flags *globalFlags, what string, del func(a *app, cmd *cobra.Command, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + what,
		Args:  cobra.ExactArgs(1),
		RunE: adminCmd(flags, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := intArg(args, 0, "id")
			if err != nil {
				return err
			}
			if err := del(a, cmd, id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s %d\n", what, id)
			return nil
		}),
	}
}

func categoriesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "categories", Short: "Manage menu categories (admin)"}

	var form admin.CategoryForm
	save := func(update bool) *cobra.Command {
		use, short := "create", "Create a category"
		if update {
			use, short = "update <id>", "Update a category"
		}
		c := &cobra.Command{
			Use:   use,
			Short: short,
			RunE: adminCmd(flags, func(a *app, cmd *cobra.Command, args []string) error {
				var cat domain.Category
				var err error
				if update {
					id, idErr := intArg(args, 0, "id")
					if idErr != nil {
						return idErr
					}
					cat, err = a.admin.UpdateCategory(cmd.Context(), id, form)
				} else {
					cat, err = a.admin.CreateCategory(cmd.Context(), form)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Saved category %d %s\n", cat.ID, cat.Name)
				return nil
			}),
		}
		c.Flags().StringVar(&form.Name, "name", "", "Name")
		c.Flags().StringVar(&form.Description, "description", "", "Description")
		c.Flags().BoolVar(&form.IsActive, "active", true, "Shown on the menu")
		return c
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.currentUser(); err != nil {
				return err
			}
			cats, err := a.admin.Categories(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tACTIVE\tDESCRIPTION")
			for _, c := range cats {
				fmt.Fprintf(tw, "%d\t%s\t%t\t%s\n", c.ID, c.Name, c.IsActive, c.Description)
			}
			return tw.Flush()
		}),
	}

	cmd.AddCommand(list, save(false), save(true), deleteCmd(flags, "category", func(a *app, cmd *cobra.Command, id int64) error {
		return a.admin.DeleteCategory(cmd.Context(), id)
	}))
	return cmd
}

func menuCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "menu", Short: "Manage menu items"}

	var filter api.MenuItemFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List menu items",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.currentUser(); err != nil {
				return err
			}
			items, err := a.admin.MenuItems(cmd.Context(), filter)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tAVAILABLE")
			for _, it := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", it.ID, it.Name, it.Category, it.Price.StringFixed(2), it.IsAvailable)
			}
			return tw.Flush()
		}),
	}
	list.Flags().Int64Var(&filter.CategoryID, "category", 0, "Only this category")
	list.Flags().BoolVar(&filter.AvailableOnly, "available", false, "Only available items")
	list.Flags().StringVar(&filter.Search, "search", "", "Name search")

	var form admin.MenuItemForm
	var price string
	save := func(update bool) *cobra.Command {
		use, short := "create", "Create a menu item"
		if update {
			use, short = "update <id>", "Update a menu item"
		}
		c := &cobra.Command{
			Use:   use,
			Short: short,
			RunE: adminCmd(flags, func(a *app, cmd *cobra.Command, args []string) error {
				p, err := decimal.NewFromString(price)
				if err != nil {
					return apperrors.NewValidationError("please correct the highlighted fields", apperrors.ValidationDetail{
						Field:   "price",
						Message: "must be a number",
					})
				}
				form.Price = p

				var item domain.MenuItem
				if update {
					id, idErr := intArg(args, 0, "id")
					if idErr != nil {
						return idErr
					}
					item, err = a.admin.UpdateMenuItem(cmd.Context(), id, form)
				} else {
					item, err = a.admin.CreateMenuItem(cmd.Context(), form)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Saved menu item %d %s at %s\n", item.ID, item.Name, item.Price.StringFixed(2))
				return nil
			}),
		}
		c.Flags().Int64Var(&form.CategoryID, "category", 0, "Category id")
		c.Flags().StringVar(&form.Name, "name", "", "Name")
		c.Flags().StringVar(&form.Description, "description", "", "Description")
		c.Flags().StringVar(&price, "price", "0", "Price")
		c.Flags().BoolVar(&form.IsAvailable, "available", true, "Can be ordered")
		c.Flags().StringVar(&form.ImagePath, "image", "", "Image file to upload")
		return c
	}

	cmd.AddCommand(list, save(false), save(true), deleteCmd(flags, "menu item", func(a *app, cmd *cobra.Command, id int64) error {
		return a.admin.DeleteMenuItem(cmd.Context(), id)
	}))
	return cmd
}

func tablesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "tables", Short: "Manage dining tables"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tables",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.currentUser(); err != nil {
				return err
			}
			tables, err := a.admin.Tables(cmd.Context())
			if err != nil {
				return err
			}
			return renderTables(a.out, tables)
		}),
	}

	var form admin.TableForm
	save := func(update bool) *cobra.Command {
		use, short := "create", "Create a table"
		if update {
			use, short = "update <id>", "Update a table"
		}
		c := &cobra.Command{
			Use:   use,
			Short: short,
			RunE: adminCmd(flags, func(a *app, cmd *cobra.Command, args []string) error {
				var t domain.Table
				var err error
				if update {
					id, idErr := intArg(args, 0, "id")
					if idErr != nil {
						return idErr
					}
					t, err = a.admin.UpdateTable(cmd.Context(), id, form)
				} else {
					t, err = a.admin.CreateTable(cmd.Context(), form)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Saved table %d (%s)\n", t.ID, t.Number)
				return nil
			}),
		}
		c.Flags().StringVar(&form.Number, "number", "", "Table number shown to staff")
		c.Flags().IntVar(&form.Capacity, "capacity", 4, "Seats")
		c.Flags().StringVar(&form.Status, "status", "", "available, occupied or reserved")
		return c
	}

	cmd.AddCommand(list, save(false), save(true), deleteCmd(flags, "table", func(a *app, cmd *cobra.Command, id int64) error {
		return a.admin.DeleteTable(cmd.Context(), id)
	}))
	return cmd
}

func usersCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage staff accounts (admin)"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: adminCmd(flags, func(a *app, cmd *cobra.Command, args []string) error {
			users, err := a.admin.Users(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.Role, u.IsActive)
			}
			return tw.Flush()
		}),
	}

	roles := &cobra.Command{
		Use:   "roles",
		Short: "List roles accounts can have",
		RunE: adminCmd(flags, func(a *app, cmd *cobra.Command, args []string) error {
			roles, err := a.admin.Roles(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range roles {
				fmt.Fprintf(a.out, "%s\t%s\n", r.Name, r.Label)
			}
			return nil
		}),
	}

	var form admin.UserForm
	save := func(update bool) *cobra.Command {
		use, short := "create", "Create a user"
		if update {
			use, short = "update <id>", "Update a user"
		}
		c := &cobra.Command{
			Use:   use,
			Short: short,
			RunE: adminCmd(flags, func(a *app, cmd *cobra.Command, args []string) error {
				var u domain.User
				var err error
				if update {
					id, idErr := intArg(args, 0, "id")
					if idErr != nil {
						return idErr
					}
					u, err = a.admin.UpdateUser(cmd.Context(), id, form)
				} else {
					u, err = a.admin.CreateUser(cmd.Context(), form)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Saved user %d %s (%s)\n", u.ID, u.Name, u.Role)
				return nil
			}),
		}
		c.Flags().StringVar(&form.Name, "name", "", "Full name")
		c.Flags().StringVar(&form.Email, "email", "", "Login email")
		c.Flags().StringVar(&form.Role, "role", "", "admin, cashier, waiter or chef")
		c.Flags().StringVar(&form.Password, "password", "", "Password (required on create)")
		c.Flags().BoolVar(&form.IsActive, "active", true, "Can sign in")
		return c
	}

	var pw admin.PasswordForm
	password := &cobra.Command{
		Use:   "password <id>",
		Short: "Set a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: adminCmd(flags, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := intArg(args, 0, "id")
			if err != nil {
				return err
			}
			if pw.Password == "" {
				if pw.Password, err = a.prompt("New password: "); err != nil {
					return err
				}
				if pw.Confirm, err = a.prompt("Repeat password: "); err != nil {
					return err
				}
			}
			if err := a.admin.ChangePassword(cmd.Context(), id, pw); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Password changed for user %d\n", id)
			return nil
		}),
	}
	password.Flags().StringVar(&pw.Current, "current", "", "Current password, when the backend asks for it")
	password.Flags().StringVar(&pw.Password, "password", "", "New password, prompted when omitted")
	password.Flags().StringVar(&pw.Confirm, "confirm", "", "Repeat the new password")

	cmd.AddCommand(list, roles, save(false), save(true), password, deleteCmd(flags, "user", func(a *app, cmd *cobra.Command, id int64) error {
		return a.admin.DeleteUser(cmd.Context(), id)
	}))
	return cmd
}
