package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/orders"
	"github.com/fjod/go_cart/storefront/internal/reconcile"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/tui"
	"github.com/spf13/cobra"
)

type appFunc func() *app

func newLoginCmd(get appFunc) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and remember the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var username string
			if len(args) == 1 {
				username = args[0]
			}
			if username != "" && password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			sess, err := get().auth().Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s, wallet balance %.2f\n", sess.Username, sess.Balance)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func newLogoutCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return get().auth().Logout(cmd.Context())
		},
	}
}

func newProductsCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := get().catalog.Products(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tCOST\tRATING")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n", p.ID, p.Name, p.Category, p.Cost, stars(p.Rating))
			}
			return w.Flush()
		},
	}
}

func newCartCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			token, err := session.Token(cmd.Context(), a.store)
			if err != nil {
				return err
			}
			cart, err := reconcile.NewLoader(a.catalog, a.api, a.logger).Load(cmd.Context(), token)
			if err != nil {
				return err
			}
			printCart(cmd, cart.Items, cart.Subtotal)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <productId> <qty>",
		Short: "Set the quantity of a product in the cart (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a number: %w", err)
			}
			a := get()
			token, err := session.Token(cmd.Context(), a.store)
			if err != nil {
				return err
			}
			raw, err := a.api.SetCartItem(cmd.Context(), token, args[0], qty)
			if err != nil {
				return err
			}
			products, err := a.catalog.Products(cmd.Context())
			if err != nil {
				return err
			}
			items := reconcile.Reconcile(raw, products)
			printCart(cmd, items, reconcile.Subtotal(items))
			return nil
		},
	})
	return cmd
}

func newAddressesCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "List shipping addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			book := get().book()
			if err := book.Refresh(cmd.Context()); err != nil {
				return err
			}
			printAddresses(cmd, book.Selection().Addresses)
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <address>",
			Short: "Add a shipping address",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				book := get().book()
				if err := book.Create(cmd.Context(), strings.Join(args, " ")); err != nil {
					return err
				}
				printAddresses(cmd, book.Selection().Addresses)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a shipping address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				book := get().book()
				if err := book.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printAddresses(cmd, book.Selection().Addresses)
				return nil
			},
		},
	)
	return cmd
}

func newCheckoutCmd(get appFunc) *cobra.Command {
	var addressID string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := get().page(printNavigation)
			if err != nil {
				return err
			}
			if err := page.Open(cmd.Context()); err != nil {
				return err
			}
			if addressID != "" && !page.SelectAddress(addressID) {
				return fmt.Errorf("unknown address %q", addressID)
			}

			conf, err := page.PlaceOrder(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s: %.2f charged, wallet balance %.2f\n", conf.OrderID, conf.Subtotal, conf.NewBalance)
			return nil
		},
	}
	cmd.Flags().StringVar(&addressID, "address", "", "id of the shipping address")
	return cmd
}

func newOrdersCmd(get appFunc) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show orders placed from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			sess, err := session.Require(cmd.Context(), a.store)
			if err != nil {
				return err
			}
			history, err := a.orderHistory()
			if err != nil {
				return err
			}
			list, err := history.List(cmd.Context(), sess.Username, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ORDER\tPLACED\tITEMS\tSUBTOTAL\tBALANCE AFTER")
			for _, o := range list {
				fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n",
					o.OrderID, o.PlacedAt.Local().Format("2006-01-02 15:04"), reconcile.Quantity(o.Items), o.Subtotal, o.NewBalance)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", orders.DefaultListLimit, "number of orders to show")
	return cmd
}

func newTUICmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive checkout screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			// the screen shows notifications itself
			a.sink = a.sink[1:]
			page, err := a.page(nil)
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(tui.New(page, a.notes), tea.WithContext(cmd.Context())).Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
}

func printCart(cmd *cobra.Command, items []domain.LineItem, subtotal float64) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tNAME\tQTY\tCOST\tTOTAL")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n", it.ProductID, it.Name, it.Quantity, it.Cost, it.Total())
	}
	fmt.Fprintf(w, "\t\t%d\t\t%.2f\n", reconcile.Quantity(items), subtotal)
	w.Flush()
}

func printAddresses(cmd *cobra.Command, addresses []domain.Address) {
	if len(addresses) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No addresses found for this account. Please add one to proceed")
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tADDRESS")
	for _, addr := range addresses {
		fmt.Fprintf(w, "%s\t%s\n", addr.ID, addr.Text)
	}
	w.Flush()
}

func stars(rating int) string {
	rating = min(max(rating, 0), domain.MaxRating)
	return strings.Repeat("*", rating) + strings.Repeat(".", domain.MaxRating-rating)
}
