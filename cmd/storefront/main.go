package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, closeApp := newRootCmd()
	err := root.ExecuteContext(ctx)
	closeApp()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd returns the command tree and a func that releases whatever the
// command opened. Cobra skips post-run hooks on error, so callers close.
func newRootCmd() (*cobra.Command, func()) {
	var (
		envFile string
		a       *app
	)

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Shop from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			a, err = newApp(cfg)
			return err
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")

	get := func() *app { return a }
	root.AddCommand(
		newLoginCmd(get),
		newLogoutCmd(get),
		newProductsCmd(get),
		newCartCmd(get),
		newAddressesCmd(get),
		newCheckoutCmd(get),
		newOrdersCmd(get),
		newTUICmd(get),
	)
	return root, func() {
		if a != nil {
			a.Close()
			a = nil
		}
	}
}
