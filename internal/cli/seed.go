package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
)

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var keepCart bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the catalog with the seed products and reset the cart",
		Long: `Replace every product in the configured backend with the built-in seed
catalog, then empty the cart. The Redis catalog cache is invalidated when enabled.

Example:
  STORAGE=mongo MONGO_URI=mongodb://localhost:27017 storefront seed`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := rootOpts.load()
			if err != nil {
				return err
			}
			if cfg.Storage == config.StorageMemory {
				logger.Warn().Msg("STORAGE=memory: seeded data is discarded when this command exits")
			}

			a, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			products := catalog.SeedProducts()
			if err := a.products.Seed(cmd.Context(), products); err != nil {
				return err
			}
			if !keepCart {
				if err := a.carts.Reset(cmd.Context()); err != nil {
					return fmt.Errorf("reset cart: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products into %s storage\n", len(products), cfg.Storage)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepCart, "keep-cart", false, "leave the cart untouched")

	return cmd
}
