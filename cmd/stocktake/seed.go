package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/stocktake/internal/config"
	"github.com/mmynk/stocktake/internal/fixtures"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create products through the Stocktake API",
	Long: `Log in with EMAIL and PASSWORD and create one product type, unit,
group and supplier plus the requested number of products bound to them.`,
	RunE: runSeed,
}

var productsFlag int

func init() {
	seedCmd.Flags().IntVarP(&productsFlag, "products", "n", 3, "Number of products to create")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if productsFlag < 1 {
		return fmt.Errorf("--products must be at least 1, got %d", productsFlag)
	}
	cfg, err := config.Load(envFileFlag)
	if err != nil {
		return err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	ctx := cmd.Context()
	client := fixtures.NewClient(cfg.APIURL)
	if err := client.Login(ctx, cfg.Email, cfg.Password); err != nil {
		return err
	}
	products, err := client.SeedProducts(ctx, productsFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range products {
		fmt.Fprintf(out, "%s\t%s\tsupplier=%s\tunit=%s\n", p.ID, p.Name, p.Supplier.Name, p.Unit.Name)
	}
	return nil
}
