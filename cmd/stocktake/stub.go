package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmynk/stocktake/internal/auth"
	"github.com/mmynk/stocktake/internal/config"
	"github.com/mmynk/stocktake/internal/storage/sqlite"
	"github.com/mmynk/stocktake/internal/stubapi"
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Serve the stub Stocktake API",
	Long: `Serve a local double of the Stocktake REST API backed by SQLite.

The seed account (SEED_EMAIL, SEED_PASSWORD) is created on start so the
suite can log in right away.`,
	RunE: runStub,
}

var addrFlag string

func init() {
	stubCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default STUB_ADDR)")
	rootCmd.AddCommand(stubCmd)
}

func runStub(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadStub(envFileFlag)
	if err != nil {
		return err
	}
	if addrFlag != "" {
		cfg.Addr = addrFlag
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	server := stubapi.New(stubapi.Options{
		Store:  store,
		Issuer: auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Seed(ctx, cfg.SeedEmail, cfg.SeedPassword); err != nil {
		return err
	}
	return server.ListenAndServe(ctx, cfg.Addr)
}
