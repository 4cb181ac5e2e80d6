package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdl-league/constructor-system/config"
	"github.com/jdl-league/constructor-system/db"
	"github.com/jdl-league/constructor-system/repositories"
	"github.com/jdl-league/constructor-system/services"
)

func main() {
	var adminEmail string

	rootCmd := &cobra.Command{
		Use:   "syncmaster <csv-path>",
		Short: "Synchronize player data from a JDL master CSV snapshot",
		Long: `Reads a JDL master data CSV snapshot, validates every row and updates
existing players whose stored watermark is older than the snapshot row.
Row-level problems are reported and skipped; the run still completes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), args[0], adminEmail)
		},
	}
	rootCmd.Flags().StringVar(&adminEmail, "admin-email", "",
		"address for the error report (defaults to ADMIN_EMAIL)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSync(ctx context.Context, csvPath, adminEmail string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if adminEmail == "" {
		adminEmail = cfg.AdminEmail
	}

	client, err := db.Connect(cfg.MongoURI, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()

	store := repositories.NewMongoPlayerSyncStore(client, client.Database(cfg.MongoDatabase), logger)
	syncService := services.NewMasterSyncService(store, logger)

	started := time.Now()
	updated, skipped, errs := syncService.SyncFromCSV(ctx, csvPath)

	fmt.Printf("Sync finished in %s\n", time.Since(started).Round(time.Millisecond))
	fmt.Printf("  updated: %d\n", updated)
	fmt.Printf("  skipped: %d\n", skipped)
	fmt.Printf("  errors:  %d\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    - %s\n", e)
	}

	if len(errs) > 0 && adminEmail != "" {
		emailService := services.NewEmailService(cfg)
		if err := emailService.SendSyncReport(adminEmail, csvPath, updated, skipped, errs); err != nil {
			logger.Error("failed to send sync report", slog.Any("error", err))
		} else {
			fmt.Printf("Error report sent to %s\n", adminEmail)
		}
	}

	// Завершённый прогон — успех процесса, даже если часть строк отклонена.
	return nil
}
