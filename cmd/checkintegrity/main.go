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
		Use:   "checkintegrity",
		Short: "Scan the database for data inconsistencies",
		Long: `Scans the players and teams collections for duplicate JDL IDs and
broken team references. Prints a report and, when inconsistencies are
found, mails it to the administrator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), adminEmail)
		},
	}
	rootCmd.Flags().StringVar(&adminEmail, "admin-email", "",
		"address for the report (defaults to ADMIN_EMAIL)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCheck(ctx context.Context, adminEmail string) error {
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

	database := client.Database(cfg.MongoDatabase)
	integrityService := services.NewDataIntegrityService(
		repositories.NewMongoPlayerRepository(database),
		repositories.NewMongoTeamRepository(database),
		logger,
	)

	report := integrityService.RunAllChecks(ctx)

	fmt.Printf("Integrity scan at %s\n", report.CheckedAt.Format(time.RFC3339))
	fmt.Printf("  players scanned: %d\n", report.Players)
	fmt.Printf("  teams scanned:   %d\n", report.Teams)
	if report.Clean() {
		fmt.Println("  no inconsistencies found")
		return nil
	}

	for _, issue := range report.Issues {
		fmt.Printf("  [%s] %s\n", issue.Check, issue.Detail)
	}
	for _, e := range report.Errors {
		fmt.Printf("  [check failed] %s\n", e)
	}

	if adminEmail != "" {
		emailService := services.NewEmailService(cfg)
		if err := emailService.SendIntegrityReport(adminEmail, report); err != nil {
			logger.Error("failed to send integrity report", slog.Any("error", err))
		} else {
			fmt.Printf("Report sent to %s\n", adminEmail)
		}
	}

	return nil
}
