package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/config"
	"github.com/workbridge/workbridge/internal/db"
	"github.com/workbridge/workbridge/internal/db/repos"
	"github.com/workbridge/workbridge/internal/notifications"
	"github.com/workbridge/workbridge/internal/services"
)

// The sweep command talks to the database directly rather than through
// the API, so it can run from cron even when the server is down.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Retire expired pending invitations",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("error loading configuration: %w", err)
		}

		database, err := db.New(db.Options{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSL:      cfg.DBSSL,
			LogLevel: cfg.DBLogLevel,
		})
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer closeDB(database)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		invitations := sweepService(database, cfg)
		n, err := invitations.SweepExpired(ctx)
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}
		fmt.Printf("retired %d expired invitations\n", n)
		return nil
	},
}

func sweepService(database *gorm.DB, cfg *config.Config) *services.InvitationService {
	jobRepo := repos.NewJobRepository(database)
	invitationRepo := repos.NewInvitationRepository(database)
	contractRepo := repos.NewContractRepository(database)
	limiter := services.NewAdmissionLimiter()

	dispatcher := notifications.NewAsyncDispatcher()
	contracts := services.NewContractService(database, contractRepo, jobRepo, limiter, dispatcher)
	return services.NewInvitationService(database, invitationRepo, jobRepo, contracts, limiter, dispatcher, cfg.InvitationTTL)
}

func closeDB(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// GetSweepCmd returns the sweep command
func GetSweepCmd() *cobra.Command {
	return sweepCmd
}
