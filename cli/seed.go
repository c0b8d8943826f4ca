package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/middleware"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/repositories"
	"github.com/vastuconnect/booking_backend/services"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and default commission settings",
	Long: `Seed is safe to run repeatedly. The admin account is created from
ADMIN_EMAIL and ADMIN_PASSWORD only if it does not exist, and the default
commission settings are written only when none are stored.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Admin.Password == "" {
		return errors.New("ADMIN_PASSWORD is required to seed the admin account")
	}

	b, err := connect(cfg, false)
	if err != nil {
		return err
	}
	defer b.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	accessTTL, refreshTTL := cfg.TokenTTL()
	auth := services.NewAuthService(b.stores, middleware.NewJWTManager(cfg.JWT.Secret, accessTTL, refreshTTL))
	created, err := auth.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", cfg.Admin.Email)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists\n", cfg.Admin.Email)
	}

	written, err := seedSettings(ctx, b.stores.Settings)
	if err != nil {
		return fmt.Errorf("seed commission settings: %w", err)
	}
	if written {
		fmt.Fprintln(cmd.OutOrStdout(), "wrote default commission settings")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "commission settings already present")
	}
	return nil
}

// seedSettings stores the defaults unless settings already exist
func seedSettings(ctx context.Context, store services.SettingsStore) (bool, error) {
	_, err := store.Get(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}

	if _, err := store.Save(ctx, models.DefaultCommissionSettings(), 0); err != nil {
		if errors.Is(err, repositories.ErrStaleVersion) {
			// another seeder won the race
			return false, nil
		}
		return false, err
	}
	config.GetLogger().Info("Default commission settings created")
	return true, nil
}
