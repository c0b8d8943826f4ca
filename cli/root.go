package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vastuconnect/booking_backend/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "vastu",
	Short: "Vastu booking and business associate referral backend",
	Long: `Backend for Vastu consultation bookings. Clients book sessions,
business associates refer them with a code and earn commission when
an admin confirms the booking.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file (environment variables take precedence)")
}

// Execute runs the command line and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		config.GetLogger().WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	config.SetLogLevel(cfg.LogLevel)
	return cfg, nil
}
