package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/vastuconnect/booking_backend/services"
)

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect commission settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active commission settings as TOML",
	RunE:  runSettingsShow,
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := connect(cfg, false)
	if err != nil {
		return err
	}
	defer b.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	settings, err := services.NewCommissionService(b.stores.Settings).GetSettings(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# version %d\n", settings.Version)
	return toml.NewEncoder(out).Encode(settings)
}
