package main

import (
	"fmt"

	"github.com/insurdesk/backoffice/internal/pkg/application/console"
	"github.com/spf13/cobra"
)

var (
	// flagConfigFile is set by the --config flag.
	flagConfigFile string

	// flagEndpoint overrides the configured API endpoint.
	flagEndpoint string

	// flagDebug enables dumping of failed requests.
	flagDebug bool

	// app holds the console instance, initialized on startup.
	app *console.Console
)

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Administrative console for the insurance back-office",
	Long: `Backoffice is the staff console for managing policyholders, policies
and claims against the back-office REST service. Records can be managed
with the one-shot commands or interactively via the console command.`,
	PersistentPreRunE: initConsole,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "config file (default: .backoffice.yaml or ~/.backoffice/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "back-office API endpoint (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "dump failed requests to the log")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}

// initConsole loads configuration and instantiates one screen per
// configured resource.
func initConsole(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := loadConfiguration(cmd.Context())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	app, err = console.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("init console: %w", err)
	}

	return nil
}

func screenFor(resource string) (*console.Screen, error) {
	screen, ok := app.Screen(resource)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q (configured: %v)", resource, app.Resources())
	}
	return screen, nil
}
