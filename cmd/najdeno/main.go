// Command najdeno runs the lost-and-found claims server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/najdeno/internal/config"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// cfg is loaded before any subcommand runs.
	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "najdeno",
	Short: "Lost-and-found item reports and ownership claims",
	Long: `najdeno keeps lost and found item reports, lets other users claim
found items and lets the reporter approve or reject those claims.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringP("db", "d", "", "SQLite database path (default: najdeno.sqlite3)")
	rootCmd.PersistentFlags().StringP("log", "l", "", "log file path (default: stdout/stderr only)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(tokenCmd)
}

// loadConfig reads the config file and environment, then applies any flags
// given on the command line.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("db", &loaded.DBPath)
	override("log", &loaded.LogFile)
	override("addr", &loaded.Addr)
	override("jwt-secret", &loaded.JWTSecret)
	override("jwt-issuer", &loaded.JWTIssuer)

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded
	return nil
}
