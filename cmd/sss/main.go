package main

import (
	"fmt"
	"os"

	"sss-go/internal/app"
	"sss-go/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by the environment, falling back
// to defaults when it does not exist.
func loadConfig() (*config.Config, map[string]string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("getting defaults: %w", err)
	}
	cfg, err := config.Load(defaults["config_path"], defaults["base_dir"])
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults, nil
}

// newApp loads the config, lets override adjust it from command flags and
// creates an SSSApp. The caller must defer app.Close().
func newApp(cmd *cobra.Command, operation string, override func(*config.Config) error) (*app.SSSApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if override != nil {
		if err := override(cfg); err != nil {
			return nil, err
		}
	}

	a, err := app.NewSSSApp(cfg, operation, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:           "sss",
	Short:         "Sort screenshots by date and set duplicates aside",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// history subcommands
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")

	// scan
	scanCmd.Flags().String("out-dir", "", "Output root (default: PATH/_by_date)")
	scanCmd.Flags().Bool("dry-run", true, "Only simulate, move nothing")
	scanCmd.Flags().Bool("no-dry-run", false, "Actually move the files")
	scanCmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")
	scanCmd.MarkFlagsMutuallyExclusive("dry-run", "no-dry-run")

	// dedupe
	dedupeCmd.Flags().Bool("execute", false, "Move duplicates instead of only listing them")
	dedupeCmd.Flags().String("target", "", "Directory receiving duplicates (default: PATH/_duplicates)")
	dedupeCmd.Flags().String("keep", "", "Keeper policy: newest, oldest or shortest_path")
	dedupeCmd.Flags().String("algorithm", "", "Hash algorithm: sha256 or blake3")
	dedupeCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	dedupeCmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(dedupeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(infoCmd)
}
