// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/resqpack/internal/config"
	"github.com/aidanlsb/resqpack/internal/ui"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Resolved values
	cfg    *config.Config
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "resqpack",
	Short: "Build, inspect and repack RESQML EPC containers",
	Long: `resqpack writes and reads RESQML EPC containers: one XML part per
top-level object, a content-type manifest and per-part relationships, stored
as a zip archive or a loose directory. Bulk arrays live in a payload file
next to the container.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(os.Stderr, verbose)

		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		if isConfigCommand(cmd) {
			return nil
		}

		loaded, err := loadConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix the config file or pass another one with --config")
		}
		cfg = loaded
		if cfg.UI.Accent != "" {
			ui.ConfigureTheme(cfg.UI.Accent)
		}
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI with ctx. Errors not yet reported are written
// to stderr, or as a JSON envelope in --json mode.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil || errors.Is(err, errReported) {
		return err
	}
	if jsonOutput {
		outputError(ErrInvalidInput, err.Error(), nil, "")
	} else {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for script use)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")
}

// newLogger returns a text logger on w: debug level when verbose, warnings
// only otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

func loadConfig() (*config.Config, error) {
	if strings.TrimSpace(configPath) != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}
