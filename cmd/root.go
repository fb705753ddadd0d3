package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gregLibert/scprobe/internal/config"
	"github.com/gregLibert/scprobe/pkg/catalog"
)

var (
	configPath string
	readerFlag string
	logLevel   string

	// Populated by the root PersistentPreRunE.
	cfg    *config.Config
	logger *slog.Logger
	codes  *catalog.Catalog
)

// isTerminal reports whether w is an interactive terminal. Reports are
// trimmed to raw hex when output is piped.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "scprobe",
	Short: "ISO 7816 smart card probe",
	Long: `scprobe - decode Answer-To-Reset strings and exchange APDUs with smart cards
through the PC/SC service.

Settings come from an optional YAML file (--config) and SCPROBE_* environment
variables, e.g. SCPROBE_READER, SCPROBE_MAX_CONTINUATIONS, SCPROBE_LOG_LEVEL.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&readerFlag, "reader", "r", "", "Reader name or unique substring (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if readerFlag != "" {
		loaded.Reader = readerFlag
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded

	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		h = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	}
	logger = slog.New(h)

	codes = catalog.Default()
	if cfg.CatalogFile != "" {
		f, err := os.Open(cfg.CatalogFile)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		if codes, err = catalog.Load(f, catalog.Default()); err != nil {
			return fmt.Errorf("load catalog %s: %w", cfg.CatalogFile, err)
		}
		results, statusWords := codes.Len()
		logger.Debug("catalog loaded", "file", cfg.CatalogFile, "results", results, "status_words", statusWords)
	}
	return nil
}
