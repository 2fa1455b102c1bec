package cmd

import (
	"context"
	"fmt"
	"os"

	"lottosim/config"
	"lottosim/domain/random"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	cfg        *config.Config
}

// NewRootCommand builds the lottosim command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "lottosim",
		Short:         "Mega-Sena ticket pricing, animated draws and Monte-Carlo simulations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file (defaults to $CONFIG_FILE)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format override (text or json)")

	root.AddCommand(
		newPricesCommand(a),
		newDrawCommand(a),
		newSimulateCommand(a),
		newBotCommand(a),
		newWatchCommand(a),
	)
	return root
}

// Execute runs the CLI until ctx is cancelled or the command returns
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) init() error {
	cfg, err := config.Init(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func setupLogging(cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	return nil
}

// randomSource returns a reproducible source for a non-zero seed and the
// crypto source otherwise
func randomSource(seed uint64) random.Source {
	if seed != 0 {
		log.WithField("seed", seed).Warn("Using seeded randomness, results are reproducible and not secure")
		return random.NewSeeded(seed)
	}
	return random.NewCryptoSource()
}
