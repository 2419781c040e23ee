// Package cmd wires the title-lens command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/Digital-Shane/title-lens/internal/analyzer"
	"github.com/Digital-Shane/title-lens/internal/config"
	"github.com/Digital-Shane/title-lens/internal/log"
	"github.com/Digital-Shane/title-lens/internal/logger"
	"github.com/Digital-Shane/title-lens/internal/tui/theme"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

// skipConfig marks commands that must run even when the config file is broken.
const skipConfig = "skip-config"

// commandContext carries global flags and the loaded configuration to every
// command.
type commandContext struct {
	jsonOutput  bool
	interactive bool
	strict      bool
	logLevel    string
	logFormat   string
	configPath  string

	cfg   *config.Config
	theme theme.Theme
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &commandContext{theme: theme.Default()}

	rootCmd := &cobra.Command{
		Use:   "title-lens",
		Short: "Infer titles, seasons and episodes from media download folders",
		Long: `title-lens inspects a movie or TV series download and reports what it contains:
the title, the season and episode layout, the media files and the subtitles.

Everything is inferred from file names and folder shape. Nothing on disk is
renamed, moved or looked up online.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&c.jsonOutput, "json", false, "Print results as JSON")
	flags.BoolVarP(&c.interactive, "interactive", "I", false, "Browse results in an interactive tree view")
	flags.BoolVar(&c.strict, "strict", false, "Fail on duplicated season or episode numbers instead of resolving them")
	flags.StringVar(&c.logLevel, "log-level", "", "Diagnostics level: debug, info, warn or error")
	flags.StringVar(&c.logFormat, "log-format", "", "Diagnostics format: console or json")
	flags.StringVar(&c.configPath, "config", "", "Configuration file path (default ~/.title-lens/config.json)")

	rootCmd.AddCommand(
		newAnalyzeCommand(c, analyzeMovie),
		newAnalyzeCommand(c, analyzeTV),
		newScanCommand(c),
		newSubtitlesCommand(c),
		newHistoryCommand(c),
		newConfigCommand(c),
	)
	return rootCmd
}

// setup loads the configuration and builds the diagnostics logger. Flags win
// over the configuration file.
func (c *commandContext) setup(cmd *cobra.Command) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.logFormat != "" {
		cfg.LogFormat = c.logFormat
	}
	if c.strict {
		cfg.StrictSeasonIndex = true
		cfg.StrictEpisodeIndex = true
	}
	c.cfg = cfg

	l, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())),
	})
	if err != nil {
		return err
	}
	logger.Set(l)

	log.Initialize(cfg.EnableLogging, cfg.LogRetentionDays)
	return nil
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	if strings.TrimSpace(c.configPath) != "" {
		return config.LoadFrom(c.configPath)
	}
	return config.Load()
}

func (c *commandContext) saveConfig(cfg *config.Config) (string, error) {
	path := strings.TrimSpace(c.configPath)
	if path == "" {
		var err error
		if path, err = config.ConfigPath(); err != nil {
			return "", err
		}
	}
	return path, cfg.SaveTo(path)
}

func (c *commandContext) analyzerOptions() analyzer.Options {
	return analyzer.OptionsFromConfig(c.cfg)
}

// startHistory opens a history session for the running command. The returned
// function closes it.
func startHistory(cmd *cobra.Command, args []string) func() {
	sub := strings.Fields(strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()))
	if err := log.StartSession(cmd.Root().Name(), append(sub, args...)); err != nil {
		logger.Get().Warnw("failed to start history session", "error", err)
		return func() {}
	}
	return func() {
		if err := log.EndSession(); err != nil {
			logger.Get().Warnw("failed to write history session", "error", err)
		}
	}
}
