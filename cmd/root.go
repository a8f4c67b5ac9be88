package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tryfi/config"
	"github.com/s0up4200/tryfi/filter"
	"github.com/s0up4200/tryfi/report"
	"github.com/s0up4200/tryfi/session"
	"github.com/s0up4200/tryfi/tryfi"
)

var (
	version   = "dev"
	buildTime = "unknown"

	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	reporter  report.Reporter
	client    *tryfi.Client
	filters   *filter.Manager
	formatter tryfi.Formatter

	// Command flags
	filterExpr  string
	preset      string
	showDetails bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tryfi",
	Short: "A tool to check on your TryFi collars, pets and bases",
	Long: `tryfi is a CLI tool that logs into your TryFi account and shows where
your pets are, how much they walked and slept, the battery of their collars
and the status of your charging bases.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		reporter.Flush(2 * time.Second)
	},
}

// SetVersion sets the build information reported by the CLI
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, bt)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	reporter = report.Nop{}
	formatter = tryfi.NewConsoleFormatter()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&showDetails, "details", false, "show all details")
}

// initializeApp loads the configuration and logs into TryFi
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	if cmd.Flags().Changed("details") {
		cfg.Display.ShowDetails = showDetails
	}

	reporter, err = setupReporter(cfg.Sentry)
	if err != nil {
		return err
	}

	filters = filter.NewManager(filter.WithCompiler(
		filter.NewExprCompiler(filter.WithCustomFunctions(accountFunctions())),
	))
	if err := filters.RegisterPresets(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err = tryfi.New(ctx, cfg.TryFi.Username, cfg.TryFi.Password, logger,
		tryfi.WithReporter(reporter),
		tryfi.WithStrictRefresh(cfg.TryFi.StrictRefresh),
		tryfi.WithSessionOptions(
			session.WithBaseURL(cfg.TryFi.URL),
			session.WithTimeout(cfg.TryFi.Timeout),
			session.WithUserAgent(userAgent()),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to TryFi: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colored only on a terminal
	fd := os.Stderr.Fd()
	color := cfg.Color && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// setupReporter creates the Sentry reporter when enabled
func setupReporter(cfg config.SentryConfig) (report.Reporter, error) {
	if !cfg.Enabled {
		return report.Nop{}, nil
	}

	sentryReporter, err := report.NewSentry(report.SentryOptions{
		DSN:         cfg.DSN,
		Release:     "tryfi@" + version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up error reporting: %w", err)
	}

	logger.Info().Str("environment", cfg.Environment).Msg("Sentry error reporting enabled")
	return sentryReporter, nil
}

// userAgent identifies the CLI build followed by the library client
func userAgent() string {
	return fmt.Sprintf("tryfi-cli/%s %s", version, session.DefaultUserAgent())
}

// accountFunctions are filter helpers that look at the whole account
func accountFunctions() map[string]any {
	return map[string]any{
		"baseOnline": func(id string) bool {
			if client == nil {
				return false
			}
			for _, b := range client.Bases() {
				if b.BaseID == id {
					return b.Online
				}
			}
			return false
		},
	}
}

func formatOptions() tryfi.FormatOptions {
	return tryfi.FormatOptions{ShowDetails: cfg.Display.ShowDetails}
}
