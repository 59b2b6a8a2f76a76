package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/contactdesk/contactdesk/internal/config"
	"github.com/contactdesk/contactdesk/internal/dashboard"
	"github.com/contactdesk/contactdesk/internal/logging"
	"github.com/contactdesk/contactdesk/internal/remote"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	homeDir string
	verbose bool
	apiBase string // Overrides [remote] url for this invocation
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "contactdesk",
	Short: "Admin dashboard for contact form submissions",
	Long: `contactdesk is a terminal admin dashboard for contact form submissions
held by a remote message service. It lists submissions, shows them in full,
and deletes them.

Run without a subcommand on a terminal to open the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" {
			return nil
		}

		logger = logging.New(os.Stderr, logging.Options{Verbose: verbose})

		// Load config (--home is passed through so it influences
		// where config.toml is loaded from, like CONTACTDESK_HOME).
		var err error
		cfg, err = config.Load(cfgFile, homeDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if apiBase != "" {
			cfg.Remote.URL = apiBase
		}

		// Ensure home directory exists on first use
		if err := cfg.EnsureHomeDir(); err != nil {
			return fmt.Errorf("create home directory %s: %w", cfg.HomeDir, err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
			return cmd.Help()
		}
		return runTUI(cmd, args)
	},
}

// Execute runs the root command with a background context.
// Prefer ExecuteContext for signal-aware execution.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newController builds a dashboard controller over the configured message
// service. Logs go to log, which may differ from the package logger when
// stderr belongs to the terminal UI.
func newController(log *slog.Logger) (*dashboard.Controller, *remote.Client, error) {
	client, err := remote.New(remote.Config{
		URL:           cfg.Remote.URL,
		AllowInsecure: cfg.Remote.AllowInsecure,
		Timeout:       cfg.Remote.Timeout(),
		UserAgent:     "contactdesk/" + Version,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("remote: %w", err)
	}
	ctrl := dashboard.NewController(client, dashboard.NewContainer(dashboard.State{})).
		WithLogger(log)
	return ctrl, client, nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.contactdesk/config.toml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "home directory (overrides CONTACTDESK_HOME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "message service URL (overrides config and CONTACTDESK_API_BASE)")
}
