package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/contactdesk/contactdesk/internal/logging"
	"github.com/contactdesk/contactdesk/internal/tui"
	"github.com/spf13/cobra"
)

var tuiLocale string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	Long: `Open the interactive dashboard for contact form submissions.

The list of submissions is on the left; the selected submission is shown in
full on the right. Logs are written to the file configured as [ui] log_file
(default: ~/.contactdesk/contactdesk.log) because the terminal belongs to the
dashboard while it runs.

Navigation:
  ↑/k, ↓/j    Move up/down
  Home/g      First message
  End/G       Last message
  Enter       Show message
  Esc         Clear selection
  PgUp/PgDn   Scroll message body

Actions:
  r           Refresh
  d           Delete (asks for confirmation)
  ?           Help
  q           Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	fileLogger, closer, err := logging.NewFile(cfg.LogFilePath(), logging.Options{Verbose: verbose})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctrl, client, err := newController(fileLogger)
	if err != nil {
		return err
	}
	fileLogger.Info("dashboard started", "remote", client.BaseURL(), "version", Version)

	locale := tuiLocale
	if locale == "" {
		locale = cfg.UI.Locale
	}

	model := tui.New(ctrl, tui.Options{
		Version: Version,
		Locale:  locale,
		Logger:  fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiLocale, "locale", "", "locale for dates, e.g. en-GB (default: [ui] locale or $LANG)")
}
