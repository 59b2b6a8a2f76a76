package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/contactdesk/contactdesk/internal/dashboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a submission in full",
	Long: `Show one submission, including its complete message body.

Examples:
  contactdesk show 6650a1f0c3b2a1d4e5f60001
  contactdesk show 6650a1f0c3b2a1d4e5f60001 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		ctrl, _, err := newController(logger)
		if err != nil {
			return err
		}
		if _, err := fetchMessages(cmd.Context(), ctrl); err != nil {
			return err
		}

		msg, ok := ctrl.State().Snapshot().Find(id)
		if !ok {
			return fmt.Errorf("message not found: %s", id)
		}

		out := cmd.OutOrStdout()
		if showJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(toMessageJSON(msg))
		}
		outputMessageText(out, msg)
		return nil
	},
}

const ruleWidth = 79

func outputMessageText(w io.Writer, m dashboard.Message) {
	bold := color.New(color.Bold)

	fmt.Fprintln(w, strings.Repeat("═", ruleWidth))
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Message ID:"), m.ID)
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
	fmt.Fprintf(w, "From:     %s <%s>\n", m.Name, m.Email)
	fmt.Fprintf(w, "Received: %s\n", formatTime(m.CreatedAt))
	fmt.Fprintln(w, strings.Repeat("═", ruleWidth))
	if m.Message != "" {
		fmt.Fprintln(w, m.Message)
	} else {
		fmt.Fprintln(w, "[No message body]")
	}
	fmt.Fprintln(w, strings.Repeat("═", ruleWidth))
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
}
