package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/contactdesk/contactdesk/internal/dashboard"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contact form submissions",
	Long: `List every submission held by the message service, newest first as the
service orders them.

Examples:
  contactdesk list
  contactdesk list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := newController(logger)
		if err != nil {
			return err
		}

		msgs, err := fetchMessages(cmd.Context(), ctrl)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if listJSON {
			return outputListJSON(out, msgs)
		}
		if len(msgs) == 0 {
			fmt.Fprintln(out, "No messages yet.")
			return nil
		}
		outputListTable(out, msgs)
		return nil
	},
}

func outputListJSON(w io.Writer, msgs []dashboard.Message) error {
	out := make([]messageJSON, len(msgs))
	for i, m := range msgs {
		out[i] = toMessageJSON(m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputListTable(w io.Writer, msgs []dashboard.Message) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 50
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("RECEIVED"), bold.Sprint("NAME"),
		bold.Sprint("EMAIL"), bold.Sprint("MESSAGE"))
	for _, m := range msgs {
		tbl.AddRow(faint.Sprint(m.ID), formatTime(m.CreatedAt), m.Name, m.Email, flatten(m.Message))
	}

	fmt.Fprintln(w, tbl)
	fmt.Fprintf(w, "\n%d %s\n", len(msgs), plural(len(msgs), "message", "messages"))
}

// flatten collapses line breaks so a body fits one table row.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}
