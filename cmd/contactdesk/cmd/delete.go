package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/contactdesk/contactdesk/internal/dashboard"
	"github.com/spf13/cobra"
)

var deleteYes bool

// stdinIsTerminal reports whether the operator can answer a prompt.
var stdinIsTerminal = func() bool { return isTerminal(os.Stdin) }

// promptConfirm asks the operator before a delete. Tests replace it.
var promptConfirm = func(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a submission",
	Long: `Delete one submission from the message service.

Asks for confirmation unless --yes is given. Confirmation needs a terminal;
scripts must pass --yes.

Examples:
  contactdesk delete 6650a1f0c3b2a1d4e5f60001
  contactdesk delete 6650a1f0c3b2a1d4e5f60001 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		ctrl, _, err := newController(logger)
		if err != nil {
			return err
		}

		confirm := dashboard.Confirmed
		if !deleteYes {
			if !stdinIsTerminal() {
				return errors.New("confirmation requires a terminal; pass --yes to delete without asking")
			}
			// Load the list so the prompt can say whose message this is.
			// Deleting an id the list does not show is still attempted;
			// the service decides whether it exists.
			if _, err := fetchMessages(cmd.Context(), ctrl); err != nil {
				return err
			}
			description := "id " + id
			if m, ok := ctrl.State().Snapshot().Find(id); ok {
				description = fmt.Sprintf("%s <%s>", m.Name, m.Email)
			}
			var promptErr error
			confirm = func(prompt string) bool {
				ok, err := promptConfirm(prompt, description)
				promptErr = err
				return err == nil && ok
			}
			defer func() {
				if promptErr != nil {
					logger.Debug("confirmation aborted", "error", promptErr)
				}
			}()
		}

		err = ctrl.Delete(cmd.Context(), id, confirm)
		switch {
		case errors.Is(err, dashboard.ErrDeclined):
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		case err != nil:
			if cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}
			return errors.New(ctrl.State().Snapshot().Alert)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking for confirmation")
}
