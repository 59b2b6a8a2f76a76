package cmd

import (
	"fmt"
	"time"

	"github.com/contactdesk/contactdesk/internal/dashboard"
	"github.com/contactdesk/contactdesk/internal/textutil"
	"github.com/contactdesk/contactdesk/internal/watch"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var watchSchedule string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll for new submissions",
	Long: `Refresh the message list on a schedule and print submissions that arrived
since the previous refresh. The first refresh only records what is already
there.

The schedule is a cron expression or a descriptor:
  @every 1m      = Every minute (default)
  */15 * * * *   = Every 15 minutes
  0 8-18 * * 1-5 = Hourly during working hours

Configure the default in config.toml:
  [watch]
  schedule = "@every 5m"

Use Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schedule := watchSchedule
		if schedule == "" {
			schedule = cfg.Watch.Schedule
		}
		if err := watch.ValidateSchedule(schedule); err != nil {
			return err
		}

		ctrl, client, err := newController(logger)
		if err != nil {
			return err
		}

		w, err := watch.New(ctrl, schedule)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		w.WithLogger(logger).OnNew(func(msgs []dashboard.Message) {
			printNewMessages(cmd, msgs)
		})

		fmt.Fprintf(out, "Watching %s (%s)\n", client.BaseURL(), schedule)
		w.Start()

		<-cmd.Context().Done()
		fmt.Fprintln(out, "\nStopping...")

		select {
		case <-w.Stop().Done():
		case <-time.After(10 * time.Second):
			logger.Warn("refresh did not stop in time")
		}
		return nil
	},
}

func printNewMessages(cmd *cobra.Command, msgs []dashboard.Message) {
	green := color.New(color.FgGreen, color.Bold)
	out := cmd.OutOrStdout()
	for _, m := range msgs {
		fmt.Fprintf(out, "%s %s  %s <%s>  %s\n",
			green.Sprint("new"), formatTime(m.CreatedAt), m.Name, m.Email, textutil.TruncateRunes(flatten(m.Message), 60))
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", `cron expression (default: [watch] schedule or "@every 1m")`)
}
