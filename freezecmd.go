package main

import (
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/releasekit/changefile/freeze"
	"github.com/releasekit/changefile/logger"
)

func newFreezeCmd() *cobra.Command {
	var notifyChannel string
	cmd := &cobra.Command{
		Use:          "freeze",
		Short:        "Report whether today is the code-freeze day",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc := freeze.NewDefault(clockwork.NewRealClock())
			isFreeze := calc.IsFreezeDay()
			fmt.Fprintln(cmd.OutOrStdout(), isFreeze)
			if !isFreeze || notifyChannel == "" {
				return nil
			}
			log, err := logger.NewZapLogger()
			if err != nil {
				return err
			}
			notifier, err := freeze.NewSlackNotifier(os.Getenv("SLACK_TOKEN"), notifyChannel, log)
			if err != nil {
				return fmt.Errorf("failed to create slack notifier: %w", err)
			}
			text := fmt.Sprintf("Code freeze is today. Next release: %s", calc.NextRelease().Format("2006-01-02"))
			return notifier.Notify(cmd.Context(), text)
		},
	}
	cmd.Flags().StringVar(&notifyChannel, "notify-channel", "", "Slack channel to notify when today is the code-freeze day")
	return cmd
}
