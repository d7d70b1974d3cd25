package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ntfypub/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the default topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(svc *notifications.Service) error {
				resp, err := svc.TestNotification(cmd.Context())
				if err != nil {
					return fmt.Errorf("test notification: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderStatusLine("Test notification", statusOK,
					fmt.Sprintf("sent to %s (id %s)", svc.DefaultTopic(), resp.ID), shouldColorize(out)))
				return nil
			})
		},
	}
}
