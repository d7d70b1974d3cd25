package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ntfypub/internal/ntfy"
)

func newTopicCommand() *cobra.Command {
	topicCmd := &cobra.Command{
		Use:         "topic",
		Short:       "Topic utilities",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	topicCmd.AddCommand(newTopicGenerateCommand())
	topicCmd.AddCommand(newTopicCheckCommand())
	return topicCmd
}

func newTopicGenerateCommand() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a new unguessable topic name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := ntfy.GenerateTopic(prefix)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), topic)
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Readable prefix for the topic name")
	return cmd
}

func newTopicCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <topic>",
		Short: "Check whether a topic name is valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ntfy.ValidateTopic(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid topic\n", args[0])
			return nil
		},
	}
}
