package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ntfypub/internal/history"
)

type historyEntryJSON struct {
	ID         string `json:"id"`
	Topic      string `json:"topic"`
	Title      string `json:"title,omitempty"`
	MessageID  string `json:"message_id,omitempty"`
	Status     string `json:"status"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
	HTTPStatus int    `json:"http_status,omitempty"`
	LatencyMS  int64  `json:"latency_ms"`
	CreatedAt  string `json:"created_at"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the local publish history",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var (
		topic      string
		failed     bool
		limit      int
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent publish attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("history is disabled (history.enabled = false)")
			}
			defer store.Close()

			filter := history.Filter{Topic: topic, Limit: limit}
			if failed {
				filter.Status = history.StatusFailed
			}
			entries, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if jsonOutput {
				out := make([]historyEntryJSON, 0, len(entries))
				for _, e := range entries {
					out = append(out, historyEntryJSON{
						ID:         e.ID,
						Topic:      e.Topic,
						Title:      e.Title,
						MessageID:  e.MessageID,
						Status:     string(e.Status),
						ErrorKind:  e.ErrorKind,
						Error:      e.Error,
						HTTPStatus: e.HTTPStatus,
						LatencyMS:  e.Latency.Milliseconds(),
						CreatedAt:  e.CreatedAt.Format(time.RFC3339),
					})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No publish history")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(entries))
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d sent, %d failed in history\n", stats[history.StatusSent], stats[history.StatusFailed])
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "Only show this topic")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only show failed attempts")
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of entries")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	return cmd
}

func renderHistoryTable(entries []history.Entry) string {
	headers := []string{"Time", "Topic", "Status", "Message ID", "Latency", "Detail"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detail := e.Title
		if e.Status == history.StatusFailed {
			detail = e.ErrorKind
			if e.HTTPStatus != 0 {
				detail += " (" + strconv.Itoa(e.HTTPStatus) + ")"
			}
		}
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Topic,
			string(e.Status),
			e.MessageID,
			e.Latency.Round(time.Millisecond).String(),
			truncate(detail, 40),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft})
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			retention := olderThan
			if !cmd.Flags().Changed("older-than") {
				retention = cfg.HistoryRetention()
			}
			if retention <= 0 {
				return errors.New("nothing to prune: retention is disabled (set --older-than or history.retention_days)")
			}

			store, err := ctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("history is disabled (history.enabled = false)")
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context(), retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries older than %s\n", removed, retention)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Remove entries older than this duration (default history.retention_days)")
	return cmd
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
