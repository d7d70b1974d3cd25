package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ntfypub/internal/notifications"
	"ntfypub/internal/ntfy"
)

type publishFlags struct {
	message    string
	title      string
	priority   string
	tags       []string
	markdown   bool
	click      string
	attach     string
	filename   string
	file       string
	icon       string
	email      string
	call       string
	delay      time.Duration
	at         string
	noCache    bool
	noFirebase bool
	actions    []string
	jsonOutput bool
}

type publishOutput struct {
	ID      string `json:"id"`
	Topic   string `json:"topic"`
	Time    string `json:"time"`
	Expires string `json:"expires,omitempty"`
}

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var flags publishFlags

	cmd := &cobra.Command{
		Use:     "publish [topic] [message...]",
		Aliases: []string{"pub", "send"},
		Short:   "Publish a notification",
		Long: `Publish a notification to a topic.

The topic defaults to server.default_topic. Words after the topic form the
message body unless --message is given.`,
		Example: `  ntfypub publish alerts "Backup finished"
  ntfypub publish alerts --title "Disk" --priority high --tags warning,disk "Disk 90% full"
  ntfypub publish alerts --action "view, Open, https://example.com" "Deploy done"
  ntfypub publish alerts --file ./report.pdf --title "Weekly report"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := flags.toMessage(args, time.Now())
			if err != nil {
				return err
			}
			return ctx.withService(cmd.Context(), func(svc *notifications.Service) error {
				resp, err := svc.Publish(cmd.Context(), msg)
				if err != nil {
					topic := msg.Topic
					if topic == "" {
						topic = svc.DefaultTopic()
					}
					return fmt.Errorf("publish to %q: %w", topic, err)
				}
				return renderPublishResult(cmd, resp, msg, flags.jsonOutput)
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.message, "message", "m", "", "Message body")
	f.StringVarP(&flags.title, "title", "t", "", "Message title")
	f.StringVarP(&flags.priority, "priority", "p", "", "Priority: min, low, default, high, max (or 1-5)")
	f.StringSliceVar(&flags.tags, "tags", nil, "Comma-separated tags or emoji shortcodes")
	f.BoolVar(&flags.markdown, "markdown", false, "Render the message as Markdown")
	f.StringVar(&flags.click, "click", "", "URL opened when the notification is clicked")
	f.StringVar(&flags.attach, "attach", "", "URL of an external attachment")
	f.StringVar(&flags.filename, "filename", "", "Attachment filename shown to subscribers")
	f.StringVar(&flags.file, "file", "", "Local file to upload as the attachment")
	f.StringVar(&flags.icon, "icon", "", "URL of the notification icon")
	f.StringVar(&flags.email, "email", "", "Forward the notification to this e-mail address")
	f.StringVar(&flags.call, "call", "", "Phone number to call (or \"yes\" for the account default)")
	f.DurationVar(&flags.delay, "delay", 0, "Deliver after this duration (e.g. 30m)")
	f.StringVar(&flags.at, "at", "", "Deliver at this RFC 3339 time")
	f.BoolVar(&flags.noCache, "no-cache", false, "Do not cache the message on the server")
	f.BoolVar(&flags.noFirebase, "no-firebase", false, "Do not forward the message to Firebase")
	f.StringArrayVar(&flags.actions, "action", nil, "Action button in ntfy short form (repeatable)")
	f.BoolVar(&flags.jsonOutput, "json", false, "Print the server response as JSON")

	return cmd
}

// toMessage builds the message from flags and positional arguments. now is
// used to resolve --delay to an absolute delivery time.
func (f *publishFlags) toMessage(args []string, now time.Time) (*ntfy.Message, error) {
	msg := &ntfy.Message{
		Title:      f.title,
		Tags:       f.tags,
		Markdown:   f.markdown,
		Click:      f.click,
		Icon:       f.icon,
		Email:      f.email,
		Call:       f.call,
		NoCache:    f.noCache,
		NoFirebase: f.noFirebase,
	}
	if len(args) > 0 {
		msg.Topic = args[0]
	}
	msg.Body = f.message
	if msg.Body == "" && len(args) > 1 {
		msg.Body = strings.Join(args[1:], " ")
	}

	priority, err := ntfy.ParsePriority(f.priority)
	if err != nil {
		return nil, fmt.Errorf("--priority: %w", err)
	}
	msg.Priority = priority

	for _, raw := range f.actions {
		actions, err := ntfy.ParseActions(raw)
		if err != nil {
			return nil, fmt.Errorf("--action: %w", err)
		}
		msg.Actions = append(msg.Actions, actions...)
	}

	switch {
	case f.file != "" && f.attach != "":
		return nil, errors.New("--file and --attach are mutually exclusive")
	case f.file != "":
		msg.Attachment = ntfy.FileAttachment(f.file, f.filename)
	case f.attach != "":
		msg.Attachment = ntfy.URLAttachment(f.attach, f.filename)
	case f.filename != "":
		return nil, errors.New("--filename requires --file or --attach")
	}

	switch {
	case f.delay != 0 && f.at != "":
		return nil, errors.New("--delay and --at are mutually exclusive")
	case f.delay < 0:
		return nil, errors.New("--delay must be positive")
	case f.delay > 0:
		msg.At = now.Add(f.delay)
	case f.at != "":
		at, err := time.Parse(time.RFC3339, f.at)
		if err != nil {
			return nil, fmt.Errorf("--at: %w", err)
		}
		msg.At = at
	}
	return msg, nil
}

func renderPublishResult(cmd *cobra.Command, resp *ntfy.PublishResponse, msg *ntfy.Message, jsonOutput bool) error {
	if resp == nil {
		return errors.New("missing publish response")
	}
	if jsonOutput {
		out := publishOutput{
			ID:    resp.ID,
			Topic: resp.Topic,
			Time:  resp.Time.Format(time.RFC3339),
		}
		if !resp.Expires.IsZero() {
			out.Expires = resp.Expires.Format(time.RFC3339)
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	topic := resp.Topic
	if topic == "" {
		topic = msg.Topic
	}
	detail := fmt.Sprintf("%s (id %s)", topic, resp.ID)
	label := "Published"
	if !msg.At.IsZero() {
		label = "Scheduled"
		detail = fmt.Sprintf("%s for %s", detail, msg.At.Local().Format(time.RFC1123))
	}
	fmt.Fprintln(out, renderStatusLine(label, statusOK, detail, colorize))
	return nil
}
