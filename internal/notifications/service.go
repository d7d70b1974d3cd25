package notifications

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ntfypub/internal/config"
	"ntfypub/internal/history"
	"ntfypub/internal/logging"
	"ntfypub/internal/ntfy"
)

// ErrNoTopic is returned when neither the message nor the configuration names a topic.
var ErrNoTopic = errors.New("no topic given and server.default_topic is not set")

// Publisher sends one message. *ntfy.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, msg *ntfy.Message) (*ntfy.PublishResponse, error)
}

// Recorder persists publish attempts. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder attaches a history recorder.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithLogger sets the base logger; the service adds its component attribute.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logging.NewComponentLogger(logger, "notifications")
	}
}

// Service publishes messages with configured defaults.
type Service struct {
	publisher    Publisher
	recorder     Recorder
	defaultTopic string
	priority     ntfy.Priority
	tags         []string
	markdown     bool
	cache        bool
	firebase     bool
	logger       *slog.Logger
	now          func() time.Time
}

// NewService builds a Service from cfg. A nil cfg uses config.Default().
func NewService(cfg *config.Config, publisher Publisher, opts ...Option) *Service {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	// Validate has already rejected unknown priorities.
	priority, _ := ntfy.ParsePriority(cfg.Publish.Priority)

	svc := &Service{
		publisher:    publisher,
		recorder:     noopRecorder{},
		defaultTopic: strings.TrimSpace(cfg.Server.DefaultTopic),
		priority:     priority,
		tags:         append([]string(nil), cfg.Publish.Tags...),
		markdown:     cfg.Publish.Markdown,
		cache:        cfg.Publish.Cache,
		firebase:     cfg.Publish.Firebase,
		logger:       logging.NewComponentLogger(nil, "notifications"),
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// DefaultTopic returns the configured fallback topic.
func (s *Service) DefaultTopic() string {
	return s.defaultTopic
}

// Publish applies defaults to a copy of msg and sends it. The returned error
// is the publisher's error unchanged so callers can use ntfy.KindOf.
func (s *Service) Publish(ctx context.Context, msg *ntfy.Message) (*ntfy.PublishResponse, error) {
	if msg == nil {
		return s.publisher.Publish(ctx, nil)
	}
	prepared := s.withDefaults(msg)
	if prepared.Topic == "" {
		return nil, &ntfy.Error{Kind: ntfy.KindInvalidRequest, Err: ErrNoTopic}
	}

	ctx = logging.WithTopic(ctx, prepared.Topic)
	start := s.now()
	resp, err := s.publisher.Publish(ctx, prepared)
	latency := s.now().Sub(start)

	entry := history.Entry{
		Topic:   prepared.Topic,
		Title:   prepared.Title,
		Latency: latency,
	}
	if err != nil {
		entry.Status = history.StatusFailed
		entry.Error = err.Error()
		var ntfyErr *ntfy.Error
		if errors.As(err, &ntfyErr) {
			entry.ErrorKind = ntfyErr.Kind.String()
			entry.HTTPStatus = ntfyErr.HTTPStatus
		}
	} else {
		entry.Status = history.StatusSent
		entry.MessageID = resp.ID
	}

	recorded, recErr := s.recorder.Record(ctx, entry)
	if recErr == nil {
		ctx = logging.WithRecordID(ctx, recorded.ID)
	}
	logger := logging.WithContext(ctx, s.logger)
	if recErr != nil {
		logger.Warn("history record failed", logging.Error(recErr))
	}

	if err != nil {
		logging.WarnWithContext(logger, "publish failed", "publish_failed",
			logging.String(logging.FieldErrorKind, entry.ErrorKind),
			logging.Int(logging.FieldHTTPStatus, entry.HTTPStatus),
			logging.Duration(logging.FieldLatency, latency),
			logging.Error(err),
		)
		return nil, err
	}
	logger.Info("published",
		logging.String(logging.FieldMessageID, resp.ID),
		logging.Duration(logging.FieldLatency, latency),
	)
	return resp, nil
}

// TestNotification sends a low-priority message to the default topic.
func (s *Service) TestNotification(ctx context.Context) (*ntfy.PublishResponse, error) {
	return s.Publish(ctx, &ntfy.Message{
		Title:    "ntfypub - Test",
		Body:     "🧪 Notification system test",
		Tags:     []string{"ntfypub", "test"},
		Priority: ntfy.PriorityLow,
	})
}

func (s *Service) withDefaults(msg *ntfy.Message) *ntfy.Message {
	out := *msg
	out.Topic = strings.TrimSpace(out.Topic)
	if out.Topic == "" {
		out.Topic = s.defaultTopic
	}
	if out.Priority == ntfy.PriorityDefault {
		out.Priority = s.priority
	}
	if len(s.tags) > 0 {
		out.Tags = append(append([]string(nil), s.tags...), msg.Tags...)
	}
	out.Markdown = out.Markdown || s.markdown
	out.NoCache = out.NoCache || !s.cache
	out.NoFirebase = out.NoFirebase || !s.firebase
	return &out
}

type noopRecorder struct{}

func (noopRecorder) Record(_ context.Context, entry history.Entry) (history.Entry, error) {
	return entry, nil
}
