package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/errs"
	"mrcfield/internal/ports"
)

const DefaultSubject = "mrc.inspection.completed"

type Config struct {
	URL     string
	Subject string
	Name    string
}

type publisher interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
}

// NATSPublisher emits domain events on a NATS subject.
type NATSPublisher struct {
	conn    publisher
	closer  func() error
	subject string
}

var _ ports.EventPublisher = (*NATSPublisher)(nil)

func NewNATSPublisher(ctx context.Context, cfg Config) (*NATSPublisher, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("nats url is required")
	}

	name := cfg.Name
	if name == "" {
		name = "mrcfield"
	}
	nc, err := nats.Connect(cfg.URL,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logging.Warn(ctx, "nats disconnected", slog.Any("err", errs.Loggable(err)))
			}
		}),
	)
	if err != nil {
		return nil, errs.Wrapf(err, "connect nats %q", cfg.URL)
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "infrastructure.events")),
		"nats publisher connected",
		slog.String("url", nc.ConnectedUrlRedacted()),
	)
	return newNATSPublisher(nc, nc.Drain, cfg.Subject), nil
}

func newNATSPublisher(conn publisher, closer func() error, subject string) *NATSPublisher {
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{conn: conn, closer: closer, subject: subject}
}

func (p *NATSPublisher) PublishInspectionCompleted(ctx context.Context, evt ports.InspectionCompleted) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	payload, err := json.Marshal(envelope{
		Type:       "inspection.completed",
		OccurredAt: evt.CompletedAt,
		Data:       evt,
	})
	if err != nil {
		return errs.Wrap(err, "marshal inspection completed event")
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return errs.Wrapf(err, "publish %s", p.subject)
	}

	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := p.conn.FlushTimeout(timeout); err != nil {
		return errs.Wrap(err, "flush nats")
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "infrastructure.events")),
		"inspection completed event published",
		slog.String("subject", p.subject),
		slog.String("inspection_id", evt.InspectionID),
	)
	return nil
}

// Close drains pending messages before closing the connection.
func (p *NATSPublisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

type envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

var _ ports.EventPublisher = NoopPublisher{}

func (NoopPublisher) PublishInspectionCompleted(ctx context.Context, evt ports.InspectionCompleted) error {
	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "infrastructure.events")),
		"event publishing disabled, dropping inspection completed event",
		slog.String("inspection_id", evt.InspectionID),
	)
	return nil
}
