package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
)

const (
	// StreamName is the JetStream stream holding POI change events.
	StreamName = "POI_EVENTS"
	// SubjectPrefix is followed by the event type: pois.events.created.
	SubjectPrefix = "pois.events."
	// SubjectAll matches every POI event.
	SubjectAll = SubjectPrefix + ">"
)

// Subject returns the subject an event of type t is published on.
func Subject(t domain.POIEventType) string {
	return SubjectPrefix + string(t)
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and makes sure the POI stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{SubjectAll},
		Retention:  nats.LimitsPolicy,
		MaxAge:     24 * time.Hour,
		Storage:    nats.FileStorage,
		Duplicates: 2 * time.Minute,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// stream may already exist, try update
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishPOIEvent publishes the event; the event ID doubles as the
// JetStream dedupe key.
func (p *Publisher) PublishPOIEvent(ctx context.Context, event *domain.POIEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(Subject(event.Type), data, nats.Context(ctx), nats.MsgId(event.ID))
	return err
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection (e.g. for the WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
