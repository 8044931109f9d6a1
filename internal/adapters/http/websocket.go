package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/hanamagouda9611/map-poi-app/internal/adapters/nats"
	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/metrics"
)

// wsMessage is sent from client to narrow or widen the relayed events.
type wsMessage struct {
	Action string `json:"action"` // "subscribe" | "unsubscribe"
	Type   string `json:"type"`   // "created" | "updated" | "deleted" | "" (all)
}

// wsSubject maps a client event type to a NATS subject.
func wsSubject(typ string) (string, bool) {
	switch domain.POIEventType(typ) {
	case "":
		return natsadapter.SubjectAll, true
	case domain.POICreated, domain.POIUpdated, domain.POIDeleted:
		return natsadapter.Subject(domain.POIEventType(typ)), true
	default:
		return "", false
	}
}

// eventSource delivers every message on subject to fn until the returned
// cancel func is called.
type eventSource func(subject string, fn func(data []byte)) (cancel func() error, err error)

func natsSource(nc *nats.Conn) eventSource {
	return func(subject string, fn func([]byte)) (func() error, error) {
		sub, err := nc.Subscribe(subject, func(msg *nats.Msg) { fn(msg.Data) })
		if err != nil {
			return nil, err
		}
		return sub.Unsubscribe, nil
	}
}

// wsSubscriptions is the subject set of one client. After every call the
// wildcard and a single event type are never both active, so an event is
// relayed at most once.
type wsSubscriptions struct {
	source eventSource
	relay  func([]byte)
	active map[string]func() error
	log    *slog.Logger
}

func newWSSubscriptions(source eventSource, relay func([]byte), log *slog.Logger) *wsSubscriptions {
	return &wsSubscriptions{
		source: source,
		relay:  relay,
		active: make(map[string]func() error),
		log:    log,
	}
}

func (s *wsSubscriptions) subscribe(subject string) map[string]string {
	if _, exists := s.active[subject]; exists {
		return map[string]string{"status": "already subscribed", "subject": subject}
	}
	if _, all := s.active[natsadapter.SubjectAll]; all {
		return map[string]string{"error": "already subscribed to all events, unsubscribe first", "subject": subject}
	}

	cancel, err := s.source(subject, s.relay)
	if err != nil {
		s.log.Error("ws subscribe failed", "subject", subject, "error", err)
		return map[string]string{"error": "subscribe failed"}
	}

	// the wildcard covers every narrower subject
	if subject == natsadapter.SubjectAll {
		s.closeAll()
	}
	s.active[subject] = cancel
	return map[string]string{"status": "subscribed", "subject": subject}
}

func (s *wsSubscriptions) unsubscribe(subject string) map[string]string {
	cancel, exists := s.active[subject]
	if !exists {
		return map[string]string{"error": "not subscribed to " + subject}
	}
	_ = cancel()
	delete(s.active, subject)
	return map[string]string{"status": "unsubscribed", "subject": subject}
}

func (s *wsSubscriptions) closeAll() {
	for subject, cancel := range s.active {
		_ = cancel()
		delete(s.active, subject)
	}
}

// WebSocketHandler relays POI change events from NATS to connected clients.
// Every client starts subscribed to all events; it may send
// {"action":"unsubscribe"} and then {"action":"subscribe","type":"deleted"}.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return relayHandler(natsSource(nc))
}

func relayHandler(source eventSource) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		log := slog.Default().With("remote_addr", c.RemoteAddr().String())
		log.Info("ws client connected")

		var mu sync.Mutex
		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		relay := func(data []byte) {
			_ = writeJSON(json.RawMessage(data))
		}

		subs := newWSSubscriptions(source, relay, log)
		defer subs.closeAll()
		if reply := subs.subscribe(natsadapter.SubjectAll); reply["error"] != "" {
			return
		}

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			subject, ok := wsSubject(m.Type)
			if !ok {
				_ = writeJSON(map[string]string{"error": "unknown event type: " + m.Type})
				continue
			}

			switch m.Action {
			case "subscribe":
				_ = writeJSON(subs.subscribe(subject))
			case "unsubscribe":
				_ = writeJSON(subs.unsubscribe(subject))
			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		log.Info("ws client disconnected")
	}
}
