package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"parley/internal/logging"
	"parley/internal/types"
)

const eventBuffer = 256

// Subscription is one websocket connection scoped to a single session
// id. Every decoded event is stamped with the subscription's generation
// so downstream consumers can discard messages from a superseded
// subscription.
type Subscription struct {
	ID         string
	SessionID  string
	Generation uint64
	Events     <-chan types.Event

	cancel func()
}

func (s *Subscription) Close() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
}

// Subscriber dials per-session push channels against one server.
// Subscribe may be called from concurrent goroutines; the generation
// counter is the only shared state.
type Subscriber struct {
	baseURL    string
	token      string
	dialer     *websocket.Dialer
	log        logging.Logger
	generation atomic.Uint64
}

func NewSubscriber(baseURL, token string, log logging.Logger) *Subscriber {
	if log == nil {
		log = logging.Nop()
	}
	return &Subscriber{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Subscribe opens the channel for one session. Each call bumps the
// subscriber's generation; events from earlier subscriptions become
// stale by construction. The returned subscription must be closed when
// the viewer leaves the session.
func (s *Subscriber) Subscribe(ctx context.Context, sessionID string) (*Subscription, error) {
	wsURL, err := s.channelURL(sessionID)
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}

	ctx, cancel := context.WithCancel(ctx)
	conn, resp, err := s.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		cancel()
		return nil, err
	}

	generation := s.generation.Add(1)
	events := make(chan types.Event, eventBuffer)
	sub := &Subscription{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Generation: generation,
		Events:     events,
		cancel: func() {
			cancel()
			_ = conn.Close()
		},
	}
	log := s.log.With(logging.F("session_id", sessionID), logging.F("subscription", sub.ID))
	log.Debug("push channel open", logging.F("generation", generation))

	go func() {
		defer close(events)
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug("push channel read error", logging.F("err", err))
				}
				return
			}
			var event types.Event
			if err := json.Unmarshal(data, &event); err != nil {
				log.Debug("push channel bad payload", logging.F("err", err))
				continue
			}
			event.Generation = generation
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}

func (s *Subscriber) channelURL(sessionID string) (string, error) {
	parsed, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}
	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	default:
		parsed.Scheme = "ws"
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/api/v1/ws/user"
	query := parsed.Query()
	query.Set("session_id", sessionID)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
