package websocketPkg

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const subscriberBuffer = 16

// IHub fans view events out to the websocket connections of a session.
type IHub interface {
	Publish(event entity.ViewEvent)
	Subscribe(sessionID string) (<-chan entity.ViewEvent, func())
	Subscribers(sessionID string) int
	Close()
}

type subscriber struct {
	ch        chan entity.ViewEvent
	closeOnce sync.Once
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

type hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*subscriber]struct{}
	closed   bool
	log      *logrus.Logger
}

func NewHub(log *logrus.Logger) IHub {
	return &hub{
		sessions: make(map[string]map[*subscriber]struct{}),
		log:      log,
	}
}

// Publish never blocks: a subscriber whose buffer is full misses the event.
func (h *hub) Publish(event entity.ViewEvent) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	targets := []string{event.Session}
	if event.Session != entity.AllSessions {
		targets = append(targets, entity.AllSessions)
	}

	for _, sessionID := range targets {
		for sub := range h.sessions[sessionID] {
			select {
			case sub.ch <- event:
			default:
				h.log.WithFields(logrus.Fields{
					"session_id": sessionID,
					"event":      event.Type,
				}).Warn("Dropping view event for slow subscriber")
			}
		}
	}
}

func (h *hub) Subscribe(sessionID string) (<-chan entity.ViewEvent, func()) {
	sub := &subscriber{ch: make(chan entity.ViewEvent, subscriberBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*subscriber]struct{})
	}
	h.sessions[sessionID][sub] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if subs, ok := h.sessions[sessionID]; ok {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(h.sessions, sessionID)
			}
		}
		h.mu.Unlock()
		sub.close()
	}

	return sub.ch, unsubscribe
}

func (h *hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

func (h *hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for sessionID, subs := range h.sessions {
		for sub := range subs {
			sub.close()
		}
		delete(h.sessions, sessionID)
	}
}

// Listen dials the console event endpoint and calls handle for every event
// until ctx is done, the server closes the connection or handle fails.
func Listen(ctx context.Context, wsURL string, handle func(entity.ViewEvent) error) error {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}
	defer conn.Close()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("error reading event: %w", err)
		}

		var event entity.ViewEvent
		if err := jsoniter.Unmarshal(message, &event); err != nil {
			return fmt.Errorf("error unmarshaling event: %w", err)
		}

		if err := handle(event); err != nil {
			return err
		}
	}
}
