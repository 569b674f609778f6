package eventsHandler

import (
	"time"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	sessionLocal = "events_session"
	writeWait    = 10 * time.Second
	pingPeriod   = 30 * time.Second
	pongWait     = 60 * time.Second
)

// handleEvents streams the view events of one session until the client
// goes away or the hub is closed.
func (h *EventsHandler) handleEvents(c *websocket.Conn) {
	sessionID, _ := c.Locals(sessionLocal).(string)
	if query := c.Query("session"); query != "" {
		sessionID = query
	}

	entry := h.log.WithFields(logrus.Fields{"session_id": sessionID})
	entry.Info("Events WebSocket client connected")
	defer entry.Info("Events WebSocket client disconnected")

	events, unsubscribe := h.hub.Subscribe(sessionID)
	defer unsubscribe()

	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader: the client sends nothing useful, but reads are needed to see
	// close frames and pongs.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					entry.Warnf("Events WebSocket read error: %v", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case event, ok := <-events:
			if !ok {
				_ = c.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return
			}

			message, err := jsoniter.Marshal(event)
			if err != nil {
				entry.Errorf("Error marshaling event %s: %v", event.Type, err)
				continue
			}

			if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				entry.Errorf("Error setting write deadline: %v", err)
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
				entry.Errorf("Error writing event: %v", err)
				return
			}
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
