package websocketPkg

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func receive(t *testing.T, ch <-chan entity.ViewEvent) (entity.ViewEvent, bool) {
	t.Helper()
	select {
	case event, ok := <-ch:
		return event, ok
	case <-time.After(time.Second):
		return entity.ViewEvent{}, false
	}
}

func TestHubDeliversOnlyToSameSession(t *testing.T) {
	hub := NewHub(quietLogger())
	defer hub.Close()

	a, unsubA := hub.Subscribe("a")
	defer unsubA()
	b, unsubB := hub.Subscribe("b")
	defer unsubB()

	hub.Publish(entity.ViewEvent{Type: entity.EventIndividualsLoaded, Session: "a"})

	event, ok := receive(t, a)
	if !ok || event.Type != entity.EventIndividualsLoaded {
		t.Fatalf("Expected event on session a, got %+v (ok=%v)", event, ok)
	}
	if event.At.IsZero() {
		t.Error("Expected Publish to stamp the event time")
	}

	select {
	case event := <-b:
		t.Errorf("Session b received %+v", event)
	default:
	}
}

func TestHubWildcardSubscriber(t *testing.T) {
	hub := NewHub(quietLogger())
	defer hub.Close()

	all, unsubscribe := hub.Subscribe(entity.AllSessions)
	defer unsubscribe()

	hub.Publish(entity.ViewEvent{Type: entity.EventEditorShow, Session: "x"})

	if event, ok := receive(t, all); !ok || event.Session != "x" {
		t.Errorf("Expected wildcard subscriber to see session x, got %+v", event)
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub(quietLogger())
	defer hub.Close()

	ch, unsubscribe := hub.Subscribe("a")
	if hub.Subscribers("a") != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", hub.Subscribers("a"))
	}

	unsubscribe()
	unsubscribe()

	if hub.Subscribers("a") != 0 {
		t.Errorf("Expected 0 subscribers, got %d", hub.Subscribers("a"))
	}
	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed")
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(quietLogger())
	defer hub.Close()

	ch, unsubscribe := hub.Subscribe("a")
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(entity.ViewEvent{Type: entity.EventIndividualsLoaded, Session: "a"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	if len(ch) != subscriberBuffer {
		t.Errorf("Expected %d buffered events, got %d", subscriberBuffer, len(ch))
	}
}

func TestHubCloseEndsSubscriptions(t *testing.T) {
	hub := NewHub(quietLogger())
	ch, _ := hub.Subscribe("a")

	hub.Close()

	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed after Close")
	}

	late, _ := hub.Subscribe("a")
	if _, ok := <-late; ok {
		t.Error("Expected subscriptions after Close to be closed")
	}
}

func TestListen(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, eventType := range []entity.EventType{entity.EventEditorShow, entity.EventEditorHide} {
			msg, _ := jsoniter.Marshal(entity.ViewEvent{Type: eventType, Session: "s1", At: time.Now()})
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []entity.EventType
	err := Listen(ctx, wsURL, func(event entity.ViewEvent) error {
		got = append(got, event.Type)
		return nil
	})
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	if len(got) != 2 || got[0] != entity.EventEditorShow || got[1] != entity.EventEditorHide {
		t.Errorf("Unexpected events %v", got)
	}
}
