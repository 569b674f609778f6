package view

import (
	"context"
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/redis"
	websocketPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/websocket"
	"github.com/sirupsen/logrus"
)

// Dialog is the editor dialog of the individuals view. Show opens it with
// payload as its content, Hide closes it.
type Dialog interface {
	Show(ctx context.Context, sessionID string, payload interface{})
	Hide(ctx context.Context, sessionID string)
}

type editorDialog struct {
	store redis.IViewStore
	hub   websocketPkg.IHub
	log   *logrus.Logger
}

// NewEditorDialog returns a Dialog that records the open flag in the
// session view state and tells the connected browsers through the hub.
func NewEditorDialog(store redis.IViewStore, hub websocketPkg.IHub, log *logrus.Logger) Dialog {
	return &editorDialog{store: store, hub: hub, log: log}
}

func (d *editorDialog) Show(ctx context.Context, sessionID string, payload interface{}) {
	d.setOpen(ctx, sessionID, true)
	Publish(d.hub, sessionID, entity.EventEditorShow, payload)
}

func (d *editorDialog) Hide(ctx context.Context, sessionID string) {
	d.setOpen(ctx, sessionID, false)
	Publish(d.hub, sessionID, entity.EventEditorHide, nil)
}

func (d *editorDialog) setOpen(ctx context.Context, sessionID string, open bool) {
	state, err := d.store.GetIndividualsView(ctx, sessionID)
	if err != nil {
		d.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to read view state for editor dialog")
		return
	}

	state.EditorOpen = open
	state.UpdatedAt = time.Now()

	if err := d.store.SaveIndividualsView(ctx, sessionID, state); err != nil {
		d.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to save view state for editor dialog")
	}
}

// Publish sends one view event to the browsers of a session. A nil hub is
// allowed so the CLI can run the services without one.
func Publish(hub websocketPkg.IHub, sessionID string, eventType entity.EventType, payload interface{}) {
	if hub == nil {
		return
	}
	hub.Publish(entity.ViewEvent{
		Type:    eventType,
		Session: sessionID,
		Payload: payload,
		At:      time.Now(),
	})
}
