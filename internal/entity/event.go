package entity

import "time"

type EventType string

const (
	EventIndividualsLoaded  EventType = "individuals.loaded"
	EventIndividualCreated  EventType = "individuals.created"
	EventIndividualUpdated  EventType = "individuals.updated"
	EventIndividualDeleted  EventType = "individuals.deleted"
	EventFacesChanged       EventType = "individuals.faces_changed"
	EventEditorShow         EventType = "editor.show"
	EventEditorHide         EventType = "editor.hide"
	EventImageDetectionDone EventType = "detection.image.completed"
	EventVideoDetectionDone EventType = "detection.video.completed"
)

// AllSessions subscribes to the events of every session.
const AllSessions = "*"

type ViewEvent struct {
	Type    EventType   `json:"type"`
	Session string      `json:"session"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}
