package entity

import "time"

type DetectionMode string

const (
	DetectionModeNone  DetectionMode = ""
	DetectionModeImage DetectionMode = "imagen"
	DetectionModeVideo DetectionMode = "video"
)

type IndividualsViewState struct {
	Individuals []IndividualView `json:"individuals"`
	Editing     *Individual      `json:"editing"`
	EditorOpen  bool             `json:"editorOpen"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type DetectionViewState struct {
	Mode      DetectionMode    `json:"mode"`
	Image     *ImageProjection `json:"image"`
	Video     *VideoProjection `json:"video"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
