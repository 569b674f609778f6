package entity

import "encoding/json"

// DetectedObject is whatever the backend reports for a generic object. It is
// passed through untouched.
type DetectedObject = json.RawMessage

type DetectionImageResult struct {
	IndividualsDetected []Individual     `json:"individuos_detectados"`
	DetectionImage      *string          `json:"imagen_deteccion,omitempty"`
	Objects             []DetectedObject `json:"objetos"`
}

type DetectionVideoResult struct {
	IndividualsDetected []Individual     `json:"individuos_detectados"`
	DetectionFrames     []DetectionFrame `json:"frames_deteccion"`
	Objects             []DetectedObject `json:"objetos"`
}

type DetectionFrame struct {
	FramePath  string     `json:"frame_path"`
	Individual Individual `json:"individuo"`
}

type IndividualWithFrames struct {
	Individual
	Frames   []DetectionFrame `json:"frames"`
	FaceURLs []string         `json:"faceUrls"`
}

type ImageProjection struct {
	Individuals      []Individual     `json:"individuals"`
	DetectedImageURL *string          `json:"detectedImageUrl"`
	Objects          []DetectedObject `json:"objects"`
}

type VideoProjection struct {
	Individuals []IndividualWithFrames `json:"individuals"`
	Frames      []DetectionFrame       `json:"frames"`
	Objects     []DetectedObject       `json:"objects"`
}
