package entity

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

// Individual is a person registered in the detection backend. Unknown faces
// found in a video come back without ID and with NombreDetectado set.
type Individual struct {
	ID              string `json:"_id,omitempty"`
	Nombre          string `json:"nombre,omitempty"`
	Apellido1       string `json:"apellido1,omitempty"`
	Apellido2       string `json:"apellido2,omitempty"`
	Caras           []Face `json:"caras,omitempty"`
	NombreDetectado string `json:"nombre_detectado,omitempty"`
}

// Face is a reference face photo stored by the backend.
type Face struct {
	ID   string `json:"_id"`
	Path string `json:"path,omitempty"`
}

// UnmarshalJSON accepts the three shapes the backend uses for a face: a bare
// id string, {"_id", "path"} and {"id", "path"}.
func (f *Face) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := jsoniter.Unmarshal(data, &id); err != nil {
			return err
		}
		*f = Face{ID: id}
		return nil
	}

	var raw struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
		Path    string `json:"path"`
	}
	if err := jsoniter.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.ID = raw.MongoID
	if f.ID == "" {
		f.ID = raw.ID
	}
	f.Path = raw.Path
	return nil
}

// IndividualView is an Individual as shown in the list, with its face paths
// made absolute.
type IndividualView struct {
	Individual
	FaceURLs []string `json:"faceUrls"`
}
