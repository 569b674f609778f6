package view

import (
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
)

// ListViews turns backend individuals into list rows with absolute face
// URLs. The order of the backend list is kept.
func ListViews(root string, individuals []entity.Individual) []entity.IndividualView {
	views := make([]entity.IndividualView, 0, len(individuals))
	for _, ind := range individuals {
		views = append(views, entity.IndividualView{
			Individual: ind,
			FaceURLs:   FaceURLs(root, ind.Caras),
		})
	}
	return views
}

func FaceURLs(root string, faces []entity.Face) []string {
	urls := make([]string, 0, len(faces))
	for _, face := range faces {
		if face.Path == "" {
			continue
		}
		urls = append(urls, gateway.AbsoluteURL(root, face.Path))
	}
	return urls
}

// FindIndividual looks an id up in the rows of a list view.
func FindIndividual(state entity.IndividualsViewState, id string) (entity.Individual, bool) {
	for _, row := range state.Individuals {
		if row.ID == id {
			return row.Individual, true
		}
	}
	return entity.Individual{}, false
}
