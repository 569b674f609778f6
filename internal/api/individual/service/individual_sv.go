package individualService

import (
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/individual"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/view"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/log"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/response"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *individualService) List(ctx context.Context, sessionID string) (entity.IndividualsViewState, error) {
	state, err := s.reload(ctx, sessionID)
	if err != nil {
		return entity.IndividualsViewState{}, err
	}

	view.Publish(s.hub, sessionID, entity.EventIndividualsLoaded, state.Individuals)
	return state, nil
}

func (s *individualService) State(ctx context.Context, sessionID string) (entity.IndividualsViewState, error) {
	state, err := s.store.GetIndividualsView(ctx, sessionID)
	if err != nil {
		return entity.IndividualsViewState{}, err
	}
	if state.Individuals == nil {
		state.Individuals = []entity.IndividualView{}
	}
	return state, nil
}

func (s *individualService) Get(ctx context.Context, id string) (entity.IndividualView, error) {
	if id == "" {
		return entity.IndividualView{}, individual.ErrInvalidIndividualID
	}

	ind, err := s.gateway.GetIndividual(ctx, id)
	if err != nil {
		return entity.IndividualView{}, notFound(err)
	}

	return entity.IndividualView{
		Individual: ind,
		FaceURLs:   view.FaceURLs(s.gateway.Root(), ind.Caras),
	}, nil
}

func (s *individualService) Create(ctx context.Context, sessionID string, form entity.IndividualForm) (entity.IndividualsViewState, error) {
	result, err := s.gateway.CreateIndividualWithFace(ctx, form)
	if err != nil {
		return entity.IndividualsViewState{}, err
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"nombre":   form.Nombre,
		"has_file": form.File != nil,
	}).Info("Individual created")

	state, err := s.reload(ctx, sessionID)
	if err != nil {
		return entity.IndividualsViewState{}, err
	}

	view.Publish(s.hub, sessionID, entity.EventIndividualCreated, result)
	return state, nil
}

// OpenEditor copies the row into the edit buffer, so changes made in the
// editor never touch the list until they are saved.
func (s *individualService) OpenEditor(ctx context.Context, sessionID string, id string) (entity.IndividualsViewState, error) {
	if id == "" {
		return entity.IndividualsViewState{}, individual.ErrInvalidIndividualID
	}

	state, err := s.State(ctx, sessionID)
	if err != nil {
		return entity.IndividualsViewState{}, err
	}

	selected, found := view.FindIndividual(state, id)
	if !found {
		state, err = s.reload(ctx, sessionID)
		if err != nil {
			return entity.IndividualsViewState{}, err
		}
		selected, found = view.FindIndividual(state, id)
		if !found {
			return entity.IndividualsViewState{}, individual.ErrIndividualNotFound
		}
	}

	editing := copyIndividual(selected)
	state.Editing = &editing
	state.UpdatedAt = time.Now()
	if err := s.store.SaveIndividualsView(ctx, sessionID, state); err != nil {
		return entity.IndividualsViewState{}, response.Wrap(individual.ErrLoadIndividuals, err)
	}

	s.dialog.Show(ctx, sessionID, editing)

	return s.State(ctx, sessionID)
}

func (s *individualService) CancelEdit(ctx context.Context, sessionID string) (entity.IndividualsViewState, error) {
	if err := s.clearEditor(ctx, sessionID); err != nil {
		return entity.IndividualsViewState{}, err
	}
	return s.State(ctx, sessionID)
}

func (s *individualService) SaveEdit(ctx context.Context, sessionID string, form entity.IndividualForm) (entity.IndividualsViewState, error) {
	if form.ID == "" {
		state, err := s.State(ctx, sessionID)
		if err != nil {
			return entity.IndividualsViewState{}, err
		}
		if state.Editing == nil || state.Editing.ID == "" {
			return entity.IndividualsViewState{}, individual.ErrNoIndividualSelected
		}
		form.ID = state.Editing.ID
	}

	result, err := s.gateway.UpdateIndividualWithFace(ctx, form)
	if err != nil {
		return entity.IndividualsViewState{}, notFound(err)
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"individual_id": form.ID,
		"has_file":      form.File != nil,
	}).Info("Individual updated")

	if _, err := s.reload(ctx, sessionID); err != nil {
		return entity.IndividualsViewState{}, err
	}
	if err := s.clearEditor(ctx, sessionID); err != nil {
		return entity.IndividualsViewState{}, err
	}

	view.Publish(s.hub, sessionID, entity.EventIndividualUpdated, result)
	return s.State(ctx, sessionID)
}

// Delete does not check the id against the current list; the list is
// reloaded after every successful delete.
func (s *individualService) Delete(ctx context.Context, sessionID string, id string) (entity.IndividualsViewState, error) {
	if id == "" {
		return entity.IndividualsViewState{}, individual.ErrInvalidIndividualID
	}

	if _, err := s.gateway.DeleteIndividual(ctx, id); err != nil {
		return entity.IndividualsViewState{}, notFound(err)
	}

	log.WithRequestID(ctx).WithField("individual_id", id).Info("Individual deleted")

	state, err := s.reload(ctx, sessionID)
	if err != nil {
		return entity.IndividualsViewState{}, err
	}

	view.Publish(s.hub, sessionID, entity.EventIndividualDeleted, map[string]string{"_id": id})
	return state, nil
}

func (s *individualService) Faces(ctx context.Context, id string) (*individual.FaceListResponse, error) {
	if id == "" {
		return nil, individual.ErrInvalidIndividualID
	}

	faces, err := s.gateway.ListFaces(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	root := s.gateway.Root()
	resp := &individual.FaceListResponse{
		IndividualID: id,
		Faces:        make([]individual.FaceResponse, 0, len(faces)),
	}
	for _, face := range faces {
		resp.Faces = append(resp.Faces, individual.FaceResponse{
			ID:   face.ID,
			Path: face.Path,
			URL:  gateway.AbsoluteURL(root, face.Path),
		})
	}

	return resp, nil
}

func (s *individualService) AddFace(ctx context.Context, sessionID string, id string, file *entity.Upload) (entity.IndividualsViewState, error) {
	if id == "" {
		return entity.IndividualsViewState{}, individual.ErrInvalidIndividualID
	}

	if _, err := s.gateway.AddFace(ctx, id, file); err != nil {
		return entity.IndividualsViewState{}, notFound(err)
	}

	state, err := s.reload(ctx, sessionID)
	if err != nil {
		return entity.IndividualsViewState{}, err
	}

	view.Publish(s.hub, sessionID, entity.EventFacesChanged, map[string]string{"_id": id})
	return state, nil
}

func (s *individualService) DeleteFace(ctx context.Context, sessionID string, id string, faceID string) (entity.IndividualsViewState, error) {
	if id == "" {
		return entity.IndividualsViewState{}, individual.ErrInvalidIndividualID
	}
	if faceID == "" {
		return entity.IndividualsViewState{}, individual.ErrInvalidFaceID
	}

	if _, err := s.gateway.DeleteFace(ctx, faceID, id); err != nil {
		if gateway.IsHTTPError(err, 404) {
			return entity.IndividualsViewState{}, response.Wrap(individual.ErrFaceNotFound, err)
		}
		return entity.IndividualsViewState{}, err
	}

	state, err := s.reload(ctx, sessionID)
	if err != nil {
		return entity.IndividualsViewState{}, err
	}

	view.Publish(s.hub, sessionID, entity.EventFacesChanged, map[string]string{"_id": id, "face_id": faceID})
	return state, nil
}

// reload fetches the full list from the backend and stores it in the
// session view, keeping the editor fields as they are.
func (s *individualService) reload(ctx context.Context, sessionID string) (entity.IndividualsViewState, error) {
	individuals, err := s.gateway.ListIndividuals(ctx)
	if err != nil {
		return entity.IndividualsViewState{}, err
	}

	state, err := s.State(ctx, sessionID)
	if err != nil {
		return entity.IndividualsViewState{}, err
	}

	state.Individuals = view.ListViews(s.gateway.Root(), individuals)
	state.UpdatedAt = time.Now()

	if err := s.store.SaveIndividualsView(ctx, sessionID, state); err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to store individuals view")
		return entity.IndividualsViewState{}, response.Wrap(individual.ErrLoadIndividuals, err)
	}

	log.WithRequestID(ctx).WithField("count", len(state.Individuals)).Debug("Individuals list reloaded")
	return state, nil
}

func (s *individualService) clearEditor(ctx context.Context, sessionID string) error {
	state, err := s.State(ctx, sessionID)
	if err != nil {
		return err
	}

	state.Editing = nil
	state.UpdatedAt = time.Now()
	if err := s.store.SaveIndividualsView(ctx, sessionID, state); err != nil {
		return response.Wrap(individual.ErrLoadIndividuals, err)
	}

	s.dialog.Hide(ctx, sessionID)
	return nil
}

// notFound turns a backend 404 on an individual route into the domain error.
func notFound(err error) error {
	if gateway.IsHTTPError(err, 404) {
		return response.Wrap(individual.ErrIndividualNotFound, err)
	}
	return err
}

func copyIndividual(ind entity.Individual) entity.Individual {
	out := ind
	if ind.Caras != nil {
		out.Caras = make([]entity.Face, len(ind.Caras))
		copy(out.Caras, ind.Caras)
	}
	return out
}
