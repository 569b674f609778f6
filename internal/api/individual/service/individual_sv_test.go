package individualService

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/individual"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/view"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/redis"
	websocketPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const root = "http://backend:5000"

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// fakeGateway keeps individuals in memory and counts list calls.
type fakeGateway struct {
	gateway.IGateway

	mu          sync.Mutex
	individuals []entity.Individual
	listCalls   int
	deleted     []string
	updated     []entity.IndividualForm
	created     []entity.IndividualForm
	faces       map[string][]entity.Face
	err         error
}

func (g *fakeGateway) Root() string { return root }

func (g *fakeGateway) ListIndividuals(ctx context.Context) ([]entity.Individual, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.err != nil {
		return nil, g.err
	}
	out := make([]entity.Individual, len(g.individuals))
	copy(out, g.individuals)
	return out, nil
}

func (g *fakeGateway) GetIndividual(ctx context.Context, id string) (entity.Individual, error) {
	for _, ind := range g.individuals {
		if ind.ID == id {
			return ind, nil
		}
	}
	return entity.Individual{}, &gateway.HTTPError{Status: 404}
}

func (g *fakeGateway) CreateIndividualWithFace(ctx context.Context, form entity.IndividualForm) (jsoniter.RawMessage, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.created = append(g.created, form)
	g.individuals = append(g.individuals, entity.Individual{ID: "new", Nombre: form.Nombre})
	return jsoniter.RawMessage(`{"_id":"new"}`), nil
}

func (g *fakeGateway) UpdateIndividualWithFace(ctx context.Context, form entity.IndividualForm) (jsoniter.RawMessage, error) {
	g.updated = append(g.updated, form)
	for i := range g.individuals {
		if g.individuals[i].ID == form.ID {
			g.individuals[i].Nombre = form.Nombre
		}
	}
	return jsoniter.RawMessage(`{}`), nil
}

func (g *fakeGateway) DeleteIndividual(ctx context.Context, id string) (jsoniter.RawMessage, error) {
	g.deleted = append(g.deleted, id)
	kept := g.individuals[:0]
	for _, ind := range g.individuals {
		if ind.ID != id {
			kept = append(kept, ind)
		}
	}
	g.individuals = kept
	return jsoniter.RawMessage(`{}`), nil
}

func (g *fakeGateway) ListFaces(ctx context.Context, id string) ([]entity.Face, error) {
	return g.faces[id], nil
}

func (g *fakeGateway) AddFace(ctx context.Context, id string, file *entity.Upload) (jsoniter.RawMessage, error) {
	return jsoniter.RawMessage(`{}`), nil
}

func (g *fakeGateway) DeleteFace(ctx context.Context, faceID, id string) (jsoniter.RawMessage, error) {
	return nil, &gateway.HTTPError{Status: 404}
}

type recordingDialog struct {
	view.Dialog
	shown  []interface{}
	hidden int
}

func (d *recordingDialog) Show(ctx context.Context, sessionID string, payload interface{}) {
	d.Dialog.Show(ctx, sessionID, payload)
	d.shown = append(d.shown, payload)
}

func (d *recordingDialog) Hide(ctx context.Context, sessionID string) {
	d.Dialog.Hide(ctx, sessionID)
	d.hidden++
}

type fixture struct {
	svc    IIndividualService
	gw     *fakeGateway
	store  redis.IViewStore
	hub    websocketPkg.IHub
	dialog *recordingDialog
}

func newFixture(individuals ...entity.Individual) *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	gw := &fakeGateway{individuals: individuals, faces: map[string][]entity.Face{}}
	store := redis.NewMemory()
	hub := websocketPkg.NewHub(logger)
	dialog := &recordingDialog{Dialog: view.NewEditorDialog(store, hub, logger)}

	return &fixture{
		svc:    NewIndividualService(logger, gw, store, hub, dialog),
		gw:     gw,
		store:  store,
		hub:    hub,
		dialog: dialog,
	}
}

func TestListProjectsFaceURLs(t *testing.T) {
	f := newFixture(entity.Individual{
		ID:     "1",
		Nombre: "Ana",
		Caras:  []entity.Face{{ID: "c1", Path: "/caras/c1.jpg"}, {ID: "c2", Path: "https://cdn/c2.jpg"}},
	})

	events, unsubscribe := f.hub.Subscribe("s1")
	defer unsubscribe()

	state, err := f.svc.List(context.Background(), "s1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(state.Individuals) != 1 {
		t.Fatalf("Expected 1 individual, got %d", len(state.Individuals))
	}
	urls := state.Individuals[0].FaceURLs
	if len(urls) != 2 || urls[0] != root+"/caras/c1.jpg" || urls[1] != "https://cdn/c2.jpg" {
		t.Errorf("Unexpected face urls %v", urls)
	}

	stored, _ := f.store.GetIndividualsView(context.Background(), "s1")
	if len(stored.Individuals) != 1 {
		t.Error("Expected the list to be stored in the session view")
	}

	if event := <-events; event.Type != entity.EventIndividualsLoaded {
		t.Errorf("Expected %s event, got %s", entity.EventIndividualsLoaded, event.Type)
	}
}

func TestDeleteUnknownIDReloadsList(t *testing.T) {
	f := newFixture(entity.Individual{ID: "1", Nombre: "Ana"})
	ctx := context.Background()

	if _, err := f.svc.List(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	callsBefore := f.gw.listCalls

	state, err := f.svc.Delete(ctx, "s1", "does-not-exist")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(f.gw.deleted) != 1 || f.gw.deleted[0] != "does-not-exist" {
		t.Errorf("Expected delete to reach the backend, got %v", f.gw.deleted)
	}
	if f.gw.listCalls != callsBefore+1 {
		t.Errorf("Expected one list reload, got %d", f.gw.listCalls-callsBefore)
	}
	if len(state.Individuals) != 1 {
		t.Errorf("Expected list to still hold Ana, got %+v", state.Individuals)
	}
}

func TestDeleteRemovesFromList(t *testing.T) {
	f := newFixture(entity.Individual{ID: "1"}, entity.Individual{ID: "2"})

	state, err := f.svc.Delete(context.Background(), "s1", "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Individuals) != 1 || state.Individuals[0].ID != "2" {
		t.Errorf("Unexpected list after delete: %+v", state.Individuals)
	}
}

func TestCreateReloadsList(t *testing.T) {
	f := newFixture()

	state, err := f.svc.Create(context.Background(), "s1", entity.IndividualForm{Nombre: "Eva"})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.gw.created) != 1 || f.gw.listCalls != 1 {
		t.Errorf("Expected one create and one reload, got %d and %d", len(f.gw.created), f.gw.listCalls)
	}
	if len(state.Individuals) != 1 || state.Individuals[0].Nombre != "Eva" {
		t.Errorf("Unexpected list after create: %+v", state.Individuals)
	}
}

func TestCreateBackendErrorIsReturned(t *testing.T) {
	f := newFixture()
	f.gw.err = &gateway.HTTPError{Status: 500, Message: "boom"}

	_, err := f.svc.Create(context.Background(), "s1", entity.IndividualForm{Nombre: "Eva"})
	if !gateway.IsHTTPError(err, 500) {
		t.Errorf("Expected backend error, got %v", err)
	}
	if f.gw.listCalls != 0 {
		t.Error("Expected no reload after a failed create")
	}
}

func TestEditorLifecycle(t *testing.T) {
	f := newFixture(entity.Individual{ID: "1", Nombre: "Ana", Caras: []entity.Face{{ID: "c1"}}})
	ctx := context.Background()

	state, err := f.svc.OpenEditor(ctx, "s1", "1")
	if err != nil {
		t.Fatalf("OpenEditor failed: %v", err)
	}
	if !state.EditorOpen || state.Editing == nil || state.Editing.ID != "1" {
		t.Fatalf("Expected editor open on 1, got %+v", state)
	}
	if len(f.dialog.shown) != 1 {
		t.Errorf("Expected dialog shown once, got %d", len(f.dialog.shown))
	}

	// The buffer is a copy of the row
	state.Editing.Caras[0].ID = "changed"
	stored, _ := f.store.GetIndividualsView(ctx, "s1")
	if stored.Individuals[0].Caras[0].ID != "c1" {
		t.Error("Editing buffer shares memory with the list")
	}

	state, err = f.svc.SaveEdit(ctx, "s1", entity.IndividualForm{Nombre: "Ana María"})
	if err != nil {
		t.Fatalf("SaveEdit failed: %v", err)
	}
	if len(f.gw.updated) != 1 || f.gw.updated[0].ID != "1" {
		t.Errorf("Expected update of id 1 from the buffer, got %+v", f.gw.updated)
	}
	if state.EditorOpen || state.Editing != nil {
		t.Errorf("Expected editor closed after save, got %+v", state)
	}
	if state.Individuals[0].Nombre != "Ana María" {
		t.Errorf("Expected reloaded name, got %q", state.Individuals[0].Nombre)
	}
	if f.dialog.hidden != 1 {
		t.Errorf("Expected dialog hidden once, got %d", f.dialog.hidden)
	}
}

func TestCancelEdit(t *testing.T) {
	f := newFixture(entity.Individual{ID: "1"})
	ctx := context.Background()

	if _, err := f.svc.OpenEditor(ctx, "s1", "1"); err != nil {
		t.Fatal(err)
	}
	state, err := f.svc.CancelEdit(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if state.EditorOpen || state.Editing != nil {
		t.Errorf("Expected editor closed, got %+v", state)
	}
	if len(f.gw.updated) != 0 {
		t.Error("Cancel must not reach the backend")
	}
}

func TestOpenEditorUnknownID(t *testing.T) {
	f := newFixture(entity.Individual{ID: "1"})

	_, err := f.svc.OpenEditor(context.Background(), "s1", "404")
	if !errors.Is(err, individual.ErrIndividualNotFound) {
		t.Errorf("Expected ErrIndividualNotFound, got %v", err)
	}
	if len(f.dialog.shown) != 0 {
		t.Error("Dialog must stay closed for an unknown id")
	}
}

func TestSaveEditWithoutSelection(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SaveEdit(context.Background(), "s1", entity.IndividualForm{Nombre: "x"})
	if !errors.Is(err, individual.ErrNoIndividualSelected) {
		t.Errorf("Expected ErrNoIndividualSelected, got %v", err)
	}
}

func TestFaces(t *testing.T) {
	f := newFixture(entity.Individual{ID: "1"})
	f.gw.faces["1"] = []entity.Face{{ID: "c1", Path: "caras/c1.jpg"}}

	resp, err := f.svc.Faces(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Faces) != 1 || resp.Faces[0].URL != root+"/caras/c1.jpg" {
		t.Errorf("Unexpected faces %+v", resp.Faces)
	}
}

func TestGetUnknownIDIsIndividualNotFound(t *testing.T) {
	f := newFixture(entity.Individual{ID: "1"})

	_, err := f.svc.Get(context.Background(), "404")
	if !errors.Is(err, individual.ErrIndividualNotFound) {
		t.Errorf("Expected ErrIndividualNotFound, got %v", err)
	}
	if !gateway.IsHTTPError(err, 404) {
		t.Errorf("Expected the backend status to stay reachable, got %v", err)
	}
}

func TestDeleteFaceNotFound(t *testing.T) {
	f := newFixture(entity.Individual{ID: "1"})

	_, err := f.svc.DeleteFace(context.Background(), "s1", "1", "c9")
	if !errors.Is(err, individual.ErrFaceNotFound) {
		t.Errorf("Expected ErrFaceNotFound, got %v", err)
	}
}

type failingStore struct {
	redis.IViewStore
}

func (failingStore) SaveIndividualsView(ctx context.Context, sessionID string, state entity.IndividualsViewState) error {
	return errors.New("store down")
}

func TestListStoreFailureIsLoadError(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	gw := &fakeGateway{individuals: []entity.Individual{{ID: "1"}}, faces: map[string][]entity.Face{}}
	store := failingStore{IViewStore: redis.NewMemory()}
	hub := websocketPkg.NewHub(logger)
	svc := NewIndividualService(logger, gw, store, hub, view.NewEditorDialog(store, hub, logger))

	_, err := svc.List(context.Background(), "s1")
	if !errors.Is(err, individual.ErrLoadIndividuals) {
		t.Errorf("Expected ErrLoadIndividuals, got %v", err)
	}
}
