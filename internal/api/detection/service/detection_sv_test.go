package detectionService

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/redis"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/utils"
	websocketPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/websocket"
	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

type stubGateway struct {
	gateway.IGateway
	video *entity.DetectionVideoResult
	live  bool
	err   error
}

func (g *stubGateway) Root() string { return testRoot }

func (g *stubGateway) DetectInImage(ctx context.Context, file *entity.Upload) (*entity.DetectionImageResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &entity.DetectionImageResult{}, nil
}

func (g *stubGateway) DetectInVideo(ctx context.Context, file *entity.Upload, live bool) (*entity.DetectionVideoResult, error) {
	g.live = live
	if g.err != nil {
		return nil, g.err
	}
	return g.video, nil
}

type failingArchive struct {
	called chan string
}

func (a *failingArchive) Archive(ctx context.Context, key string, file *entity.Upload) (string, error) {
	a.called <- key
	return "", errors.New("bucket unreachable")
}

func newTestService(gw gateway.IGateway, archive *failingArchive) (IDetectionService, redis.IViewStore, websocketPkg.IHub) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := redis.NewMemory()
	hub := websocketPkg.NewHub(logger)

	var svc IDetectionService
	if archive != nil {
		svc = NewDetectionService(logger, gw, store, hub, archive, utils.New(0))
	} else {
		svc = NewDetectionService(logger, gw, store, hub, nil, utils.New(0))
	}
	return svc, store, hub
}

func TestDetectVideoReplacesState(t *testing.T) {
	gw := &stubGateway{video: &entity.DetectionVideoResult{
		IndividualsDetected: []entity.Individual{{ID: "1"}},
		DetectionFrames:     []entity.DetectionFrame{{FramePath: "f/1.jpg", Individual: entity.Individual{ID: "1"}}},
	}}
	svc, store, hub := newTestService(gw, nil)

	events, unsubscribe := hub.Subscribe("s1")
	defer unsubscribe()

	ctx := context.Background()
	if _, err := svc.DetectImage(ctx, "s1", &entity.Upload{FileName: "a.jpg", Content: []byte("x")}); err != nil {
		t.Fatal(err)
	}

	projection, err := svc.DetectVideo(ctx, "s1", &entity.Upload{FileName: "a.mp4", Content: []byte("x")}, true)
	if err != nil {
		t.Fatalf("DetectVideo failed: %v", err)
	}
	if !gw.live {
		t.Error("Expected live flag to reach the gateway")
	}
	if len(projection.Individuals[0].Frames) != 1 {
		t.Errorf("Expected grouped frame, got %+v", projection.Individuals[0])
	}

	state, _ := store.GetDetectionView(ctx, "s1")
	if state.Mode != entity.DetectionModeVideo || state.Image != nil || state.Video == nil {
		t.Errorf("Expected video state to replace image state, got %+v", state)
	}

	if e := <-events; e.Type != entity.EventImageDetectionDone {
		t.Errorf("Expected image event first, got %s", e.Type)
	}
	if e := <-events; e.Type != entity.EventVideoDetectionDone {
		t.Errorf("Expected video event second, got %s", e.Type)
	}
}

func TestDetectWithoutFile(t *testing.T) {
	svc, _, _ := newTestService(&stubGateway{}, nil)

	if _, err := svc.DetectImage(context.Background(), "s1", nil); !errors.Is(err, utils.ErrNoFile) {
		t.Errorf("Expected ErrNoFile, got %v", err)
	}
	if _, err := svc.DetectVideo(context.Background(), "s1", &entity.Upload{}, false); !errors.Is(err, utils.ErrNoFile) {
		t.Errorf("Expected ErrNoFile, got %v", err)
	}
}

func TestArchiveFailureDoesNotFailDetection(t *testing.T) {
	archive := &failingArchive{called: make(chan string, 1)}
	svc, _, _ := newTestService(&stubGateway{}, archive)

	if _, err := svc.DetectImage(context.Background(), "s1", &entity.Upload{FileName: "a.jpg", Content: []byte("x")}); err != nil {
		t.Fatalf("Expected detection to succeed, got %v", err)
	}

	select {
	case key := <-archive.called:
		if key == "" {
			t.Error("Expected an archive id")
		}
	case <-time.After(2 * time.Second):
		t.Error("Archive was never called")
	}
}

func TestDetectBackendErrorKeepsPreviousState(t *testing.T) {
	gw := &stubGateway{}
	svc, store, _ := newTestService(gw, nil)
	ctx := context.Background()

	if _, err := svc.DetectImage(ctx, "s1", &entity.Upload{FileName: "a.jpg", Content: []byte("x")}); err != nil {
		t.Fatal(err)
	}

	gw.err = &gateway.HTTPError{Status: 500}
	if _, err := svc.DetectVideo(ctx, "s1", &entity.Upload{FileName: "a.mp4", Content: []byte("x")}, false); err == nil {
		t.Fatal("Expected backend error")
	}

	state, _ := store.GetDetectionView(ctx, "s1")
	if state.Mode != entity.DetectionModeImage {
		t.Errorf("Expected image state to survive a failed detection, got %q", state.Mode)
	}
}
