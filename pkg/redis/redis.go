package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "console:view"

type viewKind string

const (
	individualsView viewKind = "individuos"
	detectionView   viewKind = "deteccion"
)

// IViewStore keeps the state of each operator view, keyed by session id.
// A session with no stored state reads as the zero state.
type IViewStore interface {
	GetIndividualsView(ctx context.Context, sessionID string) (entity.IndividualsViewState, error)
	SaveIndividualsView(ctx context.Context, sessionID string, state entity.IndividualsViewState) error
	GetDetectionView(ctx context.Context, sessionID string) (entity.DetectionViewState, error)
	SaveDetectionView(ctx context.Context, sessionID string, state entity.DetectionViewState) error
}

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type redisClient struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func New(opts Options, log *logrus.Logger) IViewStore {
	log.Info(fmt.Sprintf("Connecting to Redis at %s...", opts.Addr))

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		log.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client, ttl: opts.TTL, log: log}
}

func (r *redisClient) GetIndividualsView(ctx context.Context, sessionID string) (entity.IndividualsViewState, error) {
	var state entity.IndividualsViewState
	err := r.get(ctx, key(individualsView, sessionID), &state)
	return state, err
}

func (r *redisClient) SaveIndividualsView(ctx context.Context, sessionID string, state entity.IndividualsViewState) error {
	return r.set(ctx, key(individualsView, sessionID), state)
}

func (r *redisClient) GetDetectionView(ctx context.Context, sessionID string) (entity.DetectionViewState, error) {
	var state entity.DetectionViewState
	err := r.get(ctx, key(detectionView, sessionID), &state)
	return state, err
}

func (r *redisClient) SaveDetectionView(ctx context.Context, sessionID string, state entity.DetectionViewState) error {
	return r.set(ctx, key(detectionView, sessionID), state)
}

func (r *redisClient) get(ctx context.Context, k string, out interface{}) error {
	r.log.Debug(fmt.Sprintf("Getting view state for key %s", k))
	val, err := r.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	} else if err != nil {
		r.log.Error(fmt.Sprintf("Error getting view state for key %s: %v", k, err))
		return err
	}
	return jsoniter.Unmarshal(val, out)
}

func (r *redisClient) set(ctx context.Context, k string, state interface{}) error {
	val, err := jsoniter.Marshal(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, k, val, r.ttl).Err(); err != nil {
		r.log.Error(fmt.Sprintf("Error setting view state for key %s: %v", k, err))
		return err
	}
	r.log.Debug(fmt.Sprintf("Successfully set view state for key %s", k))
	return nil
}

func key(kind viewKind, sessionID string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, kind, sessionID)
}

// memoryStore is the store used when no Redis address is configured.
type memoryStore struct {
	mu          sync.RWMutex
	individuals map[string]entity.IndividualsViewState
	detections  map[string]entity.DetectionViewState
}

func NewMemory() IViewStore {
	return &memoryStore{
		individuals: make(map[string]entity.IndividualsViewState),
		detections:  make(map[string]entity.DetectionViewState),
	}
}

func (m *memoryStore) GetIndividualsView(_ context.Context, sessionID string) (entity.IndividualsViewState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.individuals[sessionID], nil
}

func (m *memoryStore) SaveIndividualsView(_ context.Context, sessionID string, state entity.IndividualsViewState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.individuals[sessionID] = state
	return nil
}

func (m *memoryStore) GetDetectionView(_ context.Context, sessionID string) (entity.DetectionViewState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.detections[sessionID], nil
}

func (m *memoryStore) SaveDetectionView(_ context.Context, sessionID string, state entity.DetectionViewState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detections[sessionID] = state
	return nil
}
