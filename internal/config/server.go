package config

import (
	"fmt"
	"time"

	detectionHandler "github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/detection/handler"
	detectionService "github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/detection/service"
	eventsHandler "github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/events/handler"
	individualHandler "github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/individual/handler"
	individualService "github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/individual/service"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/middleware"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/view"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/redis"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/s3"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/utils"
	websocketPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	cfg        AppConfig
	log        *logrus.Logger
	middleware middleware.Middleware
	validator  *validator.Validate
	utils      utils.IUtils
	handlers   []handler
	gateway    gateway.IGateway
	viewStore  redis.IViewStore
	eventHub   websocketPkg.IHub
	archive    s3.ItfArchive
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.gateway == nil {
		return nil, fmt.Errorf("backend gateway is required")
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log)
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New(server.cfg.MaxUploadBytes)
	}
	if server.viewStore == nil {
		server.viewStore = redis.NewMemory()
	}
	if server.eventHub == nil {
		server.eventHub = websocketPkg.NewHub(server.log)
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithConfig(cfg AppConfig) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithGateway(gw gateway.IGateway) ServerOption {
	return func(s *Server) error {
		s.gateway = gw
		return nil
	}
}

// WithViewStore uses Redis when an address is configured and the in-memory
// store otherwise.
func WithViewStore() ServerOption {
	return func(s *Server) error {
		if s.cfg.RedisAddress == "" {
			if s.log != nil {
				s.log.Info("REDIS_ADDRESS not set, keeping view state in memory")
			}
			s.viewStore = redis.NewMemory()
			return nil
		}
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the view store")
		}
		s.viewStore = redis.New(redis.Options{
			Addr:     s.cfg.RedisAddress,
			Password: s.cfg.RedisPassword,
			DB:       s.cfg.RedisDB,
			TTL:      s.cfg.ViewStateTTL,
		}, s.log)
		return nil
	}
}

func WithEventHub(hub websocketPkg.IHub) ServerOption {
	return func(s *Server) error {
		s.eventHub = hub
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

// WithS3Archive enables the media archive when a bucket is configured. A
// client that cannot be built is logged and the archive stays disabled.
func WithS3Archive() ServerOption {
	return func(s *Server) error {
		if s.cfg.AWSBucketName == "" {
			return nil
		}
		client, err := s3.New(s3.Options{
			Region:          s.cfg.AWSRegion,
			AccessKeyID:     s.cfg.AWSAccessKeyID,
			SecretAccessKey: s.cfg.AWSSecretAccessKey,
			BucketName:      s.cfg.AWSBucketName,
		})
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 archive: %v", err)
			}
			return nil
		}
		s.archive = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New(s.cfg.MaxUploadBytes)
		return nil
	}
}

func (s *Server) RegisterHandler() {
	dialog := view.NewEditorDialog(s.viewStore, s.eventHub, s.log)

	// Individuals
	individualServices := individualService.NewIndividualService(s.log, s.gateway, s.viewStore, s.eventHub, dialog)
	individualHandlers := individualHandler.New(s.log, s.validator, s.middleware, individualServices, s.utils, s.cfg.RequestTimeout)

	// Detection
	detectionServices := detectionService.NewDetectionService(s.log, s.gateway, s.viewStore, s.eventHub, s.archive, s.utils)
	detectionHandlers := detectionHandler.New(s.log, s.middleware, detectionServices, s.utils, s.cfg.DetectionTimeout)

	// View events
	eventsHandlers := eventsHandler.New(s.log, s.middleware, s.eventHub)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, individualHandlers, detectionHandlers, eventsHandlers)
}

// Mount installs the middleware chain and the routes without listening, so
// tests can drive the app with fiber's App.Test.
func (s *Server) Mount() *fiber.App {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewSessionMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}

	return s.engine
}

func (s *Server) Run() error {
	s.Mount()

	port := s.cfg.Port
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.eventHub.Close()
	return s.engine.ShutdownWithTimeout(timeout)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"backend": s.gateway.Root(),
		})
	})
}
