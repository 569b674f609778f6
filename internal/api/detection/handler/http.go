package detectionHandler

import (
	"time"

	detectionService "github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/detection/service"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/middleware"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DetectionHandler struct {
	log              *logrus.Logger
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
	utils            utils.IUtils
	timeout          time.Duration
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	ds detectionService.IDetectionService,
	utils utils.IUtils,
	timeout time.Duration,
) *DetectionHandler {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &DetectionHandler{
		detectionService: ds,
		log:              log,
		middleware:       middleware,
		utils:            utils,
		timeout:          timeout,
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	detection := srv.Group("/deteccion")

	detection.Post("/imagen", h.middleware.NewRateLimiter, h.DetectImage)
	detection.Post("/video", h.middleware.NewRateLimiter, h.DetectVideo)
	detection.Get("/estado", h.GetState)
}
