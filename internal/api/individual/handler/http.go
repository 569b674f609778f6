package individualHandler

import (
	"time"

	individualService "github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/individual/service"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/middleware"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type IndividualHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	individualService individualService.IIndividualService
	utils             utils.IUtils
	timeout           time.Duration
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	is individualService.IIndividualService,
	utils utils.IUtils,
	timeout time.Duration,
) *IndividualHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &IndividualHandler{
		log:               log,
		validator:         validate,
		middleware:        middleware,
		individualService: is,
		utils:             utils,
		timeout:           timeout,
	}
}

func (h *IndividualHandler) Start(srv fiber.Router) {
	individuals := srv.Group("/individuos")

	individuals.Get("", h.ListIndividuals)
	individuals.Get("/estado", h.GetState)
	individuals.Post("", h.middleware.NewRateLimiter, h.CreateIndividual)

	// Editor dialog
	individuals.Delete("/editor", h.CancelEdit)
	individuals.Post("/:id/editar", h.OpenEditor)

	individuals.Get("/:id", h.GetIndividual)
	individuals.Put("/:id", h.middleware.NewRateLimiter, h.SaveEdit)
	individuals.Delete("/:id", h.middleware.NewRateLimiter, h.DeleteIndividual)

	// Faces
	individuals.Get("/:id/caras", h.ListFaces)
	individuals.Post("/:id/caras", h.middleware.NewRateLimiter, h.AddFace)
	individuals.Delete("/:id/caras/:caraId", h.middleware.NewRateLimiter, h.DeleteFace)
}
