package eventsHandler

import (
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/middleware"
	websocketPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type EventsHandler struct {
	log        *logrus.Logger
	middleware middleware.Middleware
	hub        websocketPkg.IHub
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	hub websocketPkg.IHub,
) *EventsHandler {
	return &EventsHandler{
		log:        log,
		middleware: middleware,
		hub:        hub,
	}
}

func (h *EventsHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals(sessionLocal, h.middleware.GetSessionID(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	events := srv.Group("/eventos")
	events.Use("/ws", wsMiddleware)
	events.Get("/ws", websocket.New(h.handleEvents))
}
