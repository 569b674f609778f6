package middleware

import (
	"strings"
	"time"

	contextPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/context"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/log"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// LoggerConfig writes one access log line per request.
func LoggerConfig(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, ok := c.Locals(contextPkg.RequestIDLocal).(string)
		if !ok || requestID == "" {
			requestID = "unknown"
		}
		sessionID, ok := c.Locals(contextPkg.SessionIDLocal).(string)
		if !ok || sessionID == "" {
			sessionID = "unknown"
		}

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		logFields := log.Fields{
			"request_id":    requestID,
			"session_id":    sessionID,
			"method":        c.Method(),
			"path":          c.Path(),
			"status":        status,
			"latency_ms":    latency.Milliseconds(),
			"ip":            c.IP(),
			"user_agent":    c.Get(fiber.HeaderUserAgent),
			"response_size": len(c.Response().Body()),
		}

		if body := requestBodySummary(c); body != "" {
			logFields["request_body"] = body
		}

		entry := logger.WithFields(logFields)
		switch {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Success")
		}

		return err
	}
}

// requestBodySummary never logs uploaded media, only small JSON bodies.
func requestBodySummary(c *fiber.Ctx) string {
	body := c.Request().Body()
	if len(body) == 0 {
		return ""
	}

	contentType := string(c.Request().Header.ContentType())
	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return "[multipart body]"
	}

	if !jsoniter.Valid(body) {
		return "[non-JSON body]"
	}
	if len(body) > 2048 {
		return "[large JSON body]"
	}

	return string(body)
}
