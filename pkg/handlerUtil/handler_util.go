package handlerUtil

import (
	"context"
	"errors"

	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/log"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/response"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return h.HandleValidationError(c, requestID, err, path)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		h.logger.WithFields(fields).Warn("Operation timed out")
		return h.HandleRequestTimeout(c)
	}

	// Domain errors win over the backend status they were mapped from
	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields["code"] = respErr.Code
		if respErr.Code >= fiber.StatusInternalServerError {
			traceID := log.ErrorWithTraceID(fields, "Operation failed with error response")
			return c.Status(respErr.Code).JSON(ErrorResponse{Error: respErr.Error(), TraceID: traceID})
		}
		h.logger.WithFields(fields).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(ErrorResponse{Error: respErr.Error()})
	}

	// Backend answered with an error status
	var backendErr *gateway.HTTPError
	if errors.As(err, &backendErr) {
		fields["backend_status"] = backendErr.Status
		switch backendErr.Status {
		case fiber.StatusNotFound:
			h.logger.WithFields(fields).Warn("Backend resource not found")
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: backendMessage(backendErr),
				Code:  "NOT_FOUND",
			})
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			h.logger.WithFields(fields).Warn("Backend rejected the request")
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: backendMessage(backendErr),
				Code:  "BACKEND_REJECTED",
			})
		default:
			h.logger.WithFields(fields).Error("Backend failed")
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Error: backendMessage(backendErr),
				Code:  "BACKEND_ERROR",
			})
		}
	}

	if errors.Is(err, gateway.ErrBackendUnavailable) {
		h.logger.WithFields(fields).Error("Backend unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: gateway.ErrBackendUnavailable.Error(),
			Code:  "BACKEND_UNAVAILABLE",
		})
	}

	if errors.Is(err, gateway.ErrInvalidResponse) {
		h.logger.WithFields(fields).Error("Backend answered with an unreadable body")
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: gateway.ErrInvalidResponse.Error(),
			Code:  "BACKEND_INVALID_RESPONSE",
		})
	}

	traceID := log.ErrorWithTraceID(fields, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "An unexpected error occurred",
		TraceID: traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ErrorResponse{
		Error: utils.StatusMessage(fiber.StatusRequestTimeout),
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}

func backendMessage(err *gateway.HTTPError) string {
	if err.Message != "" {
		return err.Message
	}
	return err.Error()
}
