package detectionHandler

import (
	"errors"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/detection"
	contextPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/context"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/handlerUtil"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/log"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *DetectionHandler) DetectImage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	file, err := ctx.FormFile("file")
	if err != nil {
		return errHandler.Handle(ctx, requestID, utils.ErrNoFile, ctx.Path(), "read_file")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Processing image detection request")

	if err := h.utils.ValidateImageFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
	}

	upload, err := h.utils.ReadUpload(file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_upload")
	}

	result, err := h.detectionService.DetectImage(c, sessionID, upload)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect_image")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *DetectionHandler) DetectVideo(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	file, err := ctx.FormFile("file")
	if err != nil {
		return errHandler.Handle(ctx, requestID, utils.ErrNoFile, ctx.Path(), "read_file")
	}

	var req detection.VideoDetectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("live must be a boolean"), ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
		"live":       req.Live,
	}).Debug("Processing video detection request")

	if err := h.utils.ValidateVideoFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_video_file")
	}

	upload, err := h.utils.ReadUpload(file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_upload")
	}

	result, err := h.detectionService.DetectVideo(c, sessionID, upload, req.Live)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect_video")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *DetectionHandler) GetState(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	state, err := h.detectionService.State(c, sessionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_detection_state")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, state)
}
