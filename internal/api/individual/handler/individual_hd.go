package individualHandler

import (
	"errors"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/individual"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	contextPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/context"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/handlerUtil"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *IndividualHandler) ListIndividuals(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"path":       ctx.Path(),
	}).Debug("Processing list individuals request")

	state, err := h.individualService.List(c, sessionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_individuals")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, individual.IndividualListResponse{
			Individuals: state.Individuals,
			Total:       len(state.Individuals),
		})
	}
}

func (h *IndividualHandler) GetState(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	state, err := h.individualService.State(c, sessionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_individuals_state")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, state)
}

func (h *IndividualHandler) GetIndividual(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("individual ID is required"), ctx.Path())
	}

	result, err := h.individualService.Get(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_individual")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *IndividualHandler) CreateIndividual(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"path":       ctx.Path(),
	}).Debug("Processing create individual request")

	var req individual.IndividualFormRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	// Reference photo is optional
	photo, err := h.optionalPhoto(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_photo")
	}

	state, err := h.individualService.Create(c, sessionID, req.ToForm(photo))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_individual")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, state)
	}
}

func (h *IndividualHandler) OpenEditor(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("individual ID is required"), ctx.Path())
	}

	state, err := h.individualService.OpenEditor(c, sessionID, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_editor")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, state)
}

func (h *IndividualHandler) CancelEdit(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	state, err := h.individualService.CancelEdit(c, sessionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "cancel_edit")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, state)
}

func (h *IndividualHandler) SaveEdit(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"path":       ctx.Path(),
	}).Debug("Processing save individual request")

	var req individual.IndividualFormRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	req.ID = ctx.Params("id")

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	photo, err := h.optionalPhoto(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_photo")
	}

	state, err := h.individualService.SaveEdit(c, sessionID, req.ToForm(photo))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_individual")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, state)
	}
}

func (h *IndividualHandler) DeleteIndividual(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("individual ID is required"), ctx.Path())
	}

	state, err := h.individualService.Delete(c, sessionID, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_individual")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, state)
	}
}

func (h *IndividualHandler) ListFaces(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	faces, err := h.individualService.Faces(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_faces")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, faces)
	}
}

func (h *IndividualHandler) AddFace(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	file, err := ctx.FormFile("file")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("file is required"), ctx.Path())
	}

	if err := h.utils.ValidateImageFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
	}

	upload, err := h.utils.ReadUpload(file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_upload")
	}

	state, err := h.individualService.AddFace(c, sessionID, ctx.Params("id"), upload)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "add_face")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, state)
	}
}

func (h *IndividualHandler) DeleteFace(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	state, err := h.individualService.DeleteFace(c, sessionID, ctx.Params("id"), ctx.Params("caraId"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_face")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, state)
	}
}

// optionalPhoto returns nil when the form carries no "file" part.
func (h *IndividualHandler) optionalPhoto(ctx *fiber.Ctx) (*entity.Upload, error) {
	file, err := ctx.FormFile("file")
	if err != nil {
		return nil, nil
	}

	if err := h.utils.ValidateImageFile(file); err != nil {
		return nil, err
	}

	return h.utils.ReadUpload(file)
}
