package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	contextPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/context"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const DefaultRoot = "http://localhost:5000"

type IGateway interface {
	Root() string

	ListIndividuals(ctx context.Context) ([]entity.Individual, error)
	GetIndividual(ctx context.Context, id string) (entity.Individual, error)
	CreateIndividual(ctx context.Context, individual entity.Individual) (jsoniter.RawMessage, error)
	CreateIndividualWithFace(ctx context.Context, form entity.IndividualForm) (jsoniter.RawMessage, error)
	UpdateIndividual(ctx context.Context, individual entity.Individual) (jsoniter.RawMessage, error)
	UpdateIndividualWithFace(ctx context.Context, form entity.IndividualForm) (jsoniter.RawMessage, error)
	DeleteIndividual(ctx context.Context, id string) (jsoniter.RawMessage, error)

	ListFaces(ctx context.Context, individualID string) ([]entity.Face, error)
	AddFace(ctx context.Context, individualID string, file *entity.Upload) (jsoniter.RawMessage, error)
	DeleteFace(ctx context.Context, faceID, individualID string) (jsoniter.RawMessage, error)

	DetectInImage(ctx context.Context, file *entity.Upload) (*entity.DetectionImageResult, error)
	DetectInVideo(ctx context.Context, file *entity.Upload, live bool) (*entity.DetectionVideoResult, error)
}

type Options struct {
	Root    string
	Timeout time.Duration
	Logger  *logrus.Logger
}

type gateway struct {
	root    string
	timeout time.Duration
	log     *logrus.Logger
}

func New(opts Options) IGateway {
	root := strings.TrimRight(opts.Root, "/")
	if root == "" {
		root = DefaultRoot
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &gateway{
		root:    root,
		timeout: opts.Timeout,
		log:     logger,
	}
}

func (g *gateway) Root() string {
	return g.root
}

func (g *gateway) ListIndividuals(ctx context.Context) ([]entity.Individual, error) {
	var individuals []entity.Individual
	if err := g.do(ctx, call{method: fiber.MethodGet, path: "consultar_individuos"}, &individuals); err != nil {
		return nil, err
	}
	if individuals == nil {
		individuals = []entity.Individual{}
	}
	return individuals, nil
}

func (g *gateway) GetIndividual(ctx context.Context, id string) (entity.Individual, error) {
	var out struct {
		Individuo entity.Individual `json:"individuo"`
	}
	if err := g.do(ctx, call{method: fiber.MethodGet, path: "consultar_individuo/" + url.PathEscape(id)}, &out); err != nil {
		return entity.Individual{}, err
	}
	if out.Individuo.ID == "" {
		out.Individuo.ID = id
	}
	return out.Individuo, nil
}

func (g *gateway) CreateIndividual(ctx context.Context, individual entity.Individual) (jsoniter.RawMessage, error) {
	var out jsoniter.RawMessage
	err := g.do(ctx, call{method: fiber.MethodPost, path: "crear_individuo", json: individual}, &out)
	return out, err
}

func (g *gateway) CreateIndividualWithFace(ctx context.Context, form entity.IndividualForm) (jsoniter.RawMessage, error) {
	var out jsoniter.RawMessage
	err := g.do(ctx, call{
		method: fiber.MethodPost,
		path:   "crear_individuo_con_cara",
		fields: []field{
			{"nombre", form.Nombre},
			{"apellido1", form.Apellido1},
			{"apellido2", form.Apellido2},
		},
		file: form.File,
	}, &out)
	return out, err
}

func (g *gateway) UpdateIndividual(ctx context.Context, individual entity.Individual) (jsoniter.RawMessage, error) {
	var out jsoniter.RawMessage
	err := g.do(ctx, call{method: fiber.MethodPut, path: "modificar_individuo", json: individual}, &out)
	return out, err
}

func (g *gateway) UpdateIndividualWithFace(ctx context.Context, form entity.IndividualForm) (jsoniter.RawMessage, error) {
	var out jsoniter.RawMessage
	err := g.do(ctx, call{
		method: fiber.MethodPut,
		path:   "modificar_individuo_con_cara",
		fields: []field{
			{"id", form.ID},
			{"nombre", form.Nombre},
			{"apellido1", form.Apellido1},
			{"apellido2", form.Apellido2},
		},
		file: form.File,
	}, &out)
	return out, err
}

func (g *gateway) DeleteIndividual(ctx context.Context, id string) (jsoniter.RawMessage, error) {
	var out jsoniter.RawMessage
	err := g.do(ctx, call{method: fiber.MethodDelete, path: "borrar_individuo/" + url.PathEscape(id)}, &out)
	return out, err
}

func (g *gateway) ListFaces(ctx context.Context, individualID string) ([]entity.Face, error) {
	var out struct {
		Caras []entity.Face `json:"caras"`
	}
	if err := g.do(ctx, call{method: fiber.MethodGet, path: "consultar_caras_individuo/" + url.PathEscape(individualID)}, &out); err != nil {
		return nil, err
	}
	if out.Caras == nil {
		out.Caras = []entity.Face{}
	}
	return out.Caras, nil
}

func (g *gateway) AddFace(ctx context.Context, individualID string, file *entity.Upload) (jsoniter.RawMessage, error) {
	var out jsoniter.RawMessage
	err := g.do(ctx, call{
		method: fiber.MethodPost,
		path:   "agregar_cara_individuo/" + url.PathEscape(individualID),
		file:   file,
	}, &out)
	return out, err
}

func (g *gateway) DeleteFace(ctx context.Context, faceID, individualID string) (jsoniter.RawMessage, error) {
	var out jsoniter.RawMessage
	err := g.do(ctx, call{
		method: fiber.MethodDelete,
		path:   "eliminar_cara/" + url.PathEscape(faceID) + "/" + url.PathEscape(individualID),
	}, &out)
	return out, err
}

func (g *gateway) DetectInImage(ctx context.Context, file *entity.Upload) (*entity.DetectionImageResult, error) {
	var out entity.DetectionImageResult
	if err := g.do(ctx, call{method: fiber.MethodPost, path: "detectar_imagen", file: file, multipart: true}, &out); err != nil {
		return nil, err
	}
	if out.IndividualsDetected == nil {
		out.IndividualsDetected = []entity.Individual{}
	}
	if out.Objects == nil {
		out.Objects = []entity.DetectedObject{}
	}
	return &out, nil
}

func (g *gateway) DetectInVideo(ctx context.Context, file *entity.Upload, live bool) (*entity.DetectionVideoResult, error) {
	c := call{method: fiber.MethodPost, path: "detectar_video", file: file, multipart: true}
	if live {
		c.fields = append(c.fields, field{"live", strconv.FormatBool(live)})
	}

	var out entity.DetectionVideoResult
	if err := g.do(ctx, c, &out); err != nil {
		return nil, err
	}
	if out.IndividualsDetected == nil {
		out.IndividualsDetected = []entity.Individual{}
	}
	if out.DetectionFrames == nil {
		out.DetectionFrames = []entity.DetectionFrame{}
	}
	if out.Objects == nil {
		out.Objects = []entity.DetectedObject{}
	}
	return &out, nil
}

type field struct {
	key   string
	value string
}

type call struct {
	method    string
	path      string
	json      interface{}
	fields    []field
	file      *entity.Upload
	multipart bool
}

func (c call) isMultipart() bool {
	return c.multipart || c.file != nil || len(c.fields) > 0
}

func (g *gateway) endpoint(path string) string {
	return g.root + "/api/" + path
}

// do sends one request and decodes the 2xx body into out. There is no retry.
func (g *gateway) do(ctx context.Context, c call, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	requestID := contextPkg.GetRequestID(ctx)
	endpoint := g.endpoint(c.path)
	start := time.Now()

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(c.method)
	req.SetRequestURI(endpoint)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	agent.JSONEncoder(jsoniter.Marshal)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if requestID != "unknown" {
		agent.Set(contextPkg.RequestIDLocal, requestID)
	}
	if timeout := g.timeoutFor(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}

	switch {
	case c.json != nil:
		agent.JSON(c.json)
	case c.isMultipart():
		if c.file != nil {
			ff := fiber.AcquireFormFile()
			ff.Fieldname = "file"
			ff.Name = c.file.FileName
			ff.Content = c.file.Content
			agent.FileData(ff)
		}
		args := fiber.AcquireArgs()
		for _, f := range c.fields {
			args.Set(f.key, f.value)
		}
		agent.MultipartForm(args)
		fiber.ReleaseArgs(args)
	}

	status, body, errs := agent.Bytes()

	entry := g.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     c.method,
		"endpoint":   endpoint,
		"status":     status,
		"latency_ms": time.Since(start).Milliseconds(),
	})

	if len(errs) > 0 {
		err := errors.Join(errs...)
		if ctxErr := contextErr(ctx); ctxErr != nil {
			entry.WithField("error", err.Error()).Warn("Backend request cut by context")
			return fmt.Errorf("backend %s %s: %w", c.method, c.path, ctxErr)
		}
		entry.WithField("error", err.Error()).Error("Backend request failed")
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if status < fiber.StatusOK || status > 299 {
		httpErr := &HTTPError{
			Status:  status,
			Message: jsoniter.Get(body, "error").ToString(),
			Body:    strings.TrimSpace(string(body)),
		}
		entry.WithField("error", httpErr.Error()).Warn("Backend answered with error status")
		return httpErr
	}

	entry.Debug("Backend request completed")

	if out == nil || len(body) == 0 {
		return nil
	}

	if err := jsoniter.Unmarshal(body, out); err != nil {
		entry.WithField("error", err.Error()).Error("Backend response could not be decoded")
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}

// timeoutFor returns the configured timeout, shortened to the context
// deadline when that comes first.
func (g *gateway) timeoutFor(ctx context.Context) time.Duration {
	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	return timeout
}

// contextErr reports why ctx ended. The agent timeout is set to the context
// deadline, so it can fire just before the context timer does.
func contextErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return nil
}
