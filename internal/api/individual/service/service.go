package individualService

import (
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/individual"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/view"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/redis"
	websocketPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IIndividualService interface {
	List(ctx context.Context, sessionID string) (entity.IndividualsViewState, error)
	State(ctx context.Context, sessionID string) (entity.IndividualsViewState, error)
	Get(ctx context.Context, id string) (entity.IndividualView, error)
	Create(ctx context.Context, sessionID string, form entity.IndividualForm) (entity.IndividualsViewState, error)
	OpenEditor(ctx context.Context, sessionID string, id string) (entity.IndividualsViewState, error)
	CancelEdit(ctx context.Context, sessionID string) (entity.IndividualsViewState, error)
	SaveEdit(ctx context.Context, sessionID string, form entity.IndividualForm) (entity.IndividualsViewState, error)
	Delete(ctx context.Context, sessionID string, id string) (entity.IndividualsViewState, error)
	Faces(ctx context.Context, id string) (*individual.FaceListResponse, error)
	AddFace(ctx context.Context, sessionID string, id string, file *entity.Upload) (entity.IndividualsViewState, error)
	DeleteFace(ctx context.Context, sessionID string, id string, faceID string) (entity.IndividualsViewState, error)
}

type individualService struct {
	log     *logrus.Logger
	gateway gateway.IGateway
	store   redis.IViewStore
	hub     websocketPkg.IHub
	dialog  view.Dialog
}

func NewIndividualService(
	log *logrus.Logger,
	gateway gateway.IGateway,
	store redis.IViewStore,
	hub websocketPkg.IHub,
	dialog view.Dialog,
) IIndividualService {
	return &individualService{
		log:     log,
		gateway: gateway,
		store:   store,
		hub:     hub,
		dialog:  dialog,
	}
}
