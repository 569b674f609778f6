package detectionService

import (
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/redis"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/s3"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/utils"
	websocketPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IDetectionService interface {
	DetectImage(ctx context.Context, sessionID string, file *entity.Upload) (*entity.ImageProjection, error)
	DetectVideo(ctx context.Context, sessionID string, file *entity.Upload, live bool) (*entity.VideoProjection, error)
	State(ctx context.Context, sessionID string) (entity.DetectionViewState, error)
}

type detectionService struct {
	log     *logrus.Logger
	gateway gateway.IGateway
	store   redis.IViewStore
	hub     websocketPkg.IHub
	archive s3.ItfArchive
	utils   utils.IUtils
}

// NewDetectionService wires the detection view. archive may be nil, in which
// case submitted media is not kept.
func NewDetectionService(
	log *logrus.Logger,
	gateway gateway.IGateway,
	store redis.IViewStore,
	hub websocketPkg.IHub,
	archive s3.ItfArchive,
	utils utils.IUtils,
) IDetectionService {
	return &detectionService{
		log:     log,
		gateway: gateway,
		store:   store,
		hub:     hub,
		archive: archive,
		utils:   utils,
	}
}
