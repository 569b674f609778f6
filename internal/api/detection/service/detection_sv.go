package detectionService

import (
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/detection"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/view"
	contextPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/context"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/log"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/response"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const archiveTimeout = 30 * time.Second

func (s *detectionService) DetectImage(ctx context.Context, sessionID string, file *entity.Upload) (*entity.ImageProjection, error) {
	if file == nil || len(file.Content) == 0 {
		return nil, utils.ErrNoFile
	}

	s.archiveUpload(ctx, file)

	result, err := s.gateway.DetectInImage(ctx, file)
	if err != nil {
		return nil, err
	}

	projection := ProjectImage(s.gateway.Root(), *result)

	state := entity.DetectionViewState{
		Mode:      entity.DetectionModeImage,
		Image:     &projection,
		UpdatedAt: time.Now(),
	}
	if err := s.store.SaveDetectionView(ctx, sessionID, state); err != nil {
		return nil, response.Wrap(detection.ErrStoreDetection, err)
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"file_name":   file.FileName,
		"individuals": len(projection.Individuals),
		"objects":     len(projection.Objects),
	}).Info("Image detection completed")

	view.Publish(s.hub, sessionID, entity.EventImageDetectionDone, projection)
	return &projection, nil
}

func (s *detectionService) DetectVideo(ctx context.Context, sessionID string, file *entity.Upload, live bool) (*entity.VideoProjection, error) {
	if file == nil || len(file.Content) == 0 {
		return nil, utils.ErrNoFile
	}

	s.archiveUpload(ctx, file)

	result, err := s.gateway.DetectInVideo(ctx, file, live)
	if err != nil {
		return nil, err
	}

	projection := ProjectVideo(s.gateway.Root(), *result)

	state := entity.DetectionViewState{
		Mode:      entity.DetectionModeVideo,
		Video:     &projection,
		UpdatedAt: time.Now(),
	}
	if err := s.store.SaveDetectionView(ctx, sessionID, state); err != nil {
		return nil, response.Wrap(detection.ErrStoreDetection, err)
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"file_name":   file.FileName,
		"live":        live,
		"individuals": len(projection.Individuals),
		"frames":      len(projection.Frames),
	}).Info("Video detection completed")

	view.Publish(s.hub, sessionID, entity.EventVideoDetectionDone, projection)
	return &projection, nil
}

func (s *detectionService) State(ctx context.Context, sessionID string) (entity.DetectionViewState, error) {
	return s.store.GetDetectionView(ctx, sessionID)
}

// archiveUpload copies the media to the archive in the background. Its
// outcome never changes the detection result.
func (s *detectionService) archiveUpload(ctx context.Context, file *entity.Upload) {
	if s.archive == nil {
		return
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to generate archive id")
		return
	}

	requestID := contextPkg.GetRequestID(ctx)

	go func() {
		c, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), archiveTimeout)
		defer cancel()

		location, err := s.archive.Archive(c, id, file)
		entry := s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"archive_id": id,
			"file_name":  file.FileName,
		})
		if err != nil {
			entry.WithField("error", err.Error()).Warn("Failed to archive detection media")
			return
		}
		entry.WithField("location", location).Debug("Detection media archived")
	}()
}
