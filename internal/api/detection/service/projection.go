package detectionService

import (
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
)

// ProjectImage builds the image view from a detection response. The
// annotated image path is always prefixed with root; an empty path means
// there is no image.
func ProjectImage(root string, result entity.DetectionImageResult) entity.ImageProjection {
	projection := entity.ImageProjection{
		Individuals: result.IndividualsDetected,
		Objects:     result.Objects,
	}
	if projection.Individuals == nil {
		projection.Individuals = []entity.Individual{}
	}
	if projection.Objects == nil {
		projection.Objects = []entity.DetectedObject{}
	}

	if result.DetectionImage != nil && *result.DetectionImage != "" {
		url := gateway.JoinRoot(root, *result.DetectionImage)
		projection.DetectedImageURL = &url
	}

	return projection
}

// ProjectVideo makes every frame path absolute and attaches to each detected
// individual the frames whose individual has the same id.
func ProjectVideo(root string, result entity.DetectionVideoResult) entity.VideoProjection {
	frames := make([]entity.DetectionFrame, 0, len(result.DetectionFrames))
	for _, frame := range result.DetectionFrames {
		frames = append(frames, entity.DetectionFrame{
			FramePath:  gateway.AbsoluteURL(root, frame.FramePath),
			Individual: frame.Individual,
		})
	}

	individuals := make([]entity.IndividualWithFrames, 0, len(result.IndividualsDetected))
	for _, ind := range result.IndividualsDetected {
		matched := make([]entity.DetectionFrame, 0)
		for _, frame := range frames {
			if frame.Individual.ID == ind.ID {
				matched = append(matched, frame)
			}
		}

		individuals = append(individuals, entity.IndividualWithFrames{
			Individual: ind,
			Frames:     matched,
			FaceURLs:   []string{},
		})
	}

	objects := result.Objects
	if objects == nil {
		objects = []entity.DetectedObject{}
	}

	return entity.VideoProjection{
		Individuals: individuals,
		Frames:      frames,
		Objects:     objects,
	}
}
