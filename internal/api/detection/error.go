package detection

import "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/response"

var (
	ErrStoreDetection = response.NewError(500, "failed to store detection view")
)
