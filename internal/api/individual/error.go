package individual

import "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/response"

var (
	ErrIndividualNotFound   = response.NewError(404, "individual not found")
	ErrFaceNotFound         = response.NewError(404, "face not found")
	ErrNoIndividualSelected = response.NewError(409, "no individual is being edited")
	ErrInvalidIndividualID  = response.NewError(400, "individual id is required")
	ErrInvalidFaceID        = response.NewError(400, "face id is required")
	ErrLoadIndividuals      = response.NewError(500, "failed to store individuals view")
)
