package detection

type VideoDetectionRequest struct {
	Live bool `json:"live" form:"live"`
}
