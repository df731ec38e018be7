package dto

type JobStatusRequest struct {
	Status string `json:"status"`
}
