package dto

import "time"

type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorResponse wraps a failed request; details carry the error text only.
func NewErrorResponse(err error) BasicResponse {
	return NewBasicResponse(false, err.Error())
}
