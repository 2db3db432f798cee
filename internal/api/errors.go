package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is any failed call to the Numble API. Status 0 means the
// request never produced an HTTP response (network error, timeout).
type APIError struct {
	Status  int
	Code    string
	Message string

	cause error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("numble api: %s", e.Message)
	}
	return fmt.Sprintf("numble api: HTTP %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// Transient reports whether the failure is worth a fresh user-initiated
// retry: network errors and server-side 5xx are; application rejections
// (4xx, e.g. insufficient balance) are not. Both roll back identically.
func (e *APIError) Transient() bool {
	return e.Status == 0 || e.Status >= http.StatusInternalServerError
}

func decodeError(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		if payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = payload.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request failed (%d)", status)
	}
	return apiErr
}
