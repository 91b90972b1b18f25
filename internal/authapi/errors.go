package authapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

const fallbackErrorMessage = "An error occurred"

// APIError is returned for any non-2xx response. Message is taken from the
// error body when the server supplied one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// errorBody matches both the {code,message} envelope and the bare {msg} shape.
type errorBody struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: fallbackErrorMessage}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return apiErr
	}
	switch {
	case eb.Message != "":
		apiErr.Message = eb.Message
	case eb.Msg != "":
		apiErr.Message = eb.Msg
	}
	return apiErr
}

// ServerMessage extracts the server-supplied message from err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != fallbackErrorMessage {
		return apiErr.Message, true
	}
	return "", false
}
