package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"keystack/models"
)

// Error is returned when the license server answers with a failure status or
// an error envelope.
type Error struct {
	StatusCode int
	Message    string
	// Response is the decoded error envelope, nil when the body was not one.
	Response *models.APIResponse
	Body     []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("license API error (status %d): %s", e.StatusCode, e.Message)
}

// newError builds an Error from a raw response, preferring the envelope message.
func newError(statusCode int, body []byte) *Error {
	e := &Error{StatusCode: statusCode, Body: body}

	var env models.APIResponse
	if err := json.Unmarshal(body, &env); err == nil && (env.Message != "" || env.Error != "") {
		e.Response = &env
		switch {
		case env.Message != "" && env.Error != "":
			e.Message = env.Message + ": " + env.Error
		case env.Message != "":
			e.Message = env.Message
		default:
			e.Message = env.Error
		}
		return e
	}

	e.Message = strings.TrimSpace(string(body))
	if e.Message == "" {
		e.Message = http.StatusText(statusCode)
	}
	return e
}
