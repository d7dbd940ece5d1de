package sdk

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/go-playground/validator/v10"

	"keystack/api"
)

// APIError is the only error kind returned by LicenseClient. The original
// failure's text is kept in Message; its type is not.
type APIError struct {
	// Operation names the client call that failed.
	Operation string
	Message   string
	// StatusCode is the HTTP status when the server answered, 0 otherwise.
	StatusCode int
	// Details is an opaque payload: the decoded error envelope or raw body for
	// server failures, field errors for rejected requests, nil otherwise.
	Details any
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Timeout reports whether the message came from a deadline or network timeout.
func (e *APIError) Timeout() bool {
	d, ok := e.Details.(map[string]any)
	if !ok {
		return false
	}
	v, _ := d["timeout"].(bool)
	return v
}

// IsAPIError reports whether err is an *APIError.
func IsAPIError(err error) bool {
	_, ok := AsAPIError(err)
	return ok
}

// AsAPIError returns err as an *APIError when it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// translate turns any transport failure into an *APIError. An *APIError from
// a custom transport passes through with the operation filled in.
func translate(op string, err error) *APIError {
	if apiErr, ok := AsAPIError(err); ok {
		out := *apiErr
		if out.Operation == "" {
			out.Operation = op
		}
		return &out
	}

	out := &APIError{Operation: op, Message: err.Error()}

	var httpErr *api.Error
	var verrs validator.ValidationErrors
	var netErr net.Error
	switch {
	case errors.As(err, &httpErr):
		out.StatusCode = httpErr.StatusCode
		out.Message = httpErr.Message
		if httpErr.Response != nil {
			out.Details = *httpErr.Response
		} else if len(httpErr.Body) > 0 {
			out.Details = string(httpErr.Body)
		}
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
		}
		out.Message = "invalid request: " + verrs.Error()
		out.Details = map[string]any{"fields": fields}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		out.Details = map[string]any{"timeout": true}
	}
	return out
}
