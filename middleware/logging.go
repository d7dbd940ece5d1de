package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"keystack/logger"
)

// Request headers set on every outgoing call.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderAPIKey    = "X-API-Key"
)

// LogRequest HTTP 요청 로깅 훅
func LogRequest(log *logger.Logger) resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		log.WithFields(map[string]interface{}{
			"request_id": r.Header.Get(HeaderRequestID),
			"method":     r.Method,
			"path":       resolvePath(r),
			"auth":       describeAuth(r.Header),
		}).Debug("HTTP Request")
		return nil
	}
}

// LogResponse HTTP 응답 로깅 훅
func LogResponse(log *logger.Logger) resty.ResponseMiddleware {
	return func(_ *resty.Client, resp *resty.Response) error {
		fields := map[string]interface{}{
			"status":      resp.StatusCode(),
			"duration_ms": resp.Time().Milliseconds(),
			"size":        resp.Size(),
		}
		if r := resp.Request; r != nil {
			fields["request_id"] = r.Header.Get(HeaderRequestID)
			fields["method"] = r.Method
			fields["path"] = r.URL
		}

		log.WithFields(fields).Log(getLogLevelForStatus(resp.StatusCode()), "HTTP Response")
		return nil
	}
}

// LogError logs requests that never produced a response.
func LogError(log *logger.Logger) resty.ErrorHook {
	return func(r *resty.Request, err error) {
		log.WithFields(map[string]interface{}{
			"request_id": r.Header.Get(HeaderRequestID),
			"method":     r.Method,
			"path":       r.URL,
			"error":      err.Error(),
		}).Warn("HTTP Request failed")
	}
}

// resolvePath fills path parameters into the request URL. Request hooks run
// before resty substitutes them itself.
func resolvePath(r *resty.Request) string {
	path := r.URL
	for k, v := range r.PathParams {
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}
	for k, v := range r.RawPathParams {
		path = strings.ReplaceAll(path, "{"+k+"}", v)
	}
	return path
}

// getLogLevelForStatus 상태 코드에 따른 로그 레벨 결정
func getLogLevelForStatus(statusCode int) logger.LogLevel {
	switch {
	case statusCode >= 500:
		return logger.ERROR
	case statusCode >= 400:
		return logger.WARN
	default:
		return logger.DEBUG
	}
}

// describeAuth names the credentials on a request without revealing them.
func describeAuth(h http.Header) string {
	bearer := h.Get("Authorization") != ""
	apiKey := h.Get(HeaderAPIKey) != ""
	switch {
	case bearer && apiKey:
		return "bearer+api_key"
	case bearer:
		return "bearer"
	case apiKey:
		return "api_key"
	default:
		return "none"
	}
}
