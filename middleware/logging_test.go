package middleware

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keystack/logger"
)

func TestGetLogLevelForStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, logger.DEBUG, getLogLevelForStatus(http.StatusOK))
	assert.Equal(t, logger.DEBUG, getLogLevelForStatus(http.StatusCreated))
	assert.Equal(t, logger.WARN, getLogLevelForStatus(http.StatusForbidden))
	assert.Equal(t, logger.ERROR, getLogLevelForStatus(http.StatusBadGateway))
}

func TestDescribeAuth(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	assert.Equal(t, "none", describeAuth(h))

	h.Set(HeaderAPIKey, "k")
	assert.Equal(t, "api_key", describeAuth(h))

	h.Set("Authorization", "Bearer t")
	assert.Equal(t, "bearer+api_key", describeAuth(h))

	h.Del(HeaderAPIKey)
	assert.Equal(t, "bearer", describeAuth(h))
}

func TestLogRequest_ResolvesPathParams(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Output: &buf})

	client := resty.New()
	r := client.R().
		SetHeader(HeaderRequestID, "req-1").
		SetPathParams(map[string]string{"key": "pricing table/v2"})
	r.Method = http.MethodGet
	r.URL = "/api/manifest/public/{key}"

	require.NoError(t, LogRequest(log)(client, r))

	out := buf.String()
	assert.Contains(t, out, "path=/api/manifest/public/pricing%20table%2Fv2")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "auth=none")
	assert.NotContains(t, out, "{key}")
}
