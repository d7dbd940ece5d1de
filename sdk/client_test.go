package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keystack/api"
	"keystack/models"
)

// stubTransport returns fixed values or a fixed error and counts calls.
type stubTransport struct {
	err error

	activation   *models.ActivationResponse
	licenseKey   *models.LicenseKey
	deactivation *models.DeactivationResponse
	manifest     models.Manifest

	mu    sync.Mutex
	calls map[string]int
	keys  []string
}

func (s *stubTransport) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[op]++
}

func (s *stubTransport) ActivateLicense(_ context.Context, _ models.ActivateLicenseRequest) (*models.ActivationResponse, error) {
	s.record(api.OpActivate)
	if s.err != nil {
		return nil, s.err
	}
	return s.activation, nil
}

func (s *stubTransport) ValidateLicense(_ context.Context, _ models.ValidateLicenseRequest) (*models.LicenseKey, error) {
	s.record(api.OpValidate)
	if s.err != nil {
		return nil, s.err
	}
	return s.licenseKey, nil
}

func (s *stubTransport) DeactivateLicense(_ context.Context, _ models.DeactivateLicenseRequest) (*models.DeactivationResponse, error) {
	s.record(api.OpDeactivate)
	if s.err != nil {
		return nil, s.err
	}
	return s.deactivation, nil
}

func (s *stubTransport) ManifestPublicRead(_ context.Context, key string) (models.Manifest, error) {
	s.record(api.OpManifest)
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.manifest, nil
}

// timeoutError mimics the net.Error a transport reports on a deadline.
type timeoutError struct{}

func (timeoutError) Error() string   { return "dial tcp 10.0.0.1:443: i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// customError is a transport-specific error type callers must never see.
type customError struct{ code int }

func (e *customError) Error() string { return fmt.Sprintf("custom failure %d", e.code) }

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("no adapter and no api key", func(t *testing.T) {
		t.Parallel()

		var c *LicenseClient
		require.NotPanics(t, func() { c = New(nil, "") })
		require.NotNil(t, c)
		assert.IsType(t, &api.LicenseAPI{}, c.transport)
	})

	t.Run("injected transport is used as is", func(t *testing.T) {
		t.Parallel()

		stub := &stubTransport{}
		c := New(nil, "", WithTransport(stub), WithBaseURL("ignored"))
		assert.Same(t, stub, c.transport)
	})
}

func TestLicenseClient_PassThrough(t *testing.T) {
	t.Parallel()

	stub := &stubTransport{
		activation:   &models.ActivationResponse{DeviceID: "dev-1", Token: "tok"},
		licenseKey:   &models.LicenseKey{LicenseKey: "ABC-123", Valid: true},
		deactivation: &models.DeactivationResponse{Deactivated: true},
		manifest:     models.Manifest{"tier": "pro"},
	}
	c := New(nil, "", WithTransport(stub))
	ctx := context.Background()

	act, err := c.ActivateLicense(ctx, models.ActivateLicenseRequest{LicenseKey: "ABC-123"})
	require.NoError(t, err)
	assert.Same(t, stub.activation, act)

	key, err := c.ValidateLicense(ctx, models.ValidateLicenseRequest{LicenseKey: "ABC-123"})
	require.NoError(t, err)
	assert.Same(t, stub.licenseKey, key)

	deact, err := c.DeactivateLicense(ctx, models.DeactivateLicenseRequest{ActivationID: "xyz"})
	require.NoError(t, err)
	assert.Same(t, stub.deactivation, deact)

	m, err := c.ManifestPublicRead(ctx, "pricing-table")
	require.NoError(t, err)
	assert.Equal(t, stub.manifest, m)
	m["mutated"] = true
	assert.Contains(t, stub.manifest, "mutated", "the same map should be returned")
}

func TestLicenseClient_Translation(t *testing.T) {
	t.Parallel()

	errs := map[string]error{
		"plain error":    errors.New("boom"),
		"custom type":    &customError{code: 7},
		"wrapped custom": fmt.Errorf("transport: %w", &customError{code: 9}),
		"timeout":        timeoutError{},
		"deadline":       context.DeadlineExceeded,
	}

	for name, cause := range errs {
		cause := cause
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := New(nil, "", WithTransport(&stubTransport{err: cause}))
			ctx := context.Background()

			_, err1 := c.ActivateLicense(ctx, models.ActivateLicenseRequest{})
			_, err2 := c.ValidateLicense(ctx, models.ValidateLicenseRequest{})
			_, err3 := c.DeactivateLicense(ctx, models.DeactivateLicenseRequest{})
			_, err4 := c.ManifestPublicRead(ctx, "k")

			for i, err := range []error{err1, err2, err3, err4} {
				apiErr, ok := AsAPIError(err)
				require.True(t, ok, "call %d should fail with *APIError", i)
				assert.Equal(t, cause.Error(), apiErr.Message)

				var custom *customError
				assert.False(t, errors.As(err, &custom), "original type must not leak")
				assert.False(t, errors.Is(err, context.DeadlineExceeded), "original error must not leak")
			}

			assert.Equal(t, api.OpActivate, mustAPIError(t, err1).Operation)
			assert.Equal(t, api.OpValidate, mustAPIError(t, err2).Operation)
			assert.Equal(t, api.OpDeactivate, mustAPIError(t, err3).Operation)
			assert.Equal(t, api.OpManifest, mustAPIError(t, err4).Operation)
		})
	}
}

func mustAPIError(t *testing.T, err error) *APIError {
	t.Helper()
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	return apiErr
}

func TestLicenseClient_APIErrorFromTransportPassesThrough(t *testing.T) {
	t.Parallel()

	orig := &APIError{Message: "already normalised", StatusCode: 409}
	c := New(nil, "", WithTransport(&stubTransport{err: orig}))

	_, err := c.ValidateLicense(context.Background(), models.ValidateLicenseRequest{})

	apiErr := mustAPIError(t, err)
	assert.Equal(t, "already normalised", apiErr.Message)
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.Equal(t, api.OpValidate, apiErr.Operation)
	assert.Empty(t, orig.Operation, "the transport's error must not be mutated")
}

func TestLicenseClient_ManifestScenario(t *testing.T) {
	t.Parallel()

	stub := &stubTransport{manifest: models.Manifest{"tier": "pro"}}
	c := New(nil, "", WithTransport(stub))

	m, err := c.ManifestPublicRead(context.Background(), "pricing-table")

	require.NoError(t, err)
	assert.Equal(t, models.Manifest{"tier": "pro"}, m)
	assert.Equal(t, []string{"pricing-table"}, stub.keys)
}

func TestLicenseClient_ValidateTimeoutScenario(t *testing.T) {
	t.Parallel()

	c := New(nil, "", WithTransport(&stubTransport{err: timeoutError{}}))

	_, err := c.ValidateLicense(context.Background(), models.ValidateLicenseRequest{LicenseKey: "ABC-123"})

	apiErr := mustAPIError(t, err)
	assert.Contains(t, apiErr.Message, "timeout")
	assert.True(t, apiErr.Timeout())
	assert.Contains(t, err.Error(), "validate_license failed")
}

func TestLicenseClient_DeactivateTwiceScenario(t *testing.T) {
	t.Parallel()

	stub := &stubTransport{deactivation: &models.DeactivationResponse{Deactivated: true}}
	c := New(nil, "", WithTransport(stub))
	req := models.DeactivateLicenseRequest{ActivationID: "xyz"}

	first, err := c.DeactivateLicense(context.Background(), req)
	require.NoError(t, err)
	second, err := c.DeactivateLicense(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, first.Deactivated)
	assert.True(t, second.Deactivated)
	assert.Equal(t, 2, stub.calls[api.OpDeactivate])
}

func TestLicenseClient_HTTPErrorsBecomeAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse("License not found", nil))
	}))
	t.Cleanup(server.Close)

	c := New(nil, "key", WithBaseURL(server.URL))
	_, err := c.ValidateLicense(context.Background(), models.ValidateLicenseRequest{LicenseKey: "missing"})

	apiErr := mustAPIError(t, err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "License not found", apiErr.Message)
	require.IsType(t, models.APIResponse{}, apiErr.Details)
	assert.Equal(t, models.StatusError, apiErr.Details.(models.APIResponse).Status)

	var httpErr *api.Error
	assert.False(t, errors.As(err, &httpErr), "transport error type must not leak")
}

func TestLicenseClient_ValidationErrorsBecomeAPIError(t *testing.T) {
	t.Parallel()

	c := New(nil, "", WithBaseURL("http://127.0.0.1:1"))
	_, err := c.ActivateLicense(context.Background(), models.ActivateLicenseRequest{})

	apiErr := mustAPIError(t, err)
	assert.Zero(t, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "invalid request")

	details, ok := apiErr.Details.(map[string]any)
	require.True(t, ok)
	fields, ok := details["fields"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "required", fields["ActivateLicenseRequest.license_key"])
	assert.Equal(t, "required", fields["ActivateLicenseRequest.device_info"])
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "activate_license failed (status 403): License has expired",
		(&APIError{Operation: "activate_license", StatusCode: 403, Message: "License has expired"}).Error())
	assert.Equal(t, "manifest_public_read failed: connection refused",
		(&APIError{Operation: "manifest_public_read", Message: "connection refused"}).Error())

	assert.True(t, IsAPIError(fmt.Errorf("wrapped: %w", &APIError{})))
	assert.False(t, IsAPIError(errors.New("plain")))
	assert.False(t, (&APIError{}).Timeout())
}
