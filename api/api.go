package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"keystack/adapter"
	"keystack/logger"
	"keystack/middleware"
	"keystack/models"
	"keystack/utils"
)

const (
	DefaultBaseURL = "https://api.keystack.app"
	DefaultTimeout = 30 * time.Second

	// TracerName identifies spans emitted by this package.
	TracerName = "keystack/api"
)

// Endpoint paths, relative to the base URL.
const (
	PathActivate   = "/api/license/activate"
	PathValidate   = "/api/license/validate"
	PathDeactivate = "/api/license/deactivate"
	PathManifest   = "/api/manifest/public/{key}"
)

// Operation names, used for spans and logs.
const (
	OpActivate   = "activate_license"
	OpValidate   = "validate_license"
	OpDeactivate = "deactivate_license"
	OpManifest   = "manifest_public_read"
)

// Config holds everything needed to build a LicenseAPI. Every field is optional.
type Config struct {
	// Adapter persists the bearer token issued on activation.
	Adapter adapter.TokenStorageAdapter
	// APIKey is sent as X-API-Key on authenticated endpoints.
	APIKey string

	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client

	Logger         *logger.Logger
	TracerProvider trace.TracerProvider
}

// LicenseAPI is the HTTP transport for the license server. It is safe for
// concurrent use as long as its adapter is.
type LicenseAPI struct {
	client   *resty.Client
	adapter  adapter.TokenStorageAdapter
	apiKey   string
	validate *validator.Validate
	log      *logger.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// Configure builds a ready-to-use transport from cfg.
func Configure(cfg Config) *LicenseAPI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 && cfg.HTTPClient == nil {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "keystack-go-sdk/" + Version
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}

	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		client = resty.New()
	}
	// A caller-supplied client keeps its own timeout unless one is set here.
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	client.
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		OnBeforeRequest(middleware.LogRequest(cfg.Logger)).
		OnAfterResponse(middleware.LogResponse(cfg.Logger)).
		OnError(middleware.LogError(cfg.Logger))

	return &LicenseAPI{
		client:   client,
		adapter:  cfg.Adapter,
		apiKey:   cfg.APIKey,
		validate: newValidator(),
		log:      cfg.Logger,
		tracer:   cfg.TracerProvider.Tracer(TracerName),
		now:      time.Now,
	}
}

// newValidator reports field errors by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ActivateLicense registers the device against the license. A token in the
// response is handed to the adapter.
func (a *LicenseAPI) ActivateLicense(ctx context.Context, in models.ActivateLicenseRequest) (*models.ActivationResponse, error) {
	var out models.ActivationResponse
	err := a.call(ctx, OpActivate, func(ctx context.Context) error {
		if err := a.validate.StructCtx(ctx, in); err != nil {
			return err
		}
		if err := a.send(ctx, http.MethodPost, PathActivate, nil, in, true, &out); err != nil {
			return err
		}
		if out.Token != "" && a.adapter != nil {
			if err := a.adapter.Store(ctx, out.Token); err != nil {
				return fmt.Errorf("failed to store activation token: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateLicense checks a license key. Credentials are sent when available;
// whether they are required is up to the server.
func (a *LicenseAPI) ValidateLicense(ctx context.Context, in models.ValidateLicenseRequest) (*models.LicenseKey, error) {
	var out models.LicenseKey
	err := a.call(ctx, OpValidate, func(ctx context.Context) error {
		if err := a.validate.StructCtx(ctx, in); err != nil {
			return err
		}
		return a.send(ctx, http.MethodPost, PathValidate, nil, in, true, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivateLicense revokes an activation and clears the stored token.
func (a *LicenseAPI) DeactivateLicense(ctx context.Context, in models.DeactivateLicenseRequest) (*models.DeactivationResponse, error) {
	// A success envelope without data still means the activation is gone.
	out := models.DeactivationResponse{Deactivated: true}
	err := a.call(ctx, OpDeactivate, func(ctx context.Context) error {
		if err := a.validate.StructCtx(ctx, in); err != nil {
			return err
		}
		if err := a.send(ctx, http.MethodPost, PathDeactivate, nil, in, true, &out); err != nil {
			return err
		}
		if a.adapter != nil {
			if err := a.adapter.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ManifestPublicRead fetches a public manifest. No credentials are sent.
func (a *LicenseAPI) ManifestPublicRead(ctx context.Context, key string) (models.Manifest, error) {
	var out models.Manifest
	err := a.call(ctx, OpManifest, func(ctx context.Context) error {
		if err := a.validate.VarCtx(ctx, key, "required"); err != nil {
			return err
		}
		return a.send(ctx, http.MethodGet, PathManifest, map[string]string{"key": key}, nil, false, &out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// call wraps one operation in a client span.
func (a *LicenseAPI) call(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := a.tracer.Start(ctx, "keystack."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("keystack.operation", op)),
	)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// send performs the HTTP exchange and decodes the data payload into out.
func (a *LicenseAPI) send(ctx context.Context, method, path string, pathParams map[string]string, body any, withAuth bool, out any) error {
	req := a.client.R().
		SetContext(ctx).
		SetHeader(middleware.HeaderRequestID, uuid.NewString())

	if withAuth {
		if err := a.authorize(ctx, req); err != nil {
			return err
		}
	}
	if body != nil {
		req.SetBody(body)
	}
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	if resp.IsError() {
		return newError(resp.StatusCode(), resp.Body())
	}
	return decodeData(resp.StatusCode(), resp.Body(), out)
}

// authorize attaches the stored bearer token and the API key. An expired JWT
// is cleared from the adapter instead of being sent.
func (a *LicenseAPI) authorize(ctx context.Context, req *resty.Request) error {
	if a.adapter != nil {
		token, ok, err := a.adapter.Retrieve(ctx)
		if err != nil {
			return fmt.Errorf("failed to retrieve token: %w", err)
		}
		if ok && utils.TokenExpired(token, a.now(), 0) {
			a.log.Info("Stored token has expired, clearing it")
			if err := a.adapter.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear expired token: %w", err)
			}
			ok = false
		}
		if ok {
			req.SetHeader("Authorization", "Bearer "+token)
		}
	}
	if a.apiKey != "" {
		req.SetHeader(middleware.HeaderAPIKey, a.apiKey)
	}
	return nil
}

// decodeData unwraps the server envelope when present; bare JSON bodies are
// decoded as-is. A body counts as an envelope when its "status" member is the
// string "success" or "error".
func decodeData(statusCode int, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	payload := body
	var status string
	if raw, ok := fields["status"]; ok && json.Unmarshal(raw, &status) == nil &&
		(status == models.StatusSuccess || status == models.StatusError) {
		if status == models.StatusError {
			return newError(statusCode, body)
		}
		data, ok := fields["data"]
		if !ok || string(data) == "null" {
			return nil
		}
		payload = data
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
