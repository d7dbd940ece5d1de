package sdk

import (
	"context"

	"keystack/adapter"
	"keystack/api"
	"keystack/models"
)

// Transport performs the remote calls. *api.LicenseAPI is the bundled
// implementation.
type Transport interface {
	ActivateLicense(ctx context.Context, in models.ActivateLicenseRequest) (*models.ActivationResponse, error)
	ValidateLicense(ctx context.Context, in models.ValidateLicenseRequest) (*models.LicenseKey, error)
	DeactivateLicense(ctx context.Context, in models.DeactivateLicenseRequest) (*models.DeactivationResponse, error)
	ManifestPublicRead(ctx context.Context, key string) (models.Manifest, error)
}

var _ Transport = (*api.LicenseAPI)(nil)

// LicenseClient is the public entry point of the SDK.
type LicenseClient struct {
	transport Transport
	translate func(op string, err error) *APIError
}

// New builds a client. adapter and apiKey are both optional; with neither the
// client can still read public manifests. New never fails.
func New(tokens adapter.TokenStorageAdapter, apiKey string, opts ...Option) *LicenseClient {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	t := o.transport
	if t == nil {
		cfg := o.api
		cfg.Adapter = tokens
		cfg.APIKey = apiKey
		t = api.Configure(cfg)
	}

	return &LicenseClient{
		transport: t,
		translate: translate,
	}
}

// ActivateLicense activates a license on a device.
func (c *LicenseClient) ActivateLicense(ctx context.Context, in models.ActivateLicenseRequest) (*models.ActivationResponse, error) {
	return invoke(ctx, c, api.OpActivate, func(ctx context.Context) (*models.ActivationResponse, error) {
		return c.transport.ActivateLicense(ctx, in)
	})
}

// ValidateLicense checks a license key against the server.
func (c *LicenseClient) ValidateLicense(ctx context.Context, in models.ValidateLicenseRequest) (*models.LicenseKey, error) {
	return invoke(ctx, c, api.OpValidate, func(ctx context.Context) (*models.LicenseKey, error) {
		return c.transport.ValidateLicense(ctx, in)
	})
}

// DeactivateLicense revokes an activation.
func (c *LicenseClient) DeactivateLicense(ctx context.Context, in models.DeactivateLicenseRequest) (*models.DeactivationResponse, error) {
	return invoke(ctx, c, api.OpDeactivate, func(ctx context.Context) (*models.DeactivationResponse, error) {
		return c.transport.DeactivateLicense(ctx, in)
	})
}

// ManifestPublicRead fetches the public manifest stored under key.
func (c *LicenseClient) ManifestPublicRead(ctx context.Context, key string) (models.Manifest, error) {
	return invoke(ctx, c, api.OpManifest, func(ctx context.Context) (models.Manifest, error) {
		return c.transport.ManifestPublicRead(ctx, key)
	})
}

// invoke runs call and translates its failure. The result of a successful
// call is returned untouched.
func invoke[T any](ctx context.Context, c *LicenseClient, op string, call func(context.Context) (T, error)) (T, error) {
	out, err := call(ctx)
	if err != nil {
		var zero T
		return zero, c.translate(op, err)
	}
	return out, nil
}
