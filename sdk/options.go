package sdk

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"keystack/api"
	"keystack/logger"
)

// Option customises a LicenseClient.
type Option func(*options)

type options struct {
	api       api.Config
	transport Transport
}

// WithBaseURL points the client at a license server.
func WithBaseURL(url string) Option {
	return func(o *options) { o.api.BaseURL = url }
}

// WithTimeout bounds each HTTP round trip.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.api.Timeout = d }
}

// WithHTTPClient supplies the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.api.HTTPClient = c }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.api.UserAgent = ua }
}

// WithLogger enables request logging.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.api.Logger = l }
}

// WithTracerProvider sets the provider used for per-call spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.api.TracerProvider = tp }
}

// WithTransport replaces the bundled HTTP transport. The adapter, API key and
// HTTP options are then ignored; the transport owns authentication.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}
