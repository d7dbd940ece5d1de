// Package sdk is the KeyStack license client.
//
// A LicenseClient wraps a configured transport and exposes four calls:
// ActivateLicense, ValidateLicense, DeactivateLicense and
// ManifestPublicRead. Every failure, whatever its cause, reaches the caller
// as a *APIError.
//
//	store := adapter.NewFileAdapter("/var/lib/myapp/license.token", passphrase)
//	client := sdk.New(store, "", sdk.WithBaseURL("https://licenses.example.com"))
//
//	act, err := client.ActivateLicense(ctx, models.ActivateLicenseRequest{
//	    LicenseKey: "ABCD-1234-EF56-7890",
//	    DeviceInfo: device,
//	})
//	if apiErr, ok := sdk.AsAPIError(err); ok {
//	    log.Printf("activation refused (%d): %s", apiErr.StatusCode, apiErr.Message)
//	}
//
// Public manifests need no credentials:
//
//	client := sdk.New(nil, "")
//	manifest, err := client.ManifestPublicRead(ctx, "pricing-table")
//
// The client holds no state of its own between calls and adds no locking;
// the bundled HTTP transport is safe for concurrent use.
package sdk
