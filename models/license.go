package models

import (
	"time"

	"keystack/utils"
)

// LicenseStatus 상태 상수
const (
	LicenseStatusActive  = "active"
	LicenseStatusRevoked = "revoked"
	LicenseStatusExpired = "expired"
)

// ActivateLicenseRequest 라이선스 활성화 요청
type ActivateLicenseRequest struct {
	LicenseKey string     `json:"license_key" validate:"required"`
	DeviceInfo DeviceInfo `json:"device_info" validate:"required"`
}

// ValidateLicenseRequest 라이선스 검증 요청
//
// DeviceInfo is optional on the client; whether the server demands it is
// backend policy.
type ValidateLicenseRequest struct {
	LicenseKey string     `json:"license_key" validate:"required"`
	DeviceInfo DeviceInfo `json:"device_info"`
}

// DeactivateLicenseRequest 라이선스 비활성화 요청
//
// The activation to revoke is identified either by its activation ID or by
// the license key plus device.
type DeactivateLicenseRequest struct {
	LicenseKey   string     `json:"license_key,omitempty" validate:"required_without=ActivationID"`
	ActivationID string     `json:"activation_id,omitempty" validate:"required_without=LicenseKey"`
	DeviceInfo   DeviceInfo `json:"device_info"`
}

// ActivationResponse is the data payload of a successful activation.
type ActivationResponse struct {
	LicenseKey   string                `json:"license_key"`
	DeviceID     string                `json:"device_id"`
	ProductID    string                `json:"product_id,omitempty"`
	ProductName  string                `json:"product_name,omitempty"`
	ExpiresAt    string                `json:"expires_at"`
	Token        string                `json:"token,omitempty"`
	Policies     []PolicyResponse      `json:"policies,omitempty"`
	ProductFiles []ProductFileResponse `json:"product_files,omitempty"`
}

// LicenseKey is the validated key record returned by the server.
type LicenseKey struct {
	LicenseKey   string                `json:"license_key"`
	ProductID    string                `json:"product_id,omitempty"`
	ProductName  string                `json:"product_name,omitempty"`
	ExpiresAt    string                `json:"expires_at"`
	Status       string                `json:"status,omitempty"`
	Valid        bool                  `json:"valid"`
	Policies     []PolicyResponse      `json:"policies,omitempty"`
	ProductFiles []ProductFileResponse `json:"product_files,omitempty"`
}

// ExpiresTime parses ExpiresAt as sent by the server.
func (k *LicenseKey) ExpiresTime() (time.Time, error) {
	return utils.ParseServerDate(k.ExpiresAt)
}

// DeactivationResponse confirms a revoked activation.
type DeactivationResponse struct {
	LicenseKey    string `json:"license_key,omitempty"`
	DeviceID      string `json:"device_id,omitempty"`
	ActivationID  string `json:"activation_id,omitempty"`
	Deactivated   bool   `json:"deactivated"`
	DeactivatedAt string `json:"deactivated_at,omitempty"`
}
