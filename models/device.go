package models

import "keystack/utils"

// DeviceInfo 디바이스 정보 구조체 (서버로 전달)
type DeviceInfo struct {
	ClientID      string `json:"client_id,omitempty"`
	CPUID         string `json:"cpu_id"`
	MotherboardSN string `json:"motherboard_sn"`
	MACAddress    string `json:"mac_address"`
	DiskSerial    string `json:"disk_serial"`
	MachineID     string `json:"machine_id"`
	OS            string `json:"os"`
	OSVersion     string `json:"os_version"`
	Hostname      string `json:"hostname"`
}

// Fingerprint returns the hardware fingerprint the server derives for this device.
func (d DeviceInfo) Fingerprint() string {
	return utils.GenerateDeviceFingerprint(
		d.ClientID,
		d.CPUID,
		d.MotherboardSN,
		d.MACAddress,
		d.DiskSerial,
		d.MachineID,
	)
}
