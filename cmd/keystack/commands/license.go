package commands

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"keystack/models"
)

// addDeviceFlags binds the device description shared by the license commands.
func addDeviceFlags(cmd *cobra.Command, d *models.DeviceInfo) {
	hostname, _ := os.Hostname()

	f := cmd.Flags()
	f.StringVar(&d.ClientID, "client-id", "", "client identifier")
	f.StringVar(&d.CPUID, "cpu-id", "", "CPU identifier")
	f.StringVar(&d.MotherboardSN, "motherboard-sn", "", "motherboard serial number")
	f.StringVar(&d.MACAddress, "mac", "", "primary MAC address")
	f.StringVar(&d.DiskSerial, "disk-serial", "", "system disk serial number")
	f.StringVar(&d.MachineID, "machine-id", "", "OS machine ID")
	f.StringVar(&d.OS, "os", runtime.GOOS, "operating system")
	f.StringVar(&d.OSVersion, "os-version", "", "operating system version")
	f.StringVar(&d.Hostname, "hostname", hostname, "device hostname")
}

func (c *cli) activateCmd() *cobra.Command {
	var device models.DeviceInfo
	cmd := &cobra.Command{
		Use:   "activate [license-key]",
		Short: "Activate a license on this device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client.ActivateLicense(cmd.Context(), models.ActivateLicenseRequest{
				LicenseKey: args[0],
				DeviceInfo: device,
			})
			if err != nil {
				return err
			}
			c.log.WithFields(map[string]interface{}{
				"license_key": resp.LicenseKey,
				"device_id":   resp.DeviceID,
			}).Info("License activated")
			return c.print(resp)
		},
	}
	addDeviceFlags(cmd, &device)
	return cmd
}

func (c *cli) validateCmd() *cobra.Command {
	var device models.DeviceInfo
	cmd := &cobra.Command{
		Use:   "validate [license-key]",
		Short: "Check a license against the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client.ValidateLicense(cmd.Context(), models.ValidateLicenseRequest{
				LicenseKey: args[0],
				DeviceInfo: device,
			})
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
	addDeviceFlags(cmd, &device)
	return cmd
}

func (c *cli) deactivateCmd() *cobra.Command {
	var (
		device       models.DeviceInfo
		activationID string
	)
	cmd := &cobra.Command{
		Use:   "deactivate [license-key]",
		Short: "Release this device's activation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.DeactivateLicenseRequest{
				ActivationID: activationID,
				DeviceInfo:   device,
			}
			if len(args) == 1 {
				req.LicenseKey = args[0]
			}
			resp, err := c.client.DeactivateLicense(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
	cmd.Flags().StringVar(&activationID, "activation-id", "", "activation to revoke")
	addDeviceFlags(cmd, &device)
	return cmd
}

func (c *cli) fingerprintCmd() *cobra.Command {
	var device models.DeviceInfo
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the device fingerprint the server will compute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(map[string]string{"fingerprint": device.Fingerprint()})
		},
	}
	addDeviceFlags(cmd, &device)
	return cmd
}
