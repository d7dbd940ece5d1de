package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"keystack/utils"
)

type tokenStatus struct {
	Driver    string     `json:"driver"`
	Stored    bool       `json:"stored"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired,omitempty"`
}

func (c *cli) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect or clear the stored activation token",
	}
	cmd.AddCommand(c.tokenShowCmd(), c.tokenClearCmd())
	return cmd
}

func (c *cli) tokenShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Report whether a token is stored and when it expires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := tokenStatus{Driver: c.cfg.Storage.Driver}
			if c.tokens == nil {
				return c.print(status)
			}
			token, ok, err := c.tokens.Retrieve(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			status.Stored = ok
			if ok {
				if exp, has := utils.TokenExpiry(token); has {
					status.ExpiresAt = &exp
					status.Expired = utils.TokenExpired(token, time.Now(), 0)
				}
			}
			return c.print(status)
		},
	}
}

func (c *cli) tokenClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.tokens != nil {
				if err := c.tokens.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("failed to clear token: %w", err)
				}
			}
			return c.print(map[string]bool{"cleared": true})
		},
	}
}
