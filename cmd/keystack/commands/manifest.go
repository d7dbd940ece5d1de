package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) manifestCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "manifest [key]",
		Short: "Read a public manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.client.ManifestPublicRead(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if path == "" {
				return c.print(m)
			}
			v, ok := m.Get(path)
			if !ok {
				return fmt.Errorf("manifest %q has no value at %q", args[0], path)
			}
			return c.print(v)
		},
	}
	cmd.Flags().StringVar(&path, "get", "", "print only the value at this dotted path")
	return cmd
}
