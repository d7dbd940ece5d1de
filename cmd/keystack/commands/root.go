package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"keystack/adapter"
	"keystack/api"
	"keystack/config"
	"keystack/logger"
	"keystack/sdk"
)

// cli carries the state shared by every command of one invocation.
type cli struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	baseURL    string
	apiKey     string
	storage    string
	verbose    bool

	cfg    *config.Config
	log    *logger.Logger
	tokens adapter.TokenStorageAdapter
	client *sdk.LicenseClient
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{out: out, errOut: errOut}
}

// Execute runs the CLI with args and prints any failure on stderr.
func Execute(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	c := newCLI(out, errOut)
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if cerr := c.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		c.printError(err)
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "keystack",
		Short:         "License activation client",
		Version:       api.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath(), "config file")
	root.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "license server URL (overrides config)")
	root.PersistentFlags().StringVar(&c.apiKey, "api-key", "", "API key sent as X-API-Key (overrides config)")
	root.PersistentFlags().StringVar(&c.storage, "storage", "", "token storage driver: memory, file, sqlite, mysql, redis, none")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log HTTP traffic to stderr")

	root.AddCommand(
		c.activateCmd(),
		c.validateCmd(),
		c.deactivateCmd(),
		c.manifestCmd(),
		c.fingerprintCmd(),
		c.tokenCmd(),
	)
	return root
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "keystack.yaml"
	}
	return filepath.Join(dir, "keystack", "config.yaml")
}

// setup loads configuration and opens the token store and client.
func (c *cli) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cfg, err := config.Load(c.configPath, func(cfg *config.Config) {
		if flags.Changed("base-url") {
			cfg.API.BaseURL = c.baseURL
		}
		if flags.Changed("api-key") {
			cfg.API.APIKey = c.apiKey
		}
		if flags.Changed("storage") && !strings.EqualFold(cfg.Storage.Driver, c.storage) {
			// A configured path belongs to the configured driver.
			cfg.Storage.Driver = c.storage
			cfg.Storage.Path = ""
		}
		if c.verbose {
			cfg.Logging.Level = "debug"
		}
	})
	if err != nil {
		return err
	}
	c.cfg = cfg

	lc := cfg.LoggerConfig()
	lc.Output = c.errOut
	lc.Prefix = " [keystack]"
	c.log = logger.New(lc)

	tokens, err := adapter.Open(cmd.Context(), cfg.AdapterConfig())
	if err != nil {
		return fmt.Errorf("failed to open token storage: %w", err)
	}
	c.tokens = tokens

	tc := cfg.TransportConfig()
	c.client = sdk.New(tokens, tc.APIKey,
		sdk.WithBaseURL(tc.BaseURL),
		sdk.WithTimeout(tc.Timeout),
		sdk.WithUserAgent(tc.UserAgent),
		sdk.WithLogger(c.log),
	)
	return nil
}

func (c *cli) close() error {
	if c.tokens == nil {
		return nil
	}
	return adapter.Close(c.tokens)
}
