package cli

import (
	"bufio"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophdrive/internal/client/config"
)

type rootOptions struct {
	configPath  string
	serverURL   string
	timeout     time.Duration
	downloadDir string
}

// NewRootCommand builds the gophdrive command tree. Without a subcommand
// it starts the interactive shell.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gophdrive",
		Short: "Personal file storage client",
		Long: `Personal file storage client.

Starts an interactive shell connected to a gophdrive server. Register once,
login, then upload, list, download and delete your files.

Examples:
  # Connect to a local server
  gophdrive

  # Connect to a remote server with a config file
  gophdrive --config ~/.gophdrive.yaml --server https://drive.example.com`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a JSON or YAML config file")
	flags.StringVarP(&opts.serverURL, "server", "s", "", "server base URL")
	flags.DurationVar(&opts.timeout, "timeout", 0, "timeout for API calls other than transfers")
	flags.StringVar(&opts.downloadDir, "download-dir", "", "directory for downloaded files")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd)
			if err != nil {
				return err
			}
			return app.Ping(cmd.Context())
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd)
			if err != nil {
				return err
			}
			return app.Register(cmd.Context())
		},
	})

	return rootCmd
}

// resolve loads the config file and applies flags that were set explicitly.
func (o *rootOptions) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = o.serverURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("download-dir") {
		cfg.DownloadDir = o.downloadDir
	}
	return cfg, nil
}

func (o *rootOptions) app(cmd *cobra.Command) (*App, error) {
	cfg, err := o.resolve(cmd)
	if err != nil {
		return nil, err
	}
	app, err := NewApp(cfg)
	if err != nil {
		return nil, err
	}
	app.out = cmd.OutOrStdout()
	app.reader = bufio.NewReader(cmd.InOrStdin())
	return app, nil
}
