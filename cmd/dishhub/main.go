// Package main is the dishhub command line: the recipe service and a client
// for browsing and authoring recipes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hyperjump/dishhub/internal/cli"
	"github.com/hyperjump/dishhub/internal/client"
	"github.com/hyperjump/dishhub/internal/config"
	"github.com/hyperjump/dishhub/internal/session"
	"github.com/hyperjump/dishhub/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/dishhub/config.yaml"

// loadConfig loads config from path. When path is the default and the file does
// not exist, config.yaml in the current directory is tried, so running from a
// project checkout picks up the local config. A missing file yields defaults.
// Returns the config and the path that was actually used.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if cwd, cwdErr := os.Getwd(); cwdErr == nil {
				fallback := filepath.Join(cwd, "config.yaml")
				if _, statErr := os.Stat(fallback); statErr == nil {
					cfg, loadErr := config.Load(fallback)
					if loadErr != nil {
						return nil, "", loadErr
					}
					return cfg, fallback, nil
				}
			}
		}
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// app carries the global flags and the state resolved from them.
type app struct {
	configPath string
	debug      bool
	format     string

	cfg          *config.Config
	resolvedPath string
	logger       *zap.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, resolved, err := loadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.resolvedPath = resolved

	debug := cfg.Debug || a.debug
	newLogger := utils.NewCLILogger
	if cmd.Name() == "serve" {
		newLogger = utils.NewLogger
	}
	logger, err := newLogger(debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger
	logger.Debug("config loaded", zap.String("config_path", resolved), zap.Bool("debug", debug))
	return nil
}

func (a *app) outputFormat() (cli.OutputFormat, error) {
	return cli.ParseOutputFormat(a.format)
}

// client builds a service client carrying the saved session.
func (a *app) client() (*client.Client, error) {
	sess, err := session.Load(a.cfg.Client.SessionFile)
	if err != nil {
		return nil, err
	}
	return client.New(a.cfg.Client.BaseURL, sess,
		client.WithTimeout(a.cfg.Client.Timeout),
		client.WithSessionCookie(a.cfg.Client.SessionCookie),
		client.WithLogger(a.logger),
	), nil
}

// saveSession persists the client's session, or removes the file once the
// session is anonymous.
func (a *app) saveSession(c *client.Client) error {
	if c.Session().Authenticated() {
		return c.Session().Save(a.cfg.Client.SessionFile)
	}
	return session.Clear(a.cfg.Client.SessionFile)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "dishhub",
		Short:         "Recipe discovery service and client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "config file path")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&a.format, "format", "o", "text", "output format: text, compact or json")

	root.AddCommand(
		newServeCmd(a),
		newBrowseCmd(a),
		newSearchCmd(a),
		newSuggestCmd(a),
		newRecipeCmd(a),
		newCategoryCmd(a),
		newIngredientCmd(a),
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dishhub version %s\n", version)
		},
	}
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func main() {
	if err := execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
