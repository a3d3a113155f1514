// Package cli implements the tasker command line: adding, listing and
// updating tasks, asking for a productivity tip, issuing API tokens and
// serving the list over MCP.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/traffic-tasker/internal/app"
	"github.com/phrazzld/traffic-tasker/internal/config"
	"github.com/phrazzld/traffic-tasker/internal/output"
	"github.com/phrazzld/traffic-tasker/internal/platform/logger"
	"github.com/spf13/cobra"
)

// DefaultLogLevel keeps routine log lines off the terminal.
const DefaultLogLevel = "error"

// Options configures the root command.
type Options struct {
	// Version is printed by the version command and reported over MCP.
	Version string

	// LoadConfig reads the configuration. Defaults to config.LoadFile.
	LoadConfig func(path string) (*config.Config, error)

	// AppOptions is passed to app.New by every command that opens the list.
	AppOptions app.Options
}

type cli struct {
	opts       Options
	configFile string
	format     string
	logLevel   string
}

// NewRootCommand builds the tasker command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.LoadFile
	}
	c := &cli{opts: opts}

	root := &cobra.Command{
		Use:   "tasker",
		Short: "Traffic-light task tracker",
		Long: `tasker keeps a short list of tasks, each shown with a red, yellow or
green light. New tasks are classified automatically by a language model when
a Gemini API key is configured, and "tasker tip" asks for a one-sentence
productivity tip about the current list.

Commands that take a <ref> accept the task's position in "tasker list" or a
prefix of its id.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default $"+config.ConfigFileEnv+" or ./config.yaml)")
	flags.StringVarP(&c.format, "output", "o", string(output.FormatText), "output format: text, json or yaml")
	flags.StringVar(&c.logLevel, "log-level", DefaultLogLevel, "log level written to stderr: debug, info, warn or error")

	root.AddCommand(
		c.addCommand(),
		c.listCommand(),
		c.doneCommand(),
		c.priorityCommand(),
		c.removeCommand(),
		c.classifyCommand(),
		c.tipCommand(),
		c.tokenCommand(),
		c.mcpCommand(),
		c.versionCommand(),
	)

	return root
}

// Execute runs the command line until it finishes or the process is
// interrupted.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(Options{Version: version})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := c.opts.LoadConfig(c.configFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// withApp opens the task list for one command. background enables the
// debounced advisory, which only long-running commands want.
func (c *cli) withApp(
	cmd *cobra.Command,
	background bool,
	fn func(ctx context.Context, a *app.App, p *output.Printer) error,
) error {
	format, err := output.ParseFormat(c.format)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	l := logger.New(c.logLevel, cmd.ErrOrStderr())

	appOpts := c.opts.AppOptions
	appOpts.Background = background

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, l, appOpts)
	if err != nil {
		return fmt.Errorf("opening task list: %w", err)
	}
	defer a.Close()

	return fn(ctx, a, output.NewPrinter(cmd.OutOrStdout(), format))
}
