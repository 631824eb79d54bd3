// Package commands implements the CLI commands for heifsys.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/heifsys/internal/adapters/config"
	"go.trai.ch/heifsys/internal/adapters/detector"
	"go.trai.ch/heifsys/internal/adapters/envscope"
	"go.trai.ch/heifsys/internal/app"
	"go.trai.ch/heifsys/internal/build"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
)

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.RunOptions) (*domain.Artifacts, error)
	Plan(opts app.RunOptions) (*domain.Plan, error)
	Probe(ctx context.Context, name, minVersion string) (*domain.LibraryInfo, error)
}

// verboseSetter is implemented by loggers with a debug threshold.
type verboseSetter interface {
	SetVerbose(verbose bool)
}

// CLI represents the command line interface for heifsys.
type CLI struct {
	app      Application
	settings *config.Settings
	logger   ports.Logger
	detect   func() detector.OutputMode
	rootCmd  *cobra.Command
}

// New creates a new CLI instance. Flag defaults come from settings.
// log may implement SetVerbose to honour --verbose.
func New(a Application, settings *config.Settings, log ports.Logger) *CLI {
	if settings == nil {
		settings = config.SettingsFromEnv(envscope.Process{})
	}

	rootCmd := &cobra.Command{
		Use:           "heifsys",
		Short:         "Prepare libheif and its codecs for linking",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.Bool("docs", settings.Docs, "Skip native dependencies entirely")
	flags.String("strategy", settings.Strategy, "How libheif is acquired: system or vendored")
	flags.String("backend", settings.Backend, "HEVC encoder linked into libheif: x265 or kvazaar")
	flags.String("target", settings.Target, "Target triple")
	flags.String("source-dir", settings.SourceDir, "Directory holding the vendored source trees")
	flags.StringP("out-dir", "o", settings.OutDir, "Output root")
	flags.String("manifest", settings.Manifest, "Dependency manifest (built-in when empty)")
	flags.String("toolchain", settings.ToolchainFile, "CMake toolchain file for constrained targets")
	flags.BoolP("force", "f", false, "Rebuild every step, ignoring recorded fingerprints")
	flags.BoolP("verbose", "v", false, "Print debug logs and tool output")
	flags.String("progress", detector.ModeAuto.String(), "Progress display: auto, tui, plain or none")

	c := &CLI{
		app:      a,
		settings: settings,
		logger:   log,
		detect: func() detector.OutputMode {
			return detector.DetectEnvironment(detector.IsTerminal(os.Stdout), envscope.Process{})
		},
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newProbeCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error writers for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options merges the flags over the settings and parses the result.
func (c *CLI) options(cmd *cobra.Command) (app.RunOptions, error) {
	s := *c.settings
	flags := cmd.Flags()

	s.Docs, _ = flags.GetBool("docs")
	s.Strategy, _ = flags.GetString("strategy")
	s.Backend, _ = flags.GetString("backend")
	s.Target, _ = flags.GetString("target")
	s.SourceDir, _ = flags.GetString("source-dir")
	s.OutDir, _ = flags.GetString("out-dir")
	s.Manifest, _ = flags.GetString("manifest")
	s.ToolchainFile, _ = flags.GetString("toolchain")

	opts, err := app.ParseOptions(&s)
	if err != nil {
		return app.RunOptions{}, err
	}

	opts.Force, _ = flags.GetBool("force")
	opts.Verbose, _ = flags.GetBool("verbose")
	if v, ok := c.logger.(verboseSetter); ok {
		v.SetVerbose(opts.Verbose)
	}

	progress, _ := flags.GetString("progress")
	detected := detector.ModeAuto
	if progress == "" || progress == detector.ModeAuto.String() {
		detected = c.detect()
	}
	opts.Progress, err = detector.ResolveMode(detected, progress)
	if err != nil {
		return app.RunOptions{}, err
	}
	return opts, nil
}
