package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/johnconnor-sec/menulauncher/internal/config"
	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/logger"
	"github.com/johnconnor-sec/menulauncher/internal/output"
	"github.com/johnconnor-sec/menulauncher/internal/resource"
	"github.com/johnconnor-sec/menulauncher/internal/ui"
)

// rootOptions are the flags shared by all commands.
type rootOptions struct {
	mapping  string
	logLevel string
	logFile  string
	noColor  bool
	quiet    bool
	verbose  bool

	// root command only
	style       string
	showVersion bool

	// closeLog releases the --log-file sink.
	closeLog func()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "menulauncher CONFIG",
		Short: "Browse menu documents and launch their commands",
		Long: `menulauncher opens a JSON menu document in a terminal UI. Submenus, titles
and separators are shown as written; command entries start the program built
from their type in the launcher mapping.`,
		Example: `  menulauncher menus/main.json
  menulauncher -m site-mapping.yml -s dark menus/main.json
  menulauncher search menus/main.json scope
  menulauncher validate --tree menus/*.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setupLogging(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.closeLog != nil {
				opts.closeLog()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				printVersion(opts.formatter(cmd))
				return nil
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return runInteractive(cmd.Context(), opts, args[0])
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.mapping, "mapping", "m", "", "launcher mapping file (default: $"+config.EnvVarMapping+" or the user config directory)")
	flags.StringVar(&opts.logLevel, "log-level", envOr(logger.EnvVarLogLevel, "info"), "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFile, "log-file", "", "append logs to this file")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only print errors")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print more details")

	cmd.Flags().StringVarP(&opts.style, "style", "s", "default", "terminal UI theme: default, dark, or a YAML theme file under theme_base")
	cmd.Flags().BoolVar(&opts.showVersion, "version", false, "print version information")

	cmd.AddCommand(
		newValidateCmd(opts),
		newSearchCmd(opts),
		newRunCmd(opts),
		newHashCmd(),
		newSchemaCmd(opts),
		newMappingCmd(opts),
		newDiagnosticsCmd(opts),
	)
	return cmd
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// setupLogging attaches the logger to the command context. Subcommands log
// JSON to stderr; the terminal UI only logs to --log-file since it owns the
// screen.
func (o *rootOptions) setupLogging(cmd *cobra.Command) error {
	level := logger.ParseLevel(o.logLevel)

	var lgr *logr.Logger
	switch {
	case o.logFile != "":
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(err, errors.InternalError, "Cannot open log file").
				WithDetails(fmt.Sprintf("Path: %s", o.logFile))
		}
		o.closeLog = func() { _ = f.Close() }
		lgr = logger.New(level, zapcore.AddSync(f))
	case !cmd.HasParent():
		lgr = logger.GetNoopLogger()
	default:
		lgr = logger.Get(level)
	}

	lgr = logger.WithValues(lgr, logger.RootCommandKey, "menulauncher", logger.SubCommandKey, cmd.Name())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithLogger(ctx, lgr))
	return nil
}

func (o *rootOptions) formatter(cmd *cobra.Command) *output.Formatter {
	f := output.NewFormatter(cmd.OutOrStdout())
	if o.noColor {
		f.SetColorOutput(false)
	}
	switch {
	case o.quiet:
		f.SetLevel(output.LevelQuiet)
	case o.verbose:
		f.SetLevel(output.LevelVerbose)
	}
	return f
}

// loadSystem returns the mapping block of the running system. A mapping file
// that cannot be read is replaced by the embedded default with a warning; an
// invalid one is an error.
func (o *rootOptions) loadSystem(ctx context.Context) (*config.Mapping, *config.SystemConfig, error) {
	log := logger.FromContext(ctx)

	path := o.mapping
	if path == "" {
		found, err := config.FindMappingPath()
		if err != nil {
			log.V(1).Info("mapping lookup failed", "error", err.Error())
		}
		path = found
	}

	mapping, err := config.LoadOrDefault(ctx, path)
	if err != nil {
		if !errors.IsType(err, errors.ConfigNotFound) {
			return nil, nil, err
		}
		log.Info("using the default mapping", "mapping", path, "reason", err.Error())
	}

	sc, err := mapping.Current()
	if err != nil {
		return nil, nil, err
	}
	return mapping, sc, nil
}

func runInteractive(ctx context.Context, opts *rootOptions, rootPath string) error {
	log := logger.FromContext(ctx)

	_, sc, err := opts.loadSystem(ctx)
	if err != nil {
		return err
	}
	theme, err := ui.LoadTheme(ctx, resource.Opener{}, opts.style, sc.ThemeBase)
	if err != nil {
		return err
	}

	if err := ui.Run(ctx, sc, rootPath, theme); err != nil {
		if errors.IsFatal(err) {
			log.Error(err, "menu cannot be built", "file", rootPath)
		}
		return err
	}
	return nil
}

func printVersion(f *output.Formatter) {
	f.Header(fmt.Sprintf("menulauncher %s", version))

	f.Table().
		Headers("Component", "Version").
		Row("menulauncher", version).
		Row("Git commit", commit).
		Row("Build date", date).
		Row("Go version", runtime.Version()).
		Row("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)).
		Print()
}
