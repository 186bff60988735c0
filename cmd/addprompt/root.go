package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/handiism/addprompt/internal/batch"
	"github.com/handiism/addprompt/internal/config"
	"github.com/handiism/addprompt/internal/tui"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errUsage is returned when no base path was given; usage has already
// been printed.
var errUsage = errors.New("missing base path")

type options struct {
	basePath        string
	configPath      string
	preset          string
	force           bool
	continueOnError bool
	workers         int
	verbose         bool
	noProgress      bool
	dryRun          bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName + " [basePath]",
		Short: appDescription,
		Long: `addprompt walks the direct subfolders of a base path. In each one it reads
image.png and prompt.txt, draws the caption in a band below the image and
writes output.png. Existing outputs are kept unless --force is given.

For interactive mode, use: addprompt-tui`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.basePath == "" && len(args) == 1 {
				opts.basePath = args[0]
			}
			if opts.basePath == "" {
				cmd.SetOut(stderr)
				cmd.Usage()
				return errUsage
			}
			return run(cmd, opts, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.basePath, "basePath", "", "folder whose subfolders are processed")
	f.StringVar(&opts.configPath, "config", "", "settings file, JSON or YAML (default "+config.DefaultPath()+")")
	f.StringVar(&opts.preset, "preset", "", "rendering preset: deeplili, plain or a style from the settings file")
	f.BoolVar(&opts.force, "force", false, "regenerate outputs that already exist")
	f.BoolVar(&opts.continueOnError, "continue-on-error", false, "keep going after a folder fails and report every failure at the end")
	f.IntVar(&opts.workers, "workers", 0, "folders processed at once (default from settings, 1)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "show verbose output")
	f.BoolVar(&opts.noProgress, "no-progress", false, "log events line by line instead of drawing a progress bar")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the caption of every folder without writing anything")

	return cmd
}

// loadSettings reads the settings file and applies the flags on top.
func loadSettings(cmd *cobra.Command, opts *options) (*config.Settings, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("force") {
		settings.Force = opts.force
	}
	if flags.Changed("continue-on-error") {
		settings.ContinueOnError = opts.continueOnError
	}
	if flags.Changed("workers") {
		settings.MaxConcurrentFolders = opts.workers
	}
	if opts.preset != "" {
		settings.Preset = opts.preset
	}
	return settings, nil
}

func run(cmd *cobra.Command, opts *options, stdout, stderr io.Writer) error {
	ctx := cmd.Context()

	logger := log.New()
	logger.SetOutput(stderr)
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}

	progressUI := !opts.noProgress && !opts.dryRun && isTerminal(stdout)

	var (
		events     tui.Events
		onProgress = logEvents(logger)
	)
	if opts.dryRun {
		logged := onProgress
		onProgress = func(event batch.ProgressEvent) {
			if event.Level == batch.LevelInfo && event.Folder != "" {
				fmt.Fprintln(stdout, event.Message)
				return
			}
			logged(event)
		}
	}
	if progressUI {
		events = tui.NewEvents()
		onProgress = events.Send
	}

	manager := batch.NewManager(settings, batch.Deps{}, onProgress)
	if err := manager.Initialize(ctx, opts.basePath); err != nil {
		return err
	}

	if opts.dryRun {
		return manager.DryRun(ctx)
	}

	if progressUI {
		return tui.RunProgress(ctx, manager, events, opts.verbose, stdout)
	}

	err = manager.Run(ctx)
	if err != nil && settings.ContinueOnError {
		report := manager.Report()
		logger.WithField("summary", report.Summary()).Warn("some folders failed")
		for _, ferr := range report.Errors() {
			logger.Error(ferr)
		}
	}
	return err
}

// logEvents returns a progress callback writing events through logger.
func logEvents(logger *log.Logger) func(batch.ProgressEvent) {
	return func(event batch.ProgressEvent) {
		entry := log.NewEntry(logger)
		if event.Folder != "" {
			entry = entry.WithField("folder", event.Folder)
		}

		switch event.Level {
		case batch.LevelVerbose:
			entry.Debug(event.Message)
		case batch.LevelWarning:
			entry.Warn(event.Message)
		case batch.LevelError:
			entry.Error(event.Message)
		default:
			entry.Info(event.Message)
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
