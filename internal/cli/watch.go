package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/io"
	"github.com/matzehuels/spiralstair/pkg/pipeline"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	profile  string
	strategy string
	formats  string // also render these formats on every change
	view     string
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{view: pipeline.DefaultView}

	cmd := &cobra.Command{
		Use:   "watch <input-file>",
		Short: "Re-check an input file whenever it changes",
		Long: `Watch a TOML, YAML or JSON input file and print the layout and compliance
report every time it is saved. With --format, drawings next to the input file
are refreshed too. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "code profile name or file (default from config)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "riser strategy: forward, top-clearance")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "also render these formats (comma-separated)")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "drawing: plan, elevation, sequence")

	return cmd
}

func (c *CLI) runWatch(cmd *cobra.Command, path string, opts *watchOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := loggerFromContext(ctx)

	var formats []string
	if opts.formats != "" {
		formats = parseFormats(opts.formats)
		if err := pipeline.ValidateFormats(formats); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateView(opts.view); err != nil {
		return err
	}

	po, err := c.pipelineOptions(opts.profile, opts.strategy)
	if err != nil {
		return err
	}
	po.Formats = formats
	po.View = opts.view

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()
	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	run := func() {
		if err := c.watchOnce(ctx, cmd, runner, abs, po.Copy()); err != nil {
			if errors.IsInvalidInput(err) || errors.IsCalculationFailure(err) || errors.Is(err, errors.ErrCodeFileNotFound) {
				printError(cmd.OutOrStdout(), "%s", errors.UserMessage(err))
				return
			}
			logger.Error("evaluate failed", "err", err)
		}
	}

	printInfo(cmd.OutOrStdout(), "Watching %s", path)
	run()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug("fsnotify event", "op", event.Op, "file", event.Name)
				debounce = time.After(watchDebounce)
			}
		case <-debounce:
			debounce = nil
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("fsnotify error", "err", err)
		}
	}
}

// watchOnce evaluates the file and prints the report.
func (c *CLI) watchOnce(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, path string, opts pipeline.Options) error {
	in, err := io.ImportInput(path)
	if err != nil {
		return err
	}
	result, err := runner.Evaluate(ctx, in, opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, StyleDim.Render(time.Now().Format("15:04:05")))
	printParameters(w, result.Plan.Parameters)
	if result.Compliant() {
		printSuccess(w, "Compliant with %s", result.Profile.Name)
	} else {
		printViolations(w, result.Violations)
	}

	base := outputBase("", path, "")
	for _, format := range opts.Formats {
		out := base + "." + format
		if err := writeArtifact(out, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(w, out)
	}
	return nil
}
