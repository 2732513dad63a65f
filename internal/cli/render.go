package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/io"
	"github.com/matzehuels/spiralstair/pkg/pipeline"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/render"
)

// defaultOutputBase names output files when neither -o nor an input file is given.
const defaultOutputBase = "stair"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input    inputFlags
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: svg, png, pdf, json, dot
	view     string   // plan, elevation or sequence
	labels   bool     // label steps
	scale    float64  // PNG zoom factor
	planFile string   // render a saved plan instead of laying one out
	savePlan string   // also write the plan as JSON
	refresh  bool     // ignore cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{view: pipeline.DefaultView, scale: pipeline.DefaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a spiral stair to SVG, PNG, PDF, JSON or DOT",
		Long: `Render the stair as a plan view (treads as sectors around the pole), an
elevation (steps unrolled along the walkline) or a climb sequence diagram.
Violating plans are drawn with the violations listed under the title.

PNG and PDF output need rsvg-convert on PATH.`,
		Example: `  spiralstair render --pole 6 --height 160 --outside 62 --rotation 450 -f svg,pdf
  spiralstair render -i stair.toml --view elevation --labels -o drawings/stair
  spiralstair render --plan stair.plan.json -f png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if err := pipeline.ValidateView(opts.view); err != nil {
				return err
			}
			return c.runRender(cmd, &opts)
		},
	}

	opts.input.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "drawing: plan, elevation, sequence")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label every step")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG zoom factor")
	cmd.Flags().StringVar(&opts.planFile, "plan", "", "render a plan saved with --save-plan")
	cmd.Flags().StringVar(&opts.savePlan, "save-plan", "", "also write the computed plan as JSON")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON, pipeline.FormatDOT}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("view", cobra.FixedCompletions(
		[]string{pipeline.ViewPlan, pipeline.ViewElevation, pipeline.ViewSequence}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := loggerFromContext(ctx)
	w := cmd.OutOrStdout()

	var sp *Spinner
	if needsConverter(opts.formats) {
		if !render.Available() {
			printWarning(w, "rsvg-convert not found; PNG and PDF output will fail")
		} else {
			sp = newSpinnerWithContext(ctx, "Converting with rsvg-convert...")
			sp.Start()
		}
	}

	prog := newProgress(logger)
	var (
		artifacts map[string][]byte
		err       error
	)
	if opts.planFile != "" {
		artifacts, err = c.renderSavedPlan(ctx, opts)
	} else {
		artifacts, err = c.renderInput(cmd, opts)
	}
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return err
	}

	base := outputBase(opts.output, opts.input.file, opts.planFile)
	paths := make([]string, 0, len(opts.formats))
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	prog.done("rendered", "files", len(paths), "view", opts.view)
	printSuccess(w, "Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(w, p)
	}
	return nil
}

// renderInput lays out the command's input and renders it with caching.
func (c *CLI) renderInput(cmd *cobra.Command, opts *renderOpts) (map[string][]byte, error) {
	result, err := c.evaluate(cmd, &opts.input, func(o *pipeline.Options) {
		o.Formats = opts.formats
		o.View = opts.view
		o.Labels = opts.labels
		o.Scale = opts.scale
		o.Refresh = opts.refresh
	})
	if err != nil {
		return nil, err
	}
	if !result.Compliant() {
		printWarning(cmd.OutOrStdout(), "%s drawn into the output", violationSummary(result.Violations))
	}
	if opts.savePlan != "" {
		if err := io.ExportPlan(result.Plan, opts.savePlan); err != nil {
			return nil, err
		}
		printFile(cmd.OutOrStdout(), opts.savePlan)
	}
	return result.Artifacts, nil
}

// renderSavedPlan renders a plan file without running the layout engine.
// Violations are recomputed against the active profile.
func (c *CLI) renderSavedPlan(ctx context.Context, opts *renderOpts) (map[string][]byte, error) {
	plan, err := io.ImportPlan(opts.planFile)
	if err != nil {
		return nil, err
	}
	ref := opts.input.profile
	if ref == "" {
		ref = plan.Profile
	}
	if ref == "" {
		ref = c.cfg.Profile
	}
	p, err := profile.Resolve(ref)
	if err != nil {
		return nil, err
	}
	vs := compliance.Check(plan.Parameters, p)
	return pipeline.Render(ctx, plan, vs, p, pipeline.Options{
		Formats: opts.formats,
		View:    opts.view,
		Labels:  opts.labels,
		Scale:   opts.scale,
		Logger:  c.Logger,
	})
}

// outputBase derives the base output path. An explicit output loses its
// format extension; otherwise the input or plan file name is used.
func outputBase(output, input, planFile string) string {
	if output != "" {
		ext := strings.TrimPrefix(filepath.Ext(output), ".")
		if pipeline.ValidFormats[ext] {
			return strings.TrimSuffix(output, "."+ext)
		}
		return output
	}
	for _, src := range []string{input, planFile} {
		if src == "" {
			continue
		}
		base := strings.TrimSuffix(src, filepath.Ext(src))
		return strings.TrimSuffix(base, ".plan")
	}
	return defaultOutputBase
}

// writeArtifact writes data to path, creating parent directories.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// needsConverter reports whether any format goes through rsvg-convert.
func needsConverter(formats []string) bool {
	return slices.Contains(formats, pipeline.FormatPNG) || slices.Contains(formats, pipeline.FormatPDF)
}
