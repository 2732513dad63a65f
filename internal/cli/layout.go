package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/spiralstair/pkg/pipeline"
	"github.com/matzehuels/spiralstair/pkg/render/sink"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	input inputFlags
	json  bool // print the plan as JSON instead of a table
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the step plan of a spiral stair",
		Long: `Compute riser height, tread angle and the mid-landing position, then print
every step with its elevation and sweep. Compliance findings are summarized;
use "check" for the full report.`,
		Example: `  spiralstair layout --pole 6 --height 144 --outside 60 --rotation 450
  spiralstair layout -i stair.toml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, &opts)
		},
	}

	opts.input.bind(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the plan as JSON")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, opts *layoutOpts) error {
	result, err := c.evaluate(cmd, &opts.input, nil)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if opts.json {
		data, err := sink.RenderJSON(result.Plan,
			sink.WithJSONViolations(result.Violations),
			sink.WithJSONCodeRef(result.Profile.CodeRef))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Spiral stair · %s", result.Profile.Name)))
	printParameters(w, result.Plan.Parameters)
	fmt.Fprintln(w, planTable(result.Plan))
	printStats(w, result.Plan, result.CacheInfo.LayoutHit)

	if !result.Compliant() {
		printWarning(w, "%s", violationSummary(result.Violations))
		printNextStep(w, "See details", "spiralstair check "+flagSummary(cmd))
	}
	return nil
}

// evaluate runs the pipeline for the command's input flags. tweak adjusts
// options before the run; without formats nothing is rendered.
func (c *CLI) evaluate(cmd *cobra.Command, f *inputFlags, tweak func(*pipeline.Options)) (*pipeline.Result, error) {
	in, err := f.resolve(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := c.pipelineOptions(f.profile, f.strategy)
	if err != nil {
		return nil, err
	}
	if tweak != nil {
		tweak(&opts)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	return runner.Evaluate(ctx, in, opts)
}

// flagSummary echoes the flags the user set, for next-step hints.
func flagSummary(cmd *cobra.Command) string {
	var s string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == "json" {
			return
		}
		if s != "" {
			s += " "
		}
		s += "--" + f.Name + "=" + f.Value.String()
	})
	return s
}
