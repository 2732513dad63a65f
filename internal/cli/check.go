package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/pipeline"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	input  inputFlags
	strict bool // exit 4 when any rule fails
	json   bool // print violations as JSON
}

// checkReport is the JSON form of a check.
type checkReport struct {
	Profile    string                 `json:"profile"`
	CodeRef    string                 `json:"code_ref,omitempty"`
	Compliant  bool                   `json:"compliant"`
	Violations []compliance.Violation `json:"violations"`
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a spiral stair against a code profile",
		Long: `Lay out the stair and run every compliance rule of the active profile:
clear width, walkline radius, walkline tread depth, riser height, headroom and
mid-landing. Each violation comes with a suggested fix.

Violations are reported, not treated as failures, unless --strict is set.`,
		Example: `  spiralstair check --pole 6 --height 144 --outside 60 --rotation 450
  spiralstair check -i stair.yaml --profile commercial --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, &opts)
		},
	}

	opts.input.bind(cmd)
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with status 4 when violations are found")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, opts *checkOpts) error {
	result, err := c.evaluate(cmd, &opts.input, nil)
	if err != nil {
		return err
	}
	if opts.json {
		if err := writeJSON(cmd, newCheckReport(result)); err != nil {
			return err
		}
	} else {
		printCheck(cmd, result)
	}

	if opts.strict && !result.Compliant() {
		return withExitCode(ExitViolations, nil)
	}
	return nil
}

func newCheckReport(result *pipeline.Result) checkReport {
	vs := result.Violations
	if vs == nil {
		vs = []compliance.Violation{}
	}
	return checkReport{
		Profile:    result.Profile.Name,
		CodeRef:    result.Profile.CodeRef,
		Compliant:  result.Compliant(),
		Violations: vs,
	}
}

func printCheck(cmd *cobra.Command, result *pipeline.Result) {
	w := cmd.OutOrStdout()
	title := result.Profile.Name
	if result.Profile.CodeRef != "" {
		title += " (" + result.Profile.CodeRef + ")"
	}
	fmt.Fprintln(w, StyleTitle.Render("Compliance · "+title))
	printStats(w, result.Plan, result.CacheInfo.LayoutHit)

	if result.Compliant() {
		printSuccess(w, "All %d rules pass", len(compliance.Rules))
		return
	}
	printViolations(w, result.Violations)
	printWarning(w, "%s", violationSummary(result.Violations))
}
