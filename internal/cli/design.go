package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/designer"
	"github.com/matzehuels/spiralstair/pkg/geometry"
	"github.com/matzehuels/spiralstair/pkg/io"
	"github.com/matzehuels/spiralstair/pkg/layout"
	"github.com/matzehuels/spiralstair/pkg/observability"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/session"
)

// designOpts holds the command-line flags for the design command.
type designOpts struct {
	profile   string
	strategy  string
	sessionID string // pre-fill session; defaults to the local workstation
	noSession bool   // start from an empty form and remember nothing
	maxCycles int
	save      string // write the accepted input to this file
	savePlan  string // write the accepted plan to this file
}

// designCommand creates the interactive design command.
func (c *CLI) designCommand() *cobra.Command {
	var opts designOpts

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Design a spiral stair interactively",
		Long: `Enter dimensions in a terminal form, see the layout checked against the
active profile, and choose to try again, ignore the violations or cancel.
The last valid input is remembered and pre-fills the next session.

An accepted stair is built into an in-memory mesh and can be saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDesign(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "code profile name or file (default from config)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "riser strategy: forward, top-clearance")
	cmd.Flags().StringVar(&opts.sessionID, "session", session.DefaultID, "pre-fill session ID")
	cmd.Flags().BoolVar(&opts.noSession, "no-session", false, "do not read or remember previous input")
	cmd.Flags().IntVar(&opts.maxCycles, "max-cycles", 0, "give up after this many input cycles (0 = unlimited)")
	cmd.Flags().StringVar(&opts.save, "save", "", "write the accepted input to a TOML, YAML or JSON file")
	cmd.Flags().StringVar(&opts.savePlan, "save-plan", "", "write the accepted plan as JSON")

	return cmd
}

func (c *CLI) runDesign(cmd *cobra.Command, opts *designOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := loggerFromContext(ctx)
	w := cmd.OutOrStdout()

	ref := opts.profile
	if ref == "" {
		ref = c.cfg.Profile
	}
	p, err := profile.Resolve(ref)
	if err != nil {
		return err
	}
	lo, err := c.cfg.LayoutOptions()
	if err != nil {
		return err
	}
	if opts.strategy != "" {
		s, err := layout.ParseStrategy(opts.strategy)
		if err != nil {
			return err
		}
		lo.Strategy = s
	}

	observability.NewLogHooks(logger).Register()
	defer observability.Reset()

	prompter := &teaPrompter{in: cmd.InOrStdin(), out: cmd.ErrOrStderr()}
	kernel := geometry.NewMeshKernel()
	d := &designer.Designer{
		Profile:   p,
		Options:   lo,
		Input:     prompter,
		Presenter: prompter,
		Kernel:    kernel,
		Logger:    logger,
		MaxCycles: opts.maxCycles,
	}

	if !opts.noSession {
		store, err := c.newSessionStore(ctx)
		if err != nil {
			logger.Warn("pre-fill disabled", "err", err)
		} else if store != nil {
			defer closeSessionStore(ctx, store)
			d.Prefill = session.NewPrefill(store, opts.sessionID)
		}
	}

	out, err := d.Run(ctx)
	if err != nil {
		return err
	}

	switch out.Status {
	case designer.StateCancelled:
		printInfo(w, "Cancelled after %d cycle(s)", out.Cycles)
		return nil
	case designer.StateExhausted:
		printWarning(w, "No design after %d cycle(s); giving up", out.Cycles)
		return nil
	case designer.StateDone:
	default:
		return fmt.Errorf("design ended in state %s", out.Status)
	}

	if out.Ignored {
		printWarning(w, "Built with %s", violationSummary(out.Violations))
	} else {
		printSuccess(w, "Stair complies with %s", p.Name)
	}
	printParameters(w, out.Plan.Parameters)
	printStats(w, *out.Plan, false)
	printDetail(w, "%d solids, %.0f cu in", out.Solids, kernel.TotalVolume())

	if opts.save != "" && prompter.last != nil {
		if err := io.ExportInput(*prompter.last, opts.save); err != nil {
			return err
		}
		printFile(w, opts.save)
	}
	if opts.savePlan != "" {
		if err := io.ExportPlan(*out.Plan, opts.savePlan); err != nil {
			return err
		}
		printFile(w, opts.savePlan)
		printNextStep(w, "Draw it", "spiralstair render --plan "+opts.savePlan)
	}
	return nil
}
