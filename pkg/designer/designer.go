// Package designer runs the interactive design loop: collect input,
// validate, lay out, check compliance, and either build, retry or stop.
//
// The loop owns no I/O. It talks to an [InputCollector] for dimensions, a
// [ViolationPresenter] for the user's answer to a violation report, an
// optional [PrefillStore] that remembers the last valid input, and an
// optional [geometry.Kernel] that receives the finished stair.
//
// Outcomes per stage:
//   - invalid input: the message is shown and input is collected again
//   - out-of-range manual mid-landing: same as invalid input, the position
//     is never moved silently
//   - any other calculation failure: the loop aborts
//   - violations: the presenter must answer try again, ignore or cancel
package designer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/geometry"
	"github.com/matzehuels/spiralstair/pkg/layout"
	"github.com/matzehuels/spiralstair/pkg/observability"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// Prompt is what the collector is asked to show for one cycle.
type Prompt struct {
	// Prefill is the input to pre-populate the form with; nil for an empty
	// form.
	Prefill *stair.Input
	// Err is the reason the previous attempt was rejected, if any.
	Err error
	// Violations are the findings the user chose to fix, if any.
	Violations []compliance.Violation
	// Cycle counts from 1.
	Cycle int
	// Profile is the active code profile.
	Profile profile.Profile
}

// InputCollector supplies raw input. A nil input means the user cancelled.
type InputCollector interface {
	Collect(ctx context.Context, p Prompt) (*stair.Input, error)
}

// ViolationPresenter shows violations and returns the user's disposition.
type ViolationPresenter interface {
	Present(ctx context.Context, plan stair.Plan, violations []compliance.Violation) (Disposition, error)
}

// PrefillStore remembers the last successfully validated input.
// *session.Prefill satisfies it.
type PrefillStore interface {
	Last(ctx context.Context) (*stair.Input, error)
	Remember(ctx context.Context, in stair.ValidatedInput, profile string) error
}

// Outcome summarizes a finished loop.
type Outcome struct {
	Status     State                  `json:"status"`
	Plan       *stair.Plan            `json:"plan,omitempty"`
	Violations []compliance.Violation `json:"violations,omitempty"`
	Ignored    bool                   `json:"ignored,omitempty"`
	Cycles     int                    `json:"cycles"`
	Solids     int                    `json:"solids"`
	Path       []State                `json:"path"`
}

// Designer wires the loop's collaborators. Input and Presenter are
// required; the rest are optional.
type Designer struct {
	Profile   profile.Profile
	Options   layout.Options
	Input     InputCollector
	Presenter ViolationPresenter
	Prefill   PrefillStore
	Kernel    geometry.Kernel
	Logger    *log.Logger

	// MaxCycles stops the loop in StateExhausted after that many input
	// cycles. Zero means unlimited.
	MaxCycles int
}

// run carries the mutable state of one Run call.
type run struct {
	d     *Designer
	state State
	out   Outcome

	raw       *stair.Input
	validated stair.ValidatedInput
	plan      stair.Plan
	prompt    Prompt
}

// Run drives the loop until it reaches a terminal state. A calculation
// failure is returned as an error together with an aborted outcome;
// cancellation by the user returns a cancelled outcome and no error, and
// running out of MaxCycles returns an exhausted outcome and no error.
func (d *Designer) Run(ctx context.Context) (Outcome, error) {
	if d.Input == nil || d.Presenter == nil {
		return Outcome{}, errors.New(errors.ErrCodeInternal, "designer needs an input collector and a violation presenter")
	}
	r := &run{d: d, state: StateCollectInput, out: Outcome{Path: []State{StateCollectInput}}}
	r.prompt = Prompt{Profile: d.Profile}

	if d.Prefill != nil {
		last, err := d.Prefill.Last(ctx)
		if err != nil {
			d.logger().Warn("could not load previous input", "err", err)
		}
		r.prompt.Prefill = last
	}

	for !r.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return r.out, err
		}
		next, err := r.step(ctx)
		if err != nil && next != StateAborted {
			return r.out, err
		}
		if terr := r.transition(ctx, next); terr != nil {
			return r.out, terr
		}
		if err != nil {
			return r.out, err
		}
	}
	return r.out, nil
}

func (d *Designer) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.Default()
}

func (r *run) transition(ctx context.Context, to State) error {
	if !IsValidTransition(r.state, to) {
		return errors.New(errors.ErrCodeInternal, "invalid design transition %s -> %s", r.state, to)
	}
	observability.Designer().OnTransition(ctx, string(r.state), string(to))
	r.d.logger().Debug("design state", "from", r.state, "to", to, "cycle", r.out.Cycles)
	r.state = to
	r.out.Status = to
	r.out.Path = append(r.out.Path, to)
	return nil
}

// step executes the current state and returns the next one. An error with
// next == StateAborted ends the loop after the transition is recorded.
func (r *run) step(ctx context.Context) (State, error) {
	switch r.state {
	case StateCollectInput:
		return r.collect(ctx)
	case StateValidate:
		return r.validate(ctx), nil
	case StateLayout:
		return r.layout()
	case StateCheckCompliance:
		return r.check(ctx)
	case StateBuild:
		return r.build(ctx)
	}
	return "", fmt.Errorf("designer: no handler for state %s", r.state)
}

func (r *run) collect(ctx context.Context) (State, error) {
	if r.d.MaxCycles > 0 && r.out.Cycles >= r.d.MaxCycles {
		r.d.logger().Warn("giving up after maximum input cycles", "cycles", r.out.Cycles)
		return StateExhausted, nil
	}
	r.out.Cycles++
	r.prompt.Cycle = r.out.Cycles

	in, err := r.d.Input.Collect(ctx, r.prompt)
	if err != nil {
		return "", fmt.Errorf("collect input: %w", err)
	}
	if in == nil {
		return StateCancelled, nil
	}
	r.raw = in
	return StateValidate, nil
}

func (r *run) validate(ctx context.Context) State {
	v, err := stair.Validate(*r.raw)
	if err != nil {
		r.retry(err, nil)
		return StateCollectInput
	}
	r.validated = v
	if r.d.Prefill != nil {
		if err := r.d.Prefill.Remember(ctx, v, r.d.Profile.Name); err != nil {
			r.d.logger().Warn("could not remember input", "err", err)
		}
	}
	return StateLayout
}

func (r *run) layout() (State, error) {
	plan, err := layout.Compute(r.validated, r.d.Profile, r.d.Options)
	switch {
	case err == nil:
		r.plan = plan
		r.out.Plan = &plan
		return StateCheckCompliance, nil
	case errors.Is(err, errors.ErrCodeInvalidMidLanding):
		r.retry(err, nil)
		return StateCollectInput, nil
	default:
		return StateAborted, err
	}
}

func (r *run) check(ctx context.Context) (State, error) {
	vs := compliance.Check(r.plan.Parameters, r.d.Profile)
	r.out.Violations = vs
	if len(vs) == 0 {
		return StateBuild, nil
	}

	disp, err := r.d.Presenter.Present(ctx, r.plan, vs)
	if err != nil {
		return "", fmt.Errorf("present violations: %w", err)
	}
	observability.Designer().OnDisposition(ctx, disp.String(), len(vs))

	switch disp {
	case DispositionTryAgain:
		r.retry(nil, vs)
		return StateCollectInput, nil
	case DispositionIgnore:
		r.out.Ignored = true
		r.d.logger().Warn("proceeding with violations", "count", len(vs))
		return StateBuild, nil
	case DispositionCancel:
		return StateCancelled, nil
	}
	return "", errors.New(errors.ErrCodeInternal, "violation presenter returned no disposition")
}

func (r *run) build(ctx context.Context) (State, error) {
	if r.d.Kernel == nil {
		return StateDone, nil
	}
	n, err := geometry.Build(ctx, r.d.Kernel, geometry.Generate(r.plan))
	if err != nil {
		return StateAborted, err
	}
	r.out.Solids = n
	return StateDone, nil
}

// retry prepares the next prompt with the rejected input as pre-fill.
func (r *run) retry(err error, vs []compliance.Violation) {
	if r.raw != nil {
		in := *r.raw
		r.prompt.Prefill = &in
	}
	r.prompt.Err = err
	r.prompt.Violations = vs
}
