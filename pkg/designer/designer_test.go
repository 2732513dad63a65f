package designer

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/geometry"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/session"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// scriptedInput replays a fixed sequence of inputs and records prompts.
type scriptedInput struct {
	inputs  []*stair.Input
	prompts []Prompt
}

func (s *scriptedInput) Collect(_ context.Context, p Prompt) (*stair.Input, error) {
	s.prompts = append(s.prompts, p)
	if len(s.inputs) == 0 {
		return nil, nil
	}
	in := s.inputs[0]
	s.inputs = s.inputs[1:]
	return in, nil
}

// scriptedPresenter answers with a fixed sequence of dispositions.
type scriptedPresenter struct {
	answers []Disposition
	seen    [][]compliance.Violation
}

func (s *scriptedPresenter) Present(_ context.Context, _ stair.Plan, vs []compliance.Violation) (Disposition, error) {
	s.seen = append(s.seen, vs)
	if len(s.answers) == 0 {
		return DispositionNone, nil
	}
	d := s.answers[0]
	s.answers = s.answers[1:]
	return d, nil
}

func good() *stair.Input {
	return &stair.Input{CenterPoleDia: 6, OverallHeight: 144, OutsideDia: 62, RotationDeg: 450, Direction: stair.Clockwise}
}

func narrow() *stair.Input {
	in := good()
	in.OutsideDia = 40
	return in
}

func newDesigner(inputs []*stair.Input, answers ...Disposition) (*Designer, *scriptedInput, *scriptedPresenter) {
	in := &scriptedInput{inputs: inputs}
	pr := &scriptedPresenter{answers: answers}
	return &Designer{Profile: profile.Default(), Input: in, Presenter: pr}, in, pr
}

func TestRunCompliantBuilds(t *testing.T) {
	d, _, pr := newDesigner([]*stair.Input{good()})
	k := geometry.NewMeshKernel()
	d.Kernel = k

	out, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []State{StateCollectInput, StateValidate, StateLayout, StateCheckCompliance, StateBuild, StateDone}
	if !reflect.DeepEqual(out.Path, want) {
		t.Errorf("Path = %v, want %v", out.Path, want)
	}
	if out.Status != StateDone || out.Cycles != 1 {
		t.Errorf("Status = %s, Cycles = %d", out.Status, out.Cycles)
	}
	if out.Solids != 17 || len(k.Solids()) != 17 {
		t.Errorf("Solids = %d, committed %d; want 17", out.Solids, len(k.Solids()))
	}
	if len(pr.seen) != 0 {
		t.Error("presenter called for a compliant layout")
	}
}

func TestRunInvalidInputRetries(t *testing.T) {
	bad := good()
	bad.OutsideDia = 4
	d, in, _ := newDesigner([]*stair.Input{bad, good()})

	out, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Status != StateDone || out.Cycles != 2 {
		t.Fatalf("Status = %s, Cycles = %d", out.Status, out.Cycles)
	}
	second := in.prompts[1]
	if !errors.Is(second.Err, errors.ErrCodeInvalidDimension) {
		t.Errorf("retry prompt Err = %v", second.Err)
	}
	if second.Prefill == nil || second.Prefill.OutsideDia != 4 {
		t.Errorf("retry prompt should pre-fill the rejected input, got %+v", second.Prefill)
	}
}

func TestRunManualMidLandingOutOfRangeRetries(t *testing.T) {
	bad := good()
	idx := 15
	bad.MidLandingAfterTread = &idx
	d, in, _ := newDesigner([]*stair.Input{bad})

	out, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The collector cancels on the second prompt.
	if out.Status != StateCancelled || out.Plan != nil {
		t.Fatalf("Status = %s, Plan = %v", out.Status, out.Plan)
	}
	if len(in.prompts) != 2 || !errors.Is(in.prompts[1].Err, errors.ErrCodeInvalidMidLanding) {
		t.Fatalf("prompts = %+v", in.prompts)
	}
	if got := *in.prompts[1].Prefill.MidLandingAfterTread; got != 15 {
		t.Errorf("pre-filled index = %d, want the user's 15", got)
	}
}

func TestRunCalculationFailureAborts(t *testing.T) {
	short := good()
	short.OverallHeight = 9
	d, in, _ := newDesigner([]*stair.Input{short, good()})

	out, err := d.Run(context.Background())
	if !errors.Is(err, errors.ErrCodeCalculation) {
		t.Fatalf("want CALCULATION_FAILURE, got %v", err)
	}
	if out.Status != StateAborted {
		t.Errorf("Status = %s, want aborted", out.Status)
	}
	if len(in.prompts) != 1 {
		t.Errorf("collector asked %d times; a calculation failure must not retry", len(in.prompts))
	}
}

func TestRunDispositions(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []*stair.Input
		answers []Disposition
		status  State
		ignored bool
		cycles  int
	}{
		{"try again then fix", []*stair.Input{narrow(), good()}, []Disposition{DispositionTryAgain}, StateDone, false, 2},
		{"ignore", []*stair.Input{narrow()}, []Disposition{DispositionIgnore}, StateDone, true, 1},
		{"cancel", []*stair.Input{narrow()}, []Disposition{DispositionCancel}, StateCancelled, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, in, pr := newDesigner(tt.inputs, tt.answers...)
			out, err := d.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if out.Status != tt.status || out.Ignored != tt.ignored || out.Cycles != tt.cycles {
				t.Errorf("outcome = %+v", out)
			}
			if len(pr.seen) != 1 || pr.seen[0][0].Rule != compliance.RuleClearWidth {
				t.Errorf("presenter saw %v", pr.seen)
			}
			if tt.cycles == 2 && len(in.prompts[1].Violations) != 1 {
				t.Errorf("retry prompt should carry the violations, got %v", in.prompts[1].Violations)
			}
		})
	}
}

func TestRunNoDispositionIsError(t *testing.T) {
	d, _, _ := newDesigner([]*stair.Input{narrow()})
	out, err := d.Run(context.Background())
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Fatalf("want INTERNAL_ERROR, got %v", err)
	}
	if out.Status == StateDone {
		t.Error("missing disposition must not proceed")
	}
}

func TestRunCancelledByCollector(t *testing.T) {
	d, _, _ := newDesigner(nil)
	out, err := d.Run(context.Background())
	if err != nil || out.Status != StateCancelled {
		t.Fatalf("Run = %+v, %v", out, err)
	}
}

func TestRunMaxCycles(t *testing.T) {
	bad := good()
	bad.RotationDeg = 0
	tests := []struct {
		name      string
		inputs    []*stair.Input
		maxCycles int
		want      State
		cycles    int
	}{
		{"limit reached", []*stair.Input{bad, bad, bad, bad}, 2, StateExhausted, 2},
		{"user cancels before limit", []*stair.Input{bad, nil}, 3, StateCancelled, 2},
		{"success on last cycle", []*stair.Input{bad, good()}, 2, StateDone, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, _ := newDesigner(tt.inputs)
			d.MaxCycles = tt.maxCycles
			out, err := d.Run(context.Background())
			if err != nil || out.Status != tt.want || out.Cycles != tt.cycles {
				t.Fatalf("Run = %+v, %v; want %s after %d cycles", out, err, tt.want, tt.cycles)
			}
			if !out.Status.Terminal() {
				t.Errorf("%s is not terminal", out.Status)
			}
		})
	}
}

func TestRunPrefill(t *testing.T) {
	ctx := context.Background()
	store := session.NewPrefill(session.NewMemoryStore(), "")
	v, err := stair.Validate(*narrow())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Remember(ctx, v, "residential"); err != nil {
		t.Fatal(err)
	}

	d, in, _ := newDesigner([]*stair.Input{good()})
	d.Prefill = store
	if _, err := d.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if p := in.prompts[0].Prefill; p == nil || p.OutsideDia != 40 {
		t.Errorf("first prompt pre-fill = %+v, want remembered input", p)
	}
	last, _ := store.Last(ctx)
	if last == nil || last.OutsideDia != 62 {
		t.Errorf("remembered input = %+v, want latest valid input", last)
	}
}

type brokenKernel struct{ *geometry.MeshKernel }

func (brokenKernel) Extrude(geometry.Region, float64) (geometry.Solid, error) {
	return nil, fmt.Errorf("out of memory")
}

func TestRunBuildFailureAborts(t *testing.T) {
	d, _, _ := newDesigner([]*stair.Input{good()})
	k := brokenKernel{geometry.NewMeshKernel()}
	d.Kernel = k
	out, err := d.Run(context.Background())
	if !errors.Is(err, errors.ErrCodeGeometry) {
		t.Fatalf("want GEOMETRY_FAILURE, got %v", err)
	}
	if out.Status != StateAborted || len(k.Solids()) != 0 {
		t.Errorf("Status = %s, committed %d", out.Status, len(k.Solids()))
	}
}

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateCollectInput, StateValidate, true},
		{StateValidate, StateCollectInput, true},
		{StateLayout, StateAborted, true},
		{StateCheckCompliance, StateBuild, true},
		{StateCheckCompliance, StateCancelled, true},
		{StateCollectInput, StateExhausted, true},
		{StateCheckCompliance, StateExhausted, false},
		{StateCollectInput, StateBuild, false},
		{StateValidate, StateAborted, false},
		{StateDone, StateCollectInput, false},
		{StateBuild, StateCollectInput, false},
	}
	for _, tt := range tests {
		if got := IsValidTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("IsValidTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
