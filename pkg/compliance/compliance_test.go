package compliance

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/spiralstair/pkg/layout"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

func residential(t *testing.T) profile.Profile {
	t.Helper()
	p, err := profile.LoadBuiltin("residential")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// params runs the real engine so the checker sees realistic parameters.
func params(t *testing.T, in stair.Input) stair.Parameters {
	t.Helper()
	v, err := stair.Validate(in)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	plan, err := layout.Compute(v, residential(t), layout.Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return plan.Parameters
}

func compliant() stair.Input {
	return stair.Input{CenterPoleDia: 6, OverallHeight: 144, OutsideDia: 62, RotationDeg: 450, Direction: stair.Clockwise}
}

func ruleNames(vs []Violation) []Rule {
	out := make([]Rule, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Rule)
	}
	return out
}

func TestCheckCompliant(t *testing.T) {
	if vs := Check(params(t, compliant()), residential(t)); len(vs) != 0 {
		t.Errorf("unexpected violations: %v", vs)
	}
}

func TestCheckScenarioCClearWidth(t *testing.T) {
	in := compliant()
	in.OutsideDia = 40
	vs := Check(params(t, in), residential(t))
	if len(vs) != 1 || vs[0].Rule != RuleClearWidth {
		t.Fatalf("violations = %v, want clear_width only", ruleNames(vs))
	}
	v := vs[0]
	if math.Abs(v.Measured-15.5) > 1e-9 {
		t.Errorf("Measured = %v, want 15.5", v.Measured)
	}
	if v.Suggested == nil || v.Suggested.Field != FieldOutsideDia || v.Suggested.Value != 61.0 {
		t.Fatalf("Suggested = %+v, want outside_dia 61", v.Suggested)
	}
	if v.SuggestedFix != "Increase the outside diameter to 61 in." {
		t.Errorf("SuggestedFix = %q", v.SuggestedFix)
	}
	if v.CodeRef != "IRC R311.7" {
		t.Errorf("CodeRef = %q", v.CodeRef)
	}

	// Applying the fix clears the rule.
	in.OutsideDia = v.Suggested.Value
	if vs := Check(params(t, in), residential(t)); len(vs) != 0 {
		t.Errorf("after fix: %v", ruleNames(vs))
	}
}

func TestCheckScenarioDHeadroom(t *testing.T) {
	in := compliant()
	in.OverallHeight = 60
	vs := Check(params(t, in), residential(t))
	if len(vs) != 1 || vs[0].Rule != RuleHeadroom {
		t.Fatalf("violations = %v, want headroom only", ruleNames(vs))
	}
	if vs[0].Suggested.Value != 78 {
		t.Errorf("suggested height = %v, want 78", vs[0].Suggested.Value)
	}
}

func TestCheckWalklineRadius(t *testing.T) {
	in := compliant()
	in.CenterPoleDia = 30
	in.OutsideDia = 100
	vs := Check(params(t, in), residential(t))
	var found *Violation
	for i := range vs {
		if vs[i].Rule == RuleWalklineRadius {
			found = &vs[i]
		}
	}
	if found == nil {
		t.Fatalf("no walkline_radius violation in %v", ruleNames(vs))
	}
	if found.Measured != 27 || found.Suggested.Value != 25 {
		t.Errorf("measured %v suggested %v; want 27, 25", found.Measured, found.Suggested.Value)
	}
}

func TestCheckWalklineDepth(t *testing.T) {
	in := compliant()
	in.RotationDeg = 180
	p := residential(t)
	vs := Check(params(t, in), p)
	if len(vs) != 1 || vs[0].Rule != RuleWalklineDepth {
		t.Fatalf("violations = %v, want walkline_depth only", ruleNames(vs))
	}
	got := vs[0].Suggested.Value
	if got != 387 {
		t.Errorf("suggested rotation = %v, want 387", got)
	}
	in.RotationDeg = got
	if vs := Check(params(t, in), p); len(vs) != 0 {
		t.Errorf("after fix: %v", ruleNames(vs))
	}
}

func TestCheckWalklineDepthWithMidLanding(t *testing.T) {
	in := compliant()
	in.OverallHeight = 160
	in.RotationDeg = 270
	p := residential(t)
	prm := params(t, in)
	if !prm.HasMidLanding {
		t.Fatal("expected a mid-landing")
	}
	vs := Check(prm, p)
	if len(vs) != 1 || vs[0].Rule != RuleWalklineDepth {
		t.Fatalf("violations = %v", ruleNames(vs))
	}
	in.RotationDeg = vs[0].Suggested.Value
	if vs := Check(params(t, in), p); len(vs) != 0 {
		t.Errorf("after fix: %v", ruleNames(vs))
	}
}

func TestCheckRiserHeight(t *testing.T) {
	commercial, err := profile.LoadBuiltin("commercial")
	if err != nil {
		t.Fatal(err)
	}
	// A residential plan checked against the stricter profile.
	vs := Check(params(t, compliant()), commercial)
	if len(vs) != 1 || vs[0].Rule != RuleRiserHeight {
		t.Fatalf("violations = %v, want riser_height only", ruleNames(vs))
	}
	if vs[0].Suggested.Field != FieldNumTreads || vs[0].Suggested.Value != 18 {
		t.Errorf("Suggested = %+v, want 18 treads", vs[0].Suggested)
	}
}

func TestCheckFinalRise(t *testing.T) {
	commercial, err := profile.LoadBuiltin("commercial")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		profile  profile.Profile
		strategy layout.Strategy
		want     float64 // measured final rise; zero for no violation
	}{
		{"commercial top clearance", commercial, layout.StrategyTopClearance, 8.75},
		{"commercial forward", commercial, layout.StrategyForward, 0},
		{"residential top clearance", residential(t), layout.StrategyTopClearance, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := compliant()
			in.OverallHeight = 120
			vi, err := stair.Validate(in)
			if err != nil {
				t.Fatal(err)
			}
			plan, err := layout.Compute(vi, tt.profile, layout.Options{Strategy: tt.strategy})
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if plan.Parameters.RiserHeight > tt.profile.MaxRiser {
				t.Fatalf("regular riser %.4f exceeds %.2f", plan.Parameters.RiserHeight, tt.profile.MaxRiser)
			}
			var found *Violation
			for _, v := range Check(plan.Parameters, tt.profile) {
				if v.Rule == RuleRiserHeight {
					found = &v
				}
			}
			if tt.want == 0 {
				if found != nil {
					t.Fatalf("unexpected riser violation: %v", found)
				}
				return
			}
			if found == nil {
				t.Fatal("final rise into the top landing not reported")
			}
			if math.Abs(found.Measured-tt.want) > 1e-9 || found.Limit != tt.profile.MaxRiser {
				t.Errorf("Measured = %v, Limit = %v; want %v, %v", found.Measured, found.Limit, tt.want, tt.profile.MaxRiser)
			}
		})
	}
}

func TestCheckSkippedMidLanding(t *testing.T) {
	in := compliant()
	in.OverallHeight = 160
	in.SkipMidLanding = true
	vs := Check(params(t, in), residential(t))
	if len(vs) != 1 || vs[0].Rule != RuleMidLanding {
		t.Fatalf("violations = %v, want mid_landing only", ruleNames(vs))
	}
	if vs[0].Suggested.Value != 8 {
		t.Errorf("suggested landing = %v, want 8", vs[0].Suggested.Value)
	}
}

func TestCheckCollectsAll(t *testing.T) {
	in := stair.Input{CenterPoleDia: 6, OverallHeight: 60, OutsideDia: 40, RotationDeg: 90, Direction: stair.Clockwise}
	got := ruleNames(Check(params(t, in), residential(t)))
	want := []Rule{RuleClearWidth, RuleWalklineDepth, RuleHeadroom}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rules = %v, want %v", got, want)
	}
}

func TestCheckIdempotent(t *testing.T) {
	in := stair.Input{CenterPoleDia: 30, OverallHeight: 60, OutsideDia: 40, RotationDeg: 90, Direction: stair.Clockwise}
	prm := params(t, in)
	p := residential(t)
	a, b := Check(prm, p), Check(prm, p)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Check is not idempotent:\n%v\n%v", a, b)
	}
}

func TestCheckClearWidthMonotonic(t *testing.T) {
	p := residential(t)
	prm := params(t, compliant())
	prev := math.Inf(1)
	for od := 30.0; od <= 64; od += 0.5 {
		prm.OutsideDia = od
		shortfall := 0.0
		for _, v := range Check(prm, p) {
			if v.Rule == RuleClearWidth {
				shortfall = v.Limit - v.Measured
			}
		}
		if shortfall > 0 && shortfall >= prev {
			t.Fatalf("od=%v: shortfall %v did not decrease from %v", od, shortfall, prev)
		}
		if prev == 0 && shortfall > 0 {
			t.Fatalf("od=%v: violation reappeared", od)
		}
		prev = shortfall
	}
	if prev != 0 {
		t.Errorf("clear width still violated at 64 in.")
	}
}

func TestInches(t *testing.T) {
	for v, want := range map[float64]string{61: "61", 60.5: "60.5", 60.25: "60.25", 25: "25"} {
		if got := inches(v); got != want {
			t.Errorf("inches(%v) = %q, want %q", v, got, want)
		}
	}
}
