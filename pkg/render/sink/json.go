package sink

import (
	"encoding/json"

	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/geometry"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	violations []compliance.Violation
	checked    bool
	recipes    bool
	codeRef    string
}

// WithJSONViolations embeds the compliance result and sets "compliant".
// Without it both fields are omitted.
func WithJSONViolations(vs []compliance.Violation) JSONOption {
	return func(r *jsonRenderer) { r.violations = vs; r.checked = true }
}

// WithJSONRecipes includes the geometry recipes the plan expands to.
func WithJSONRecipes() JSONOption { return func(r *jsonRenderer) { r.recipes = true } }

// WithJSONCodeRef records the building code the plan was checked against.
func WithJSONCodeRef(ref string) JSONOption { return func(r *jsonRenderer) { r.codeRef = ref } }

type jsonOutput struct {
	Profile    string                 `json:"profile"`
	CodeRef    string                 `json:"code_ref,omitempty"`
	Strategy   string                 `json:"strategy"`
	Parameters stair.Parameters       `json:"parameters"`
	Summary    jsonSummary            `json:"summary"`
	Steps      []stair.Step           `json:"steps"`
	Compliant  *bool                  `json:"compliant,omitempty"`
	Violations []compliance.Violation `json:"violations,omitempty"`
	Recipes    []geometry.Recipe      `json:"recipes,omitempty"`
}

type jsonSummary struct {
	Treads        int     `json:"treads"`
	TreadsBefore  int     `json:"treads_before_landing"`
	TreadsAfter   int     `json:"treads_after_landing"`
	ClimbSweepDeg float64 `json:"climb_sweep_deg"`
}

// RenderJSON serializes the plan with a summary block.
func RenderJSON(plan stair.Plan, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Profile:    plan.Profile,
		CodeRef:    r.codeRef,
		Strategy:   plan.Strategy,
		Parameters: plan.Parameters,
		Steps:      plan.Steps,
		Summary: jsonSummary{
			Treads:        plan.TreadCount(),
			TreadsBefore:  plan.TreadsBefore(),
			TreadsAfter:   plan.TreadsAfter(),
			ClimbSweepDeg: plan.ClimbSweepDeg(),
		},
	}
	if r.checked {
		ok := len(r.violations) == 0
		out.Compliant = &ok
		out.Violations = r.violations
	}
	if r.recipes {
		out.Recipes = geometry.Generate(plan)
	}
	return json.MarshalIndent(out, "", "  ")
}
