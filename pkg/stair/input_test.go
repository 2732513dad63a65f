package stair

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/spiralstair/pkg/errors"
)

func validInput() Input {
	return Input{
		CenterPoleDia: 6,
		OverallHeight: 144,
		OutsideDia:    60,
		RotationDeg:   450,
		Direction:     Clockwise,
	}
}

func intPtr(v int) *int { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
		code   errors.Code
	}{
		{"valid", func(*Input) {}, ""},
		{"zero pole", func(in *Input) { in.CenterPoleDia = 0 }, errors.ErrCodeInvalidDimension},
		{"negative height", func(in *Input) { in.OverallHeight = -1 }, errors.ErrCodeInvalidDimension},
		{"NaN outside", func(in *Input) { in.OutsideDia = math.NaN() }, errors.ErrCodeInvalidDimension},
		{"infinite height", func(in *Input) { in.OverallHeight = math.Inf(1) }, errors.ErrCodeInvalidDimension},
		{"pole equals outside", func(in *Input) { in.CenterPoleDia = 60 }, errors.ErrCodeInvalidDimension},
		{"pole exceeds outside", func(in *Input) { in.CenterPoleDia = 70 }, errors.ErrCodeInvalidDimension},
		{"zero rotation", func(in *Input) { in.RotationDeg = 0 }, errors.ErrCodeInvalidRotation},
		{"negative rotation", func(in *Input) { in.RotationDeg = -90 }, errors.ErrCodeInvalidRotation},
		{"rotation at limit", func(in *Input) { in.RotationDeg = 3600 }, ""},
		{"rotation above limit", func(in *Input) { in.RotationDeg = 3600.5 }, errors.ErrCodeInvalidRotation},
		{"unset direction", func(in *Input) { in.Direction = DirectionUnset }, errors.ErrCodeInvalidDirection},
		{"bogus direction", func(in *Input) { in.Direction = "sideways" }, errors.ErrCodeInvalidDirection},
		{"manual index zero", func(in *Input) { in.MidLandingAfterTread = intPtr(0) }, errors.ErrCodeInvalidMidLanding},
		{"manual index one", func(in *Input) { in.MidLandingAfterTread = intPtr(1) }, ""},
		{"manual index with skip", func(in *Input) {
			in.MidLandingAfterTread = intPtr(4)
			in.SkipMidLanding = true
		}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(&in)
			_, err := Validate(in)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate: unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("Validate: got %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidateCopiesManualIndex(t *testing.T) {
	in := validInput()
	in.MidLandingAfterTread = intPtr(5)
	v, err := Validate(in)
	if err != nil {
		t.Fatal(err)
	}
	*in.MidLandingAfterTread = 9

	got, ok := v.MidLandingAfterTread()
	if !ok || got != 5 {
		t.Errorf("MidLandingAfterTread() = %d, %v; want 5, true", got, ok)
	}

	out := v.Input()
	*out.MidLandingAfterTread = 11
	if got, _ := v.MidLandingAfterTread(); got != 5 {
		t.Errorf("Input() leaked internal pointer, index now %d", got)
	}
}

func TestValidatedAccessors(t *testing.T) {
	v, err := Validate(validInput())
	if err != nil {
		t.Fatal(err)
	}
	if v.CenterPoleDia() != 6 || v.OverallHeight() != 144 || v.OutsideDia() != 60 || v.RotationDeg() != 450 {
		t.Errorf("accessors do not echo input: %+v", v.Input())
	}
	if v.Direction() != Clockwise {
		t.Errorf("Direction() = %q", v.Direction())
	}
	if _, ok := v.MidLandingAfterTread(); ok {
		t.Error("MidLandingAfterTread() reported a manual index")
	}
	if v.SkipMidLanding() {
		t.Error("SkipMidLanding() = true")
	}
}

func TestInputSchema(t *testing.T) {
	s := InputSchema()
	if s.Type != "object" {
		t.Fatalf("Type = %q, want object", s.Type)
	}
	for _, name := range []string{"center_pole_dia", "overall_height", "outside_dia", "rotation_deg", "direction"} {
		if _, ok := s.Properties.Get(name); !ok {
			t.Errorf("missing property %s", name)
		}
		if !slices.Contains(s.Required, name) {
			t.Errorf("%s not required", name)
		}
	}
	if slices.Contains(s.Required, "mid_landing_after_tread") {
		t.Error("mid_landing_after_tread should be optional")
	}
	dir, _ := s.Properties.Get("direction")
	if len(dir.Enum) != 2 {
		t.Errorf("direction enum = %v", dir.Enum)
	}
}
