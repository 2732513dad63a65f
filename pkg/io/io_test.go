package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/layout"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

func want() stair.Input {
	idx := 7
	return stair.Input{
		CenterPoleDia:        6,
		OverallHeight:        160,
		OutsideDia:           60,
		RotationDeg:          450,
		Direction:            stair.CounterClockwise,
		MidLandingAfterTread: &idx,
	}
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"toml", FormatTOML, `
center_pole_dia = 6
overall_height = 160
outside_dia = 60
rotation_deg = 450
direction = "ccw"
mid_landing_after_tread = 7
`},
		{"yaml", FormatYAML, `
center_pole_dia: 6
overall_height: 160
outside_dia: 60
rotation_deg: 450
direction: counter-clockwise
mid_landing_after_tread: 7
`},
		{"json", FormatJSON, `{"center_pole_dia": 6, "overall_height": 160, "outside_dia": 60,
"rotation_deg": 450, "direction": "counterclockwise", "mid_landing_after_tread": 7}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadInput(strings.NewReader(tt.data), tt.format)
			if err != nil {
				t.Fatalf("ReadInput: %v", err)
			}
			if !reflect.DeepEqual(got, want()) {
				t.Errorf("got %+v, want %+v", got, want())
			}
		})
	}
}

func TestReadInputErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
		code   errors.Code
	}{
		{"toml unknown key", FormatTOML, "outside_diameter = 60", errors.ErrCodeInvalidInput},
		{"yaml unknown key", FormatYAML, "outside_diameter: 60", errors.ErrCodeInvalidInput},
		{"json unknown key", FormatJSON, `{"outside_diameter": 60}`, errors.ErrCodeInvalidInput},
		{"malformed", FormatJSON, `{`, errors.ErrCodeInvalidInput},
		{"direction", FormatTOML, `direction = "up"`, errors.ErrCodeInvalidDirection},
		{"format", Format("ini"), ``, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadInput(strings.NewReader(tt.data), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadInputLeavesDirectionUnset(t *testing.T) {
	in, err := ReadInput(strings.NewReader("overall_height = 100"), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if in.Direction != stair.DirectionUnset {
		t.Errorf("Direction = %q, want unset", in.Direction)
	}
}

func TestExportImportInput(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"stair.toml", "stair.yaml", "stair.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := ExportInput(want(), path); err != nil {
				t.Fatalf("ExportInput: %v", err)
			}
			got, err := ImportInput(path)
			if err != nil {
				t.Fatalf("ImportInput: %v", err)
			}
			if !reflect.DeepEqual(got, want()) {
				t.Errorf("got %+v, want %+v", got, want())
			}
		})
	}
}

func TestImportInputErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ImportInput(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", err)
	}
	if _, err := ImportInput(filepath.Join(dir, "stair.ini")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad extension: err = %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("rotation: 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ImportInput(bad)
	if !errors.Is(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("bad content: err = %v", err)
	}
}

func TestPlanRoundTrip(t *testing.T) {
	v, err := stair.Validate(want())
	if err != nil {
		t.Fatal(err)
	}
	plan, err := layout.Compute(v, profile.Default(), layout.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WritePlan(plan, &buf); err != nil {
		t.Fatalf("WritePlan: %v", err)
	}
	got, err := ReadPlan(&buf)
	if err != nil {
		t.Fatalf("ReadPlan: %v", err)
	}
	if !reflect.DeepEqual(got, plan) {
		t.Error("plan changed across round trip")
	}

	if _, err := ReadPlan(strings.NewReader(`{"steps": []}`)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty plan: err = %v", err)
	}
}
