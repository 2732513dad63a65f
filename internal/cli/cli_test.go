package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"SVG, json,,dot ", []string{"svg", "json", "dot"}},
	}

	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		name                    string
		output, input, planFile string
		want                    string
	}{
		{"default", "", "", "", "stair"},
		{"output with format extension", "out/stair.svg", "", "", "out/stair"},
		{"output without extension", "out/stair", "", "", "out/stair"},
		{"output with other extension", "out/stair.v2", "", "", "out/stair.v2"},
		{"from input", "", "designs/loft.toml", "", "designs/loft"},
		{"from plan", "", "", "loft.plan.json", "loft"},
		{"input wins over plan", "", "a.yaml", "b.plan.json", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputBase(tt.output, tt.input, tt.planFile); got != tt.want {
				t.Errorf("outputBase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNeedsConverter(t *testing.T) {
	if needsConverter([]string{"svg", "json"}) {
		t.Error("svg and json need no converter")
	}
	if !needsConverter([]string{"svg", "pdf"}) {
		t.Error("pdf needs a converter")
	}
}

func newInputCommand(f *inputFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	f.bind(cmd)
	return cmd
}

func TestInputFlagsResolve(t *testing.T) {
	var f inputFlags
	cmd := newInputCommand(&f)
	if err := cmd.ParseFlags([]string{"--pole", "6", "--height", "160", "--outside", "62", "--rotation", "450", "--direction", "ccw", "--mid-landing", "8"}); err != nil {
		t.Fatal(err)
	}

	in, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if in.CenterPoleDia != 6 || in.OverallHeight != 160 || in.OutsideDia != 62 || in.RotationDeg != 450 {
		t.Errorf("dimensions = %+v", in)
	}
	if in.Direction != stair.CounterClockwise {
		t.Errorf("Direction = %q, want counterclockwise", in.Direction)
	}
	if in.MidLandingAfterTread == nil || *in.MidLandingAfterTread != 8 {
		t.Errorf("MidLandingAfterTread = %v, want 8", in.MidLandingAfterTread)
	}
}

func TestInputFlagsResolveFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stair.toml")
	data := `center_pole_dia = 6.0
overall_height = 144.0
outside_dia = 60.0
rotation_deg = 450.0
direction = "counterclockwise"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	var f inputFlags
	cmd := newInputCommand(&f)
	if err := cmd.ParseFlags([]string{"-i", path, "--outside", "61"}); err != nil {
		t.Fatal(err)
	}

	in, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if in.OutsideDia != 61 {
		t.Errorf("OutsideDia = %v, want flag value 61", in.OutsideDia)
	}
	if in.OverallHeight != 144 {
		t.Errorf("OverallHeight = %v, want file value 144", in.OverallHeight)
	}
	if in.Direction != stair.CounterClockwise {
		t.Errorf("Direction = %q, want file value", in.Direction)
	}
}

func TestInputFlagsResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing rotation", []string{"--pole", "6", "--height", "144", "--outside", "60"}, errors.ErrCodeInvalidInput},
		{"bad direction", []string{"--pole", "6", "--height", "144", "--outside", "60", "--rotation", "450", "--direction", "up"}, errors.ErrCodeInvalidDirection},
		{"missing file", []string{"-i", filepath.Join(os.TempDir(), "spiralstair-missing.toml")}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f inputFlags
			cmd := newInputCommand(&f)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			_, err := f.resolve(cmd)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestInches(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{9, `9"`},
		{8.25, `8.25"`},
		{7.5, `7.5"`},
	}
	for _, tt := range tests {
		if got := inches(tt.in); got != tt.want {
			t.Errorf("inches(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
