package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/spiralstair/pkg/errors"
)

func TestLoadBuiltin(t *testing.T) {
	tests := []struct {
		name       string
		wantName   string
		maxRiser   float64
		landingAbv float64
	}{
		{"residential", "residential", 9.5, 151},
		{"permissive", "residential", 9.5, 151},
		{"commercial", "commercial", 7.75, 144},
		{"IBC", "commercial", 7.75, 144},
		{"strict", "commercial", 7.75, 144},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LoadBuiltin(tt.name)
			if err != nil {
				t.Fatalf("LoadBuiltin(%q): %v", tt.name, err)
			}
			if p.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name, tt.wantName)
			}
			if p.MaxRiser != tt.maxRiser {
				t.Errorf("MaxRiser = %v, want %v", p.MaxRiser, tt.maxRiser)
			}
			if p.MidLandingHeight != tt.landingAbv {
				t.Errorf("MidLandingHeight = %v, want %v", p.MidLandingHeight, tt.landingAbv)
			}
			if p.MinClearWidth != 26 || p.MinHeadroom != 78 || p.MinWalklineDepth != 6.75 {
				t.Errorf("unexpected shared limits: %+v", p)
			}
		})
	}
}

func TestLoadBuiltinUnknown(t *testing.T) {
	_, err := LoadBuiltin("nonexistent")
	if !errors.Is(err, errors.ErrCodeInvalidProfile) {
		t.Fatalf("expected INVALID_PROFILE, got %v", err)
	}
}

func TestList(t *testing.T) {
	names, err := List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "commercial" || names[1] != "residential" {
		t.Errorf("List() = %v", names)
	}
}

func TestLoadFileYAMLAndTOML(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "custom.yaml")
	yamlDoc := `name: custom
max_riser: 8.25
mid_landing_height: 140
mid_landing_sweep_deg: 90
min_clear_width: 26
handrail_allowance: 1.5
walkline_offset: 12
max_walkline_radius: 24.5
min_walkline_depth: 7
min_headroom: 80
`
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Resolve(yamlPath)
	if err != nil {
		t.Fatalf("Resolve(yaml): %v", err)
	}
	if p.Name != "custom" || p.MaxRiser != 8.25 || p.MinHeadroom != 80 {
		t.Errorf("unexpected profile: %+v", p)
	}

	tomlPath := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(tomlPath, []byte("name = \"broken\"\nmax_riser = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(tomlPath); !errors.Is(err, errors.ErrCodeInvalidProfile) {
		t.Errorf("expected INVALID_PROFILE for zero riser, got %v", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestResolveEmptyIsDefault(t *testing.T) {
	p, err := Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != DefaultName {
		t.Errorf("Resolve(\"\") = %q, want %q", p.Name, DefaultName)
	}
	if Default().Name != DefaultName {
		t.Errorf("Default() mismatch")
	}
}
