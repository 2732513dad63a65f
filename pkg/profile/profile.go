// Package profile loads the building-code profiles that parameterize the
// layout engine and the compliance checker.
//
// Two profiles are built in: "residential" (alias "permissive"), with a
// 9.5 in. maximum riser and a mid-landing above 151 in., and "commercial"
// (alias "strict" or "ibc"), with a 7.75 in. maximum riser and a
// mid-landing above 144 in. Custom profiles are read from TOML or YAML
// files with the same keys.
package profile

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/spiralstair/pkg/errors"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

// DefaultName is the profile used when none is configured.
const DefaultName = "residential"

// Profile holds the code limits for one regime.
type Profile struct {
	Name        string   `toml:"name" yaml:"name" json:"name"`
	Description string   `toml:"description" yaml:"description" json:"description,omitempty"`
	CodeRef     string   `toml:"code_ref" yaml:"code_ref" json:"code_ref,omitempty"`
	Aliases     []string `toml:"aliases" yaml:"aliases" json:"aliases,omitempty"`

	MaxRiser           float64 `toml:"max_riser" yaml:"max_riser" json:"max_riser"`
	MidLandingHeight   float64 `toml:"mid_landing_height" yaml:"mid_landing_height" json:"mid_landing_height"`
	MidLandingSweepDeg float64 `toml:"mid_landing_sweep_deg" yaml:"mid_landing_sweep_deg" json:"mid_landing_sweep_deg"`

	MinClearWidth     float64 `toml:"min_clear_width" yaml:"min_clear_width" json:"min_clear_width"`
	HandrailAllowance float64 `toml:"handrail_allowance" yaml:"handrail_allowance" json:"handrail_allowance"`
	WalklineOffset    float64 `toml:"walkline_offset" yaml:"walkline_offset" json:"walkline_offset"`
	MaxWalklineRadius float64 `toml:"max_walkline_radius" yaml:"max_walkline_radius" json:"max_walkline_radius"`
	MinWalklineDepth  float64 `toml:"min_walkline_depth" yaml:"min_walkline_depth" json:"min_walkline_depth"`
	MinHeadroom       float64 `toml:"min_headroom" yaml:"min_headroom" json:"min_headroom"`

	PolePresets []float64 `toml:"pole_presets" yaml:"pole_presets" json:"pole_presets,omitempty"`
}

// Validate checks that every limit is usable by the engine and checker.
func (p Profile) Validate() error {
	if p.Name == "" {
		return errors.New(errors.ErrCodeInvalidProfile, "profile name is required")
	}
	limits := []struct {
		field string
		v     float64
	}{
		{"max_riser", p.MaxRiser},
		{"mid_landing_height", p.MidLandingHeight},
		{"mid_landing_sweep_deg", p.MidLandingSweepDeg},
		{"min_clear_width", p.MinClearWidth},
		{"walkline_offset", p.WalklineOffset},
		{"max_walkline_radius", p.MaxWalklineRadius},
		{"min_walkline_depth", p.MinWalklineDepth},
		{"min_headroom", p.MinHeadroom},
	}
	for _, l := range limits {
		if !(l.v > 0) {
			return errors.New(errors.ErrCodeInvalidProfile, "profile %q: %s must be positive", p.Name, l.field)
		}
	}
	if p.HandrailAllowance < 0 {
		return errors.New(errors.ErrCodeInvalidProfile, "profile %q: handrail_allowance must not be negative", p.Name)
	}
	if p.MidLandingSweepDeg >= 360 {
		return errors.New(errors.ErrCodeInvalidProfile, "profile %q: mid_landing_sweep_deg must be below 360", p.Name)
	}
	return nil
}

// Default returns the built-in residential profile.
func Default() Profile {
	p, err := LoadBuiltin(DefaultName)
	if err != nil {
		panic(fmt.Sprintf("profile: builtin %q is broken: %v", DefaultName, err))
	}
	return p
}

// LoadBuiltin loads a built-in profile by name or alias.
func LoadBuiltin(name string) (Profile, error) {
	all, err := builtins()
	if err != nil {
		return Profile{}, err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, p := range all {
		if p.Name == want {
			return p, nil
		}
		for _, a := range p.Aliases {
			if a == want {
				return p, nil
			}
		}
	}
	return Profile{}, errors.New(errors.ErrCodeInvalidProfile, "unknown profile %q", name)
}

// List returns the names of all built-in profiles, sorted.
func List() ([]string, error) {
	all, err := builtins()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Builtins returns every built-in profile sorted by name.
func Builtins() ([]Profile, error) {
	all, err := builtins()
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func builtins() ([]Profile, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var out []Profile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + e.Name())
		if err != nil {
			return nil, err
		}
		p, err := Parse(data, ".toml")
		if err != nil {
			return nil, fmt.Errorf("profile.builtins: %s: %w", e.Name(), err)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadFile reads a profile from a TOML (.toml) or YAML (.yaml, .yml) file.
func LoadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "profile file %s", path)
		}
		return Profile{}, fmt.Errorf("profile.LoadFile: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a profile document. ext selects the format and must be
// ".toml", ".yaml" or ".yml".
func Parse(data []byte, ext string) (Profile, error) {
	var p Profile
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
			return Profile{}, errors.Wrap(errors.ErrCodeInvalidProfile, err, "parse TOML profile")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Profile{}, errors.Wrap(errors.ErrCodeInvalidProfile, err, "parse YAML profile")
		}
	default:
		return Profile{}, errors.New(errors.ErrCodeInvalidProfile, "unsupported profile format %q (use .toml or .yaml)", ext)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Resolve returns the profile named by ref. A ref that names an existing
// file is loaded from disk; anything else is looked up among the builtins.
// An empty ref selects the default profile.
func Resolve(ref string) (Profile, error) {
	if ref == "" {
		return LoadBuiltin(DefaultName)
	}
	if ext := strings.ToLower(filepath.Ext(ref)); ext == ".toml" || ext == ".yaml" || ext == ".yml" {
		return LoadFile(ref)
	}
	return LoadBuiltin(ref)
}
