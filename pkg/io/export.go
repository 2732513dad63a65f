package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// WriteInput encodes an input in the given format.
// The output can be re-imported with [ReadInput].
func WriteInput(in stair.Input, w io.Writer, format Format) error {
	var err error
	switch format {
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(in)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(in)
		if err == nil {
			err = enc.Close()
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(in)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	return nil
}

// ExportInput writes an input to path, choosing the format from its
// extension.
func ExportInput(in stair.Input, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteInput(in, f, format)
}

// WritePlan encodes a plan as indented JSON.
func WritePlan(plan stair.Plan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode plan")
	}
	return nil
}

// ReadPlan decodes a plan written by [WritePlan]. It checks that the plan
// ends with a top landing but does not recompute it.
func ReadPlan(r io.Reader) (stair.Plan, error) {
	var plan stair.Plan
	if err := json.NewDecoder(r).Decode(&plan); err != nil {
		return stair.Plan{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode plan")
	}
	if _, ok := plan.Top(); !ok {
		return stair.Plan{}, errors.New(errors.ErrCodeInvalidInput, "plan has no top landing")
	}
	return plan, nil
}

// ExportPlan writes a plan to a JSON file at path.
func ExportPlan(plan stair.Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WritePlan(plan, f)
}

// ImportPlan reads a plan from a JSON file at path.
func ImportPlan(path string) (stair.Plan, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return stair.Plan{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "plan file %s", path)
	}
	if err != nil {
		return stair.Plan{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadPlan(f)
}
