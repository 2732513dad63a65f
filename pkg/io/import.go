package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// Format is a serialization format for input files.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported input file %q (want .toml, .yaml or .json)", path)
}

// ReadInput decodes a stair input from r.
//
// ReadInput returns an INVALID_INPUT error if the data is malformed, holds
// unknown keys or names an unknown direction. ReadInput does not close r.
func ReadInput(r io.Reader, format Format) (stair.Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return stair.Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}

	var in stair.Input
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &in)
		if err != nil {
			return stair.Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return stair.Input{}, errors.New(errors.ErrCodeInvalidInput, "unknown field %q", keys[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&in); err != nil {
			return stair.Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return stair.Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
	default:
		return stair.Input{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q", format)
	}

	if in.Direction != stair.DirectionUnset {
		d, err := stair.ParseDirection(string(in.Direction))
		if err != nil {
			return stair.Input{}, err
		}
		in.Direction = d
	}
	return in, nil
}

// ImportInput reads the input file at path, choosing the format from its
// extension.
func ImportInput(path string) (stair.Input, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return stair.Input{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return stair.Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", path)
	}
	if err != nil {
		return stair.Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	in, err := ReadInput(f, format)
	if err != nil {
		return stair.Input{}, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return in, nil
}
