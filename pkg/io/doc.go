// Package io reads stair input files and writes inputs and plans.
//
// # Input Files
//
// An input file holds one [stair.Input] in TOML, YAML or JSON. The format is
// chosen by extension (.toml, .yaml/.yml, .json):
//
//	center_pole_dia = 6
//	overall_height  = 144
//	outside_dia     = 60
//	rotation_deg    = 450
//	direction       = "cw"
//
// Directions accept the short forms "cw" and "ccw". Unknown keys are
// rejected so that a misspelled field never silently falls back to zero.
// Reading does not validate dimensions; pass the result to [stair.Validate].
//
// # Import
//
// Use [ImportInput] to read a file, or [ReadInput] to read from any
// io.Reader in a given format:
//
//	in, err := io.ImportInput("stair.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// [WriteInput] and [ExportInput] write an input back out, in any of the
// three formats. [WritePlan] and [ReadPlan] round-trip a computed
// [stair.Plan] as JSON so it can be re-rendered without recomputing.
//
// [stair.Input]: github.com/matzehuels/spiralstair/pkg/stair.Input
// [stair.Plan]: github.com/matzehuels/spiralstair/pkg/stair.Plan
// [stair.Validate]: github.com/matzehuels/spiralstair/pkg/stair.Validate
package io
