// Package pkg provides the core libraries for spiralstair.
//
// # Overview
//
// Spiralstair lays out spiral staircases. Given the center pole diameter,
// overall height, outside diameter and total rotation, it derives the riser
// count, riser height and tread angle, places a mid-landing where the code
// profile requires one, and checks the result against that profile.
//
// # Architecture
//
// The data flow through spiralstair:
//
//	Input (flags, TOML/YAML/JSON file, form, HTTP body)
//	         ↓
//	    [stair] validate the raw dimensions
//	         ↓
//	    [layout] riser count, tread angle, mid-landing, step sequence
//	         ↓
//	    [compliance] rules of the active [profile]
//	         ↓
//	    [render] SVG/PDF/PNG/JSON/DOT output, [geometry] solid recipes
//
// [pipeline] runs that chain with caching for the CLI and the HTTP API.
// [designer] wraps it in the interactive collect/check/retry loop.
//
// # Main Packages
//
// [stair] - Input, Parameters, Step and Plan types; direction parsing and
// the JSON Schema of input files.
//
// [profile] - Building-code profiles (residential, commercial) embedded as
// TOML, plus user profile files in TOML or YAML.
//
// [layout] - The layout engine: riser strategies, mid-landing placement and
// the vertical and angular position of every step.
//
// [compliance] - Clear width, walkline, riser, headroom and mid-landing
// rules, each violation with a suggested fix.
//
// [geometry] - Extrusion recipes for treads, landings and the pole, and a
// mesh kernel that turns them into solids.
//
// [render] - Plan and elevation drawings and the Graphviz climb diagram.
//
// ## Infrastructure
//
// [cache] - Layout and artifact cache with file, Redis and null backends.
//
// [session] - Remembered design input with file, MongoDB and memory stores.
//
// [config] - TOML config file with environment overrides.
//
// [api] - HTTP API over the pipeline.
//
// [errors] - Typed error codes shared by every package.
//
// [observability] - Hooks for cache, pipeline and design-loop events.
//
// # Quick Start
//
//	in := stair.Input{
//	    CenterPoleDia: 6, OverallHeight: 144, OutsideDia: 60,
//	    RotationDeg: 450, Direction: stair.Clockwise,
//	}
//	v, _ := stair.Validate(in)
//	p, _ := profile.LoadBuiltin("residential")
//	plan, _ := layout.Compute(v, p, layout.Options{})
//	for _, v := range compliance.Check(plan.Parameters, p) {
//	    fmt.Println(v.Message, "->", v.SuggestedFix)
//	}
//
// [stair]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/stair
// [profile]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/profile
// [layout]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/layout
// [compliance]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/compliance
// [geometry]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/geometry
// [render]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/pipeline
// [designer]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/designer
// [cache]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/api
// [errors]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/spiralstair/pkg/observability
package pkg
