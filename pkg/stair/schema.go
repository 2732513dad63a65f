package stair

import "github.com/invopop/jsonschema"

// InputSchema returns the JSON Schema of [Input]. Unknown properties are
// rejected, matching the strict decoding of input files.
func InputSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := r.Reflect(new(Input))
	s.Title = "Spiral stair input"
	return s
}
