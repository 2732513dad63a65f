// Package api serves the stair pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz              liveness and version
//	GET  /v1/profiles          builtin code profiles
//	GET  /v1/profiles/{name}   one profile, by name or alias
//	GET  /v1/schema/input      JSON Schema of the input document
//	POST /v1/layout            compute a plan
//	POST /v1/check             compute a plan and check it
//	POST /v1/render/{format}   compute, check and render (svg, png, pdf, json, dot)
//
// POST bodies share one shape:
//
//	{
//	  "input":    {"center_pole_dia": 6, "overall_height": 144, ...},
//	  "profile":  "residential",
//	  "strategy": "forward"
//	}
//
// Only builtin profiles can be named; the server never reads profile files
// on behalf of a client.
//
// # Errors
//
// Failures are JSON objects {"code", "message", "request_id"}. INVALID_*
// codes map to 400, calculation failures to 422, unknown profiles to 404
// and everything else to 500. Compliance violations are not errors: /v1/check
// answers 200 with "compliant": false.
//
// Every response carries an X-Request-ID header. A client-supplied UUID is
// echoed back; anything else is replaced with a fresh one.
package api
