package sink

import (
	"context"

	"github.com/matzehuels/spiralstair/pkg/render"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
}

// WithPDFSVGOptions passes options through to the underlying SVG renderer.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// RenderPDF renders the plan as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, plan stair.Plan, opts ...PDFOption) ([]byte, error) {
	var r pdfRenderer
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPDF(ctx, RenderSVG(plan, r.svgOpts...))
}
