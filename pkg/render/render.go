// Package render produces raster images for label records.
//
// The package defines the renderer contract the rest of the application
// depends on, and an implementation backed by the boombuler/barcode
// symbology library. Rendering is always a derived computation over
// (record, configuration); results are never authoritative state.
package render

import (
	"context"
	"fmt"
	"image/color"

	"github.com/labelforge/labelforge/pkg/label"
)

// Reason classifies why a render produced no image.
type Reason string

// Failure reasons. Callers can distinguish "nothing was attempted because
// the record is invalid" from "the symbology layer failed".
const (
	ReasonNone    Reason = ""
	ReasonInvalid Reason = "invalid_record"
	ReasonConfig  Reason = "invalid_config"
	ReasonEncode  Reason = "encode_failed"
)

// Result is the outcome of rendering one record: either a PNG image with
// its pixel dimensions, or a failure reason. A failed render never aborts
// a batch; the caller skips the record and moves on.
type Result struct {
	PNG    []byte `json:"png,omitempty"`
	Width  int    `json:"width,omitempty"`  // pixels
	Height int    `json:"height,omitempty"` // pixels
	Reason Reason `json:"reason,omitempty"`
	Err    error  `json:"-"`
}

// OK reports whether the render produced an image.
func (r Result) OK() bool {
	return r.Reason == ReasonNone && len(r.PNG) > 0
}

// fail builds a failure result.
func fail(reason Reason, err error) Result {
	return Result{Reason: reason, Err: err}
}

// Renderer renders one record against a fully-resolved configuration.
type Renderer interface {
	Render(ctx context.Context, rec label.Record, cfg label.LabelConfig) Result
}

// parseHexColor parses "#RRGGBB" (or "RRGGBB") into an opaque color.
func parseHexColor(s string) (color.RGBA, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want RRGGBB", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
