package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"
	"github.com/boombuler/barcode/twooffive"
	"github.com/charmbracelet/log"

	"github.com/labelforge/labelforge/pkg/label"
	"github.com/labelforge/labelforge/pkg/units"
)

// SymbolRenderer renders records with the boombuler/barcode symbology
// library.
//
// Physical sizes are resolved to pixels at the configuration's DPI before
// the symbology layer is invoked; that layer operates purely in pixels.
// Linear symbologies are scaled in whole module widths, so the rendered
// symbol fills the requested pixel box best-effort, padded to center when
// the box is not a whole multiple of the module count. Physical output
// size is a target, not an exact guarantee.
type SymbolRenderer struct {
	logger *log.Logger
}

// New creates a SymbolRenderer. A nil logger falls back to log.Default().
func New(logger *log.Logger) *SymbolRenderer {
	if logger == nil {
		logger = log.Default()
	}
	return &SymbolRenderer{logger: logger}
}

// Render produces a PNG for the record, or a failure result. A record
// marked invalid upstream is not attempted. Errors and panics from the
// symbology layer are captured into the result and logged; they never
// propagate and abort a batch.
func (s *SymbolRenderer) Render(ctx context.Context, rec label.Record, cfg label.LabelConfig) (res Result) {
	if !rec.Valid {
		return fail(ReasonInvalid, fmt.Errorf("record %d: %s", rec.Position, rec.Error))
	}
	if err := cfg.Validate(); err != nil {
		return fail(ReasonConfig, err)
	}

	// The symbology layer has panicked on odd inputs before; contain it.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warnf("renderer panic for record %d: %v", rec.Position, r)
			res = fail(ReasonEncode, fmt.Errorf("encode panic: %v", r))
		}
	}()

	totalW := int(units.ToPixels(cfg.Width, cfg.Unit, cfg.DPI))
	totalH := int(units.ToPixels(cfg.Height, cfg.Unit, cfg.DPI))
	marginPx := int(units.ToPixels(cfg.Margin, cfg.Unit, cfg.DPI))
	contentW := totalW - 2*marginPx
	contentH := totalH - 2*marginPx
	if contentW < 1 || contentH < 1 {
		return fail(ReasonConfig, fmt.Errorf("margin %g leaves no drawable area in %dx%d px", cfg.Margin, totalW, totalH))
	}

	code, err := encode(rec.Payload, cfg.Format)
	if err != nil {
		s.logger.Debugf("encode failed for record %d (%s): %v", rec.Position, cfg.Format, err)
		return fail(ReasonEncode, err)
	}

	scaled, err := barcode.Scale(code, contentW, contentH)
	if err != nil {
		// Target box smaller than one pixel per module.
		s.logger.Debugf("scale failed for record %d: %v", rec.Position, err)
		return fail(ReasonEncode, err)
	}

	img, err := compose(scaled, totalW, totalH, marginPx, cfg)
	if err != nil {
		return fail(ReasonConfig, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fail(ReasonEncode, err)
	}
	return Result{PNG: buf.Bytes(), Width: totalW, Height: totalH}
}

// encode invokes the symbology-specific encoder.
func encode(payload string, format label.Format) (barcode.Barcode, error) {
	switch format {
	case label.FormatQR:
		return qr.Encode(payload, qr.M, qr.Auto)
	case label.FormatDataMatrix:
		return datamatrix.Encode(payload)
	case label.FormatCode128:
		return code128.Encode(payload)
	case label.FormatCode39:
		return code39.Encode(strings.ToUpper(payload), false, false)
	case label.FormatEAN13, label.FormatEAN8:
		return ean.Encode(payload)
	case label.FormatITF:
		return twooffive.Encode(payload, true)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// compose draws the scaled symbol onto a canvas of the full label size,
// applying the configured colors and centering within the margin.
func compose(code barcode.Barcode, totalW, totalH, marginPx int, cfg label.LabelConfig) (image.Image, error) {
	fg, err := parseHexColor(cfg.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := parseHexColor(cfg.Background)
	if err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, totalW, totalH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	b := code.Bounds()
	offX := marginPx + (totalW-2*marginPx-b.Dx())/2
	offY := marginPx + (totalH-2*marginPx-b.Dy())/2

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isDark(code.At(x, y)) {
				canvas.Set(offX+x-b.Min.X, offY+y-b.Min.Y, fg)
			}
		}
	}
	return canvas, nil
}

// isDark reports whether a symbology pixel is a bar/module pixel.
func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < 0x8000
}

// Ensure SymbolRenderer implements Renderer.
var _ Renderer = (*SymbolRenderer)(nil)
