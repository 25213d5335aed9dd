// Package label defines the data model for label sheets: symbology
// formats, label rendering configuration, page setup, and the record
// collection that a session operates on.
//
// Configuration is always passed explicitly; nothing in this package (or
// anything consuming it) reads ambient state. The grid calculator and the
// export orchestrator take a [PageSetup] and a [LabelConfig] as arguments
// on every call.
package label

import (
	"fmt"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/units"
)

// Format identifies a barcode symbology.
type Format string

// Supported symbologies.
const (
	FormatQR         Format = "qr"
	FormatDataMatrix Format = "datamatrix"
	FormatCode128    Format = "code128"
	FormatCode39     Format = "code39"
	FormatEAN13      Format = "ean13"
	FormatEAN8       Format = "ean8"
	FormatITF        Format = "itf"
)

// Formats lists all supported symbologies in display order.
var Formats = []Format{
	FormatQR, FormatDataMatrix, FormatCode128, FormatCode39,
	FormatEAN13, FormatEAN8, FormatITF,
}

// Valid reports whether f is a supported symbology.
func (f Format) Valid() bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}

// Is2D reports whether f is a matrix (2D) symbology. Matrix codes are
// sized directly in pixels; linear codes derive a module width from the
// target width instead.
func (f Format) Is2D() bool {
	return f == FormatQR || f == FormatDataMatrix
}

// LabelConfig describes how a single label is rendered: symbology,
// physical dimensions, and appearance. Width, Height, and Margin are all
// expressed in Unit.
type LabelConfig struct {
	Format     Format     `json:"format" toml:"format"`
	Width      float64    `json:"width" toml:"width"`
	Height     float64    `json:"height" toml:"height"`
	Margin     float64    `json:"margin" toml:"margin"`
	Unit       units.Unit `json:"unit" toml:"unit"`
	DPI        float64    `json:"dpi" toml:"dpi"`
	ShowText   bool       `json:"show_text" toml:"show_text"`
	FontSize   float64    `json:"font_size" toml:"font_size"`
	Foreground string     `json:"foreground" toml:"foreground"` // bar color, hex
	Background string     `json:"background" toml:"background"` // hex
}

// DefaultLabelConfig returns a renderable starting configuration:
// a 40x40 mm QR label at 300 DPI.
func DefaultLabelConfig() LabelConfig {
	return LabelConfig{
		Format:     FormatQR,
		Width:      40,
		Height:     40,
		Margin:     2,
		Unit:       units.Millimeter,
		DPI:        300,
		ShowText:   false,
		FontSize:   8,
		Foreground: "#000000",
		Background: "#FFFFFF",
	}
}

// Validate checks the invariants required for a renderable configuration:
// supported format and unit, and positive width, height, and DPI. The
// margin may be zero but not negative. A renderer may still fail on a
// configuration that passes Validate (e.g., a symbol too dense for the
// pixel budget); that failure is reported per record, not here.
func (c LabelConfig) Validate() error {
	if !c.Format.Valid() {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", c.Format)
	}
	if !c.Unit.Valid() {
		return errors.New(errors.ErrCodeInvalidUnit, "unknown unit %q", c.Unit)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "label size must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "label margin must not be negative, got %g", c.Margin)
	}
	if c.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "DPI must be positive, got %g", c.DPI)
	}
	return nil
}

// Orientation of the page.
type Orientation string

// Page orientations. Landscape swaps the effective width and height.
const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// PageSetup describes the sheet labels are placed on. Width, Height, the
// four margins, and Gutter are all expressed in Unit, which is independent
// of the label's unit.
type PageSetup struct {
	Size         string      `json:"size" toml:"size"` // named size or "Custom"
	Width        float64     `json:"width" toml:"width"`
	Height       float64     `json:"height" toml:"height"`
	Unit         units.Unit  `json:"unit" toml:"unit"`
	Orientation  Orientation `json:"orientation" toml:"orientation"`
	MarginTop    float64     `json:"margin_top" toml:"margin_top"`
	MarginBottom float64     `json:"margin_bottom" toml:"margin_bottom"`
	MarginLeft   float64     `json:"margin_left" toml:"margin_left"`
	MarginRight  float64     `json:"margin_right" toml:"margin_right"`
	Gutter       float64     `json:"gutter" toml:"gutter"` // spacing between adjacent labels
	Template     string      `json:"template,omitempty" toml:"template"`
}

// pageSize is a named paper size in millimeters.
type pageSize struct{ w, h float64 }

// Named page sizes (portrait dimensions, millimeters).
var pageSizes = map[string]pageSize{
	"A4":     {210, 297},
	"A5":     {148, 210},
	"Letter": {215.9, 279.4},
	"Legal":  {215.9, 355.6},
}

// PageSizeNames lists the known named sizes plus "Custom".
func PageSizeNames() []string {
	return []string{"A4", "A5", "Letter", "Legal", "Custom"}
}

// DefaultPageSetup returns an A4 portrait page with 10 mm margins and a
// 2 mm gutter.
func DefaultPageSetup() PageSetup {
	return PageSetup{
		Size:         "A4",
		Width:        210,
		Height:       297,
		Unit:         units.Millimeter,
		Orientation:  Portrait,
		MarginTop:    10,
		MarginBottom: 10,
		MarginLeft:   10,
		MarginRight:  10,
		Gutter:       2,
	}
}

// ApplySize overwrites Width/Height/Unit from the named size. A "Custom"
// or unknown name leaves the dimensions untouched.
func (p *PageSetup) ApplySize(name string) {
	if s, ok := pageSizes[name]; ok {
		p.Size = name
		p.Width, p.Height = s.w, s.h
		p.Unit = units.Millimeter
		return
	}
	p.Size = "Custom"
}

// EffectiveSize returns the page width and height with the orientation
// applied: landscape swaps the configured dimensions.
func (p PageSetup) EffectiveSize() (w, h float64) {
	if p.Orientation == Landscape {
		return p.Height, p.Width
	}
	return p.Width, p.Height
}

// Validate checks that the page setup is usable. A page whose margins eat
// the whole sheet is allowed (the grid calculator reports zero capacity
// for it); only structurally invalid setups are rejected here.
func (p PageSetup) Validate() error {
	if !p.Unit.Valid() {
		return errors.New(errors.ErrCodeInvalidUnit, "unknown unit %q", p.Unit)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "page size must be positive, got %gx%g", p.Width, p.Height)
	}
	if p.MarginTop < 0 || p.MarginBottom < 0 || p.MarginLeft < 0 || p.MarginRight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "page margins must not be negative")
	}
	if p.Gutter < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gutter must not be negative, got %g", p.Gutter)
	}
	if p.Orientation != "" && p.Orientation != Portrait && p.Orientation != Landscape {
		return errors.New(errors.ErrCodeInvalidConfig, "orientation must be %q or %q", Portrait, Landscape)
	}
	return nil
}

// String implements fmt.Stringer for log output.
func (p PageSetup) String() string {
	w, h := p.EffectiveSize()
	return fmt.Sprintf("%s %gx%g%s", p.Size, w, h, p.Unit)
}
