// Package layout computes how many labels of a given physical size fit on
// a page, where the grid sits, and what small change would fit more.
//
// Everything is normalized to inches internally; the page and the label
// may each declare their own unit. The result is a pure function of
// (page setup, label configuration, options) and is recomputed on every
// relevant input change, never persisted.
package layout

import (
	"fmt"
	"math"

	"github.com/labelforge/labelforge/pkg/label"
	"github.com/labelforge/labelforge/pkg/units"
)

// Epsilon is the slack added to the numerator of the fitting division.
// Decimal inputs like 0.1 mm are not exactly representable in binary
// floating point, and without the slack an exact-fit layout can floor to
// one column or row fewer than it should.
const Epsilon = 1e-4 // inches

// DefaultSuggestWithin is the default closeness threshold for emitting a
// "shrink margins to fit one more" suggestion. A tunable, not a contract;
// historical variants of this logic used values between 0.2 and 0.3.
const DefaultSuggestWithin = 0.25 // inches

// Options tunes the grid computation.
type Options struct {
	// SuggestWithin is the largest reduction, in inches, still worth
	// suggesting to the user. Zero means DefaultSuggestWithin.
	SuggestWithin float64

	// Templates resolves a page's template name to a fixed sheet
	// specification. Nil means the built-in catalog.
	Templates map[string]Template
}

func (o Options) suggestWithin() float64 {
	if o.SuggestWithin > 0 {
		return o.SuggestWithin
	}
	return DefaultSuggestWithin
}

// Grid is the computed layout for one (page, label) pair.
//
// LabelWidth/LabelHeight echo the input label size in the label's unit
// (or the template's size in the template's unit when one is active).
// Page dimensions and margins echo the page setup in the page's unit,
// orientation already applied.
type Grid struct {
	Columns      int      `json:"columns"`
	Rows         int      `json:"rows"`
	Capacity     int      `json:"capacity"`
	LabelWidth   float64  `json:"label_width"`
	LabelHeight  float64  `json:"label_height"`
	Gutter       float64  `json:"gutter"`
	PageWidth    float64  `json:"page_width"`
	PageHeight   float64  `json:"page_height"`
	MarginTop    float64  `json:"margin_top"`
	MarginBottom float64  `json:"margin_bottom"`
	MarginLeft   float64  `json:"margin_left"`
	MarginRight  float64  `json:"margin_right"`
	Utilization  float64  `json:"utilization"` // percent of printable area covered
	Suggestions  []string `json:"suggestions,omitempty"`
	TemplateName string   `json:"template,omitempty"`
}

// Compute derives the fitting grid for the given page and label.
//
// When the page names a label template, the template's fixed columns,
// rows, and label size replace the computed ones. The utilization and
// suggestion pass still runs against the template's values: a template
// describes physical die-cut sheets, so "shrink margin" advice remains
// meaningful when the configured margins disagree with the sheet.
func Compute(page label.PageSetup, cfg label.LabelConfig, opts Options) Grid {
	pageW, pageH := page.EffectiveSize()

	g := Grid{
		LabelWidth:   cfg.Width,
		LabelHeight:  cfg.Height,
		Gutter:       page.Gutter,
		PageWidth:    pageW,
		PageHeight:   pageH,
		MarginTop:    page.MarginTop,
		MarginBottom: page.MarginBottom,
		MarginLeft:   page.MarginLeft,
		MarginRight:  page.MarginRight,
	}

	// Normalize to inches. Page-setup fields carry the page unit, label
	// fields the label unit; the two may differ.
	availW := units.ToInches(pageW-page.MarginLeft-page.MarginRight, page.Unit)
	availH := units.ToInches(pageH-page.MarginTop-page.MarginBottom, page.Unit)
	availW = math.Max(availW, 0)
	availH = math.Max(availH, 0)
	gutter := units.ToInches(page.Gutter, page.Unit)

	labelW := units.ToInches(cfg.Width, cfg.Unit)
	labelH := units.ToInches(cfg.Height, cfg.Unit)

	if tpl, ok := resolveTemplate(page.Template, opts.Templates); ok {
		g.TemplateName = tpl.Name
		g.Columns = tpl.Columns
		g.Rows = tpl.Rows
		g.LabelWidth = tpl.LabelWidth
		g.LabelHeight = tpl.LabelHeight
		labelW = units.ToInches(tpl.LabelWidth, tpl.Unit)
		labelH = units.ToInches(tpl.LabelHeight, tpl.Unit)
	} else {
		g.Columns = fitCount(availW, labelW, gutter)
		g.Rows = fitCount(availH, labelH, gutter)
	}

	if g.Columns > 0 && g.Rows > 0 {
		g.Capacity = g.Columns * g.Rows
	}

	totalArea := availW * availH
	if g.Capacity > 0 && totalArea > 0 {
		used := float64(g.Capacity) * labelW * labelH
		g.Utilization = units.Round2(used / totalArea * 100)
	}

	g.Suggestions = suggest(g, availW, availH, labelW, labelH, gutter, opts.suggestWithin())
	return g
}

// fitCount computes how many cells of size label separated by gutter fit
// into avail. A label size of zero or less yields no valid grid rather
// than an unbounded one.
func fitCount(avail, labelSize, gutter float64) int {
	if labelSize <= 0 || avail <= 0 {
		return 0
	}
	n := int(math.Floor((avail + gutter + Epsilon) / (labelSize + gutter)))
	if n < 0 {
		return 0
	}
	return n
}

// suggest produces the layout-improvement hints. Amounts are reported in
// inches, rounded to two decimals.
func suggest(g Grid, availW, availH, labelW, labelH, gutter, within float64) []string {
	if g.Capacity == 0 {
		if availW > 0 && availH > 0 && labelW > 0 && labelH > 0 {
			return []string{"the label is too large for the printable area"}
		}
		return nil
	}

	var out []string
	if need, ok := neededForOneMore(availW, labelW, gutter, within); ok {
		out = append(out, fmt.Sprintf(
			"reduce horizontal margins by %.2f in to fit another column", need))
	}
	if need, ok := neededForOneMore(availH, labelH, gutter, within); ok {
		out = append(out, fmt.Sprintf(
			"reduce vertical margins by %.2f in to fit another row", need))
	}
	return out
}

// neededForOneMore returns how much additional space along one axis would
// admit one more cell, if that amount is within the suggestion threshold.
func neededForOneMore(avail, labelSize, gutter, within float64) (float64, bool) {
	if labelSize <= 0 {
		return 0, false
	}
	step := labelSize + gutter
	remainder := math.Mod(avail+gutter, step)
	need := step - remainder
	if need <= within {
		return units.Round2(need), true
	}
	return 0, false
}
