package layout

import (
	"strings"
	"testing"

	"github.com/labelforge/labelforge/pkg/label"
	"github.com/labelforge/labelforge/pkg/units"
)

// page builds a page setup with uniform margins, all in the given unit.
func page(w, h, margin, gutter float64, u units.Unit) label.PageSetup {
	return label.PageSetup{
		Size: "Custom", Width: w, Height: h, Unit: u,
		Orientation: label.Portrait,
		MarginTop:   margin, MarginBottom: margin,
		MarginLeft: margin, MarginRight: margin,
		Gutter: gutter,
	}
}

func cfg(w, h float64, u units.Unit) label.LabelConfig {
	c := label.DefaultLabelConfig()
	c.Width, c.Height, c.Unit = w, h, u
	return c
}

// Scenario from the fitting contract: 200x300 page, margins 10, gutter 5,
// 40x40 labels -> 4 columns, 6 rows, capacity 24.
func TestComputeScenario(t *testing.T) {
	g := Compute(page(200, 300, 10, 5, units.Millimeter), cfg(40, 40, units.Millimeter), Options{})

	if g.Columns != 4 {
		t.Errorf("Columns = %d, want 4", g.Columns)
	}
	if g.Rows != 6 {
		t.Errorf("Rows = %d, want 6", g.Rows)
	}
	if g.Capacity != 24 {
		t.Errorf("Capacity = %d, want 24", g.Capacity)
	}
	if g.PageWidth != 200 || g.PageHeight != 300 {
		t.Errorf("page echo = %gx%g", g.PageWidth, g.PageHeight)
	}
	if g.LabelWidth != 40 || g.LabelHeight != 40 {
		t.Errorf("label echo = %gx%g", g.LabelWidth, g.LabelHeight)
	}
}

func TestComputeZeroLabelSize(t *testing.T) {
	g := Compute(page(200, 300, 10, 5, units.Millimeter), cfg(0, 40, units.Millimeter), Options{})
	if g.Columns != 0 || g.Rows != 0 || g.Capacity != 0 {
		t.Errorf("zero-width label: cols=%d rows=%d cap=%d, want all 0", g.Columns, g.Rows, g.Capacity)
	}
	if g.Utilization != 0 {
		t.Errorf("Utilization = %g, want 0", g.Utilization)
	}
}

// An available width of exactly N*label + (N-1)*gutter must yield N
// columns; the epsilon slack absorbs binary representation error.
func TestComputeExactFitBoundary(t *testing.T) {
	tests := []struct {
		name     string
		unit     units.Unit
		labelW   float64
		gutter   float64
		n        int
		margin   float64
		pageovfl float64 // extra page height so rows don't interfere
	}{
		{"Millimeter3", units.Millimeter, 63.5, 2.5, 3, 4.55, 100},
		{"Inch4", units.Inch, 2.1, 0.1, 4, 0.25, 5},
		{"Centimeter5", units.Centimeter, 3.3, 0.3, 5, 1.1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width := float64(tt.n)*tt.labelW + float64(tt.n-1)*tt.gutter + 2*tt.margin
			p := page(width, tt.labelW+tt.pageovfl, tt.margin, tt.gutter, tt.unit)
			g := Compute(p, cfg(tt.labelW, tt.labelW, tt.unit), Options{})
			if g.Columns != tt.n {
				t.Errorf("Columns = %d, want %d (exact fit)", g.Columns, tt.n)
			}
		})
	}
}

// Growing a margin or the gutter must never gain columns or rows.
func TestComputeMonotonicity(t *testing.T) {
	base := page(210, 297, 5, 2, units.Millimeter)
	c := cfg(38, 21, units.Millimeter)

	prevCols, prevRows := -1, -1
	for margin := 0.0; margin <= 60; margin += 1.5 {
		p := base
		p.MarginLeft, p.MarginRight = margin, margin
		p.MarginTop, p.MarginBottom = margin, margin
		g := Compute(p, c, Options{})
		if prevCols >= 0 && (g.Columns > prevCols || g.Rows > prevRows) {
			t.Fatalf("margin %g: grid grew to %dx%d from %dx%d", margin, g.Columns, g.Rows, prevCols, prevRows)
		}
		if g.Columns < 0 || g.Rows < 0 || g.Capacity < 0 {
			t.Fatalf("margin %g: negative grid %dx%d cap %d", margin, g.Columns, g.Rows, g.Capacity)
		}
		prevCols, prevRows = g.Columns, g.Rows
	}

	prevCols = -1
	for gutter := 0.0; gutter <= 30; gutter += 0.7 {
		p := base
		p.Gutter = gutter
		g := Compute(p, c, Options{})
		if prevCols >= 0 && g.Columns > prevCols {
			t.Fatalf("gutter %g: columns grew to %d from %d", gutter, g.Columns, prevCols)
		}
		prevCols = g.Columns
	}
}

func TestComputeDegeneratePages(t *testing.T) {
	tests := []struct {
		name string
		page label.PageSetup
	}{
		{"MarginsEatPage", page(100, 100, 60, 0, units.Millimeter)},
		{"TinyPage", page(1, 1, 0, 0, units.Millimeter)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Compute(tt.page, cfg(40, 40, units.Millimeter), Options{})
			if g.Columns < 0 || g.Rows < 0 || g.Capacity < 0 {
				t.Errorf("negative result: %+v", g)
			}
			if g.Capacity != 0 {
				t.Errorf("Capacity = %d, want 0", g.Capacity)
			}
			if g.Utilization != 0 {
				t.Errorf("Utilization = %g, want 0", g.Utilization)
			}
		})
	}
}

func TestComputeUtilizationBounds(t *testing.T) {
	pages := []label.PageSetup{
		page(210, 297, 10, 2, units.Millimeter),
		page(8.5, 11, 0.5, 0.125, units.Inch),
		page(200, 300, 10, 5, units.Millimeter),
	}
	labels := []label.LabelConfig{
		cfg(40, 40, units.Millimeter),
		cfg(1.5, 1, units.Inch),
		cfg(63.5, 38.1, units.Millimeter),
	}
	for _, p := range pages {
		for _, c := range labels {
			g := Compute(p, c, Options{})
			if g.Utilization < 0 || g.Utilization > 100 {
				t.Errorf("utilization %g out of [0,100] for page %v label %gx%g%s",
					g.Utilization, p, c.Width, c.Height, c.Unit)
			}
		}
	}
}

// The page and the label may carry different units.
func TestComputeMixedUnits(t *testing.T) {
	p := page(8.5, 11, 0.5, 0, units.Inch)     // printable 7.5 x 10 in
	c := cfg(25.4, 50.8, units.Millimeter)     // 1 x 2 in
	g := Compute(p, c, Options{})
	if g.Columns != 7 {
		t.Errorf("Columns = %d, want 7", g.Columns)
	}
	if g.Rows != 5 {
		t.Errorf("Rows = %d, want 5", g.Rows)
	}
}

func TestComputeSuggestions(t *testing.T) {
	// Printable width 180 mm, label+gutter 45 mm: remainder 180+5 mod 45 =
	// 5 mm, need 40 mm (~1.57 in) -> no suggestion at default threshold.
	g := Compute(page(200, 300, 10, 5, units.Millimeter), cfg(40, 40, units.Millimeter), Options{})
	for _, s := range g.Suggestions {
		if strings.Contains(s, "column") {
			t.Errorf("unexpected column suggestion: %q", s)
		}
	}

	// Printable width 219 mm: need 45 - (219+5 mod 45) = 1 mm (~0.04 in).
	g = Compute(page(239, 300, 10, 5, units.Millimeter), cfg(40, 40, units.Millimeter), Options{})
	var found bool
	for _, s := range g.Suggestions {
		if strings.Contains(s, "column") && strings.Contains(s, "0.04 in") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 0.04 in column suggestion, got %v", g.Suggestions)
	}

	// The threshold is tunable.
	g = Compute(page(200, 300, 10, 5, units.Millimeter), cfg(40, 40, units.Millimeter),
		Options{SuggestWithin: 2})
	found = false
	for _, s := range g.Suggestions {
		if strings.Contains(s, "column") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a column suggestion with a 2 in threshold, got %v", g.Suggestions)
	}
}

func TestComputeLabelTooLarge(t *testing.T) {
	g := Compute(page(100, 100, 10, 0, units.Millimeter), cfg(90, 90, units.Millimeter), Options{})
	if g.Capacity != 0 {
		t.Fatalf("Capacity = %d, want 0", g.Capacity)
	}
	if len(g.Suggestions) != 1 || !strings.Contains(g.Suggestions[0], "too large") {
		t.Errorf("Suggestions = %v, want single too-large hint", g.Suggestions)
	}
}

func TestComputeTemplateOverride(t *testing.T) {
	p := page(210, 297, 5, 0, units.Millimeter)
	p.Template = "avery-l7160"
	g := Compute(p, cfg(10, 10, units.Millimeter), Options{})

	if g.Columns != 3 || g.Rows != 7 {
		t.Errorf("template grid = %dx%d, want 3x7", g.Columns, g.Rows)
	}
	if g.Capacity != 21 {
		t.Errorf("Capacity = %d, want 21", g.Capacity)
	}
	if g.LabelWidth != 63.5 || g.LabelHeight != 38.1 {
		t.Errorf("template label size = %gx%g", g.LabelWidth, g.LabelHeight)
	}
	if g.TemplateName != "avery-l7160" {
		t.Errorf("TemplateName = %q", g.TemplateName)
	}
	if g.Utilization <= 0 || g.Utilization > 100 {
		t.Errorf("template utilization = %g", g.Utilization)
	}
}

func TestComputeCustomTemplate(t *testing.T) {
	custom := map[string]Template{
		"two-up": {Name: "two-up", Columns: 2, Rows: 1, LabelWidth: 4, LabelHeight: 6, Unit: units.Inch},
	}
	p := page(8.5, 11, 0.25, 0, units.Inch)
	p.Template = "two-up"
	g := Compute(p, cfg(1, 1, units.Inch), Options{Templates: custom})
	if g.Columns != 2 || g.Rows != 1 || g.Capacity != 2 {
		t.Errorf("custom template grid = %dx%d cap %d", g.Columns, g.Rows, g.Capacity)
	}

	// Unknown names fall back to the computed grid.
	p.Template = "no-such-sheet"
	g = Compute(p, cfg(1, 1, units.Inch), Options{Templates: custom})
	if g.TemplateName != "" {
		t.Errorf("unknown template should not resolve, got %q", g.TemplateName)
	}
	if g.Columns == 0 {
		t.Error("computed grid should take over for unknown template")
	}
}
