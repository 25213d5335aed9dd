package export

import (
	"bytes"
	"context"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/label"
	"github.com/labelforge/labelforge/pkg/layout"
	"github.com/labelforge/labelforge/pkg/units"
)

// Document renders every valid record onto a multi-page PDF written to w.
// Labels fill the computed grid row-major, left to right then top to
// bottom; a new page starts whenever the grid is full. The grid footprint
// is centered inside the printable area on both axes.
//
// A render failure leaves that cell empty and the pass continues. The
// export is refused up front when no valid records exist or when the page
// cannot hold a single label.
func (e *Exporter) Document(ctx context.Context, w io.Writer, col *label.Collection, cfg label.LabelConfig, page label.PageSetup, opts layout.Options) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := page.Validate(); err != nil {
		return err
	}
	valid := col.Valid()
	if len(valid) == 0 {
		return errors.New(errors.ErrCodeNoValidRecords, "no valid records to export")
	}

	grid := layout.Compute(page, cfg, opts)
	if grid.Capacity == 0 {
		return errors.New(errors.ErrCodeNoCapacity, "page %s cannot hold a single %gx%g%s label", page, cfg.Width, cfg.Height, cfg.Unit)
	}

	geo := documentGeometry(grid, page, cfg, opts)

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           fpdf.SizeType{Wd: geo.pageW, Ht: geo.pageH},
	})
	doc.SetAutoPageBreak(false, 0)
	if cfg.ShowText {
		doc.SetFont("Helvetica", "", cfg.FontSize)
	}

	placed := 0
	for i, rec := range valid {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "document export canceled")
		}

		cell := i % grid.Capacity
		if cell == 0 {
			doc.AddPage()
		}
		x := geo.startX + float64(cell%grid.Columns)*(geo.cellW+geo.gutter)
		y := geo.startY + float64(cell/grid.Columns)*(geo.cellH+geo.gutter)

		res := e.renderer.Render(ctx, rec, cfg)
		if !res.OK() {
			e.logger.Warnf("skipping record %d (%s): %v", rec.Position, res.Reason, res.Err)
			e.report(i+1, len(valid))
			continue
		}

		imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
		doc.RegisterImageOptionsReader(rec.ID, imgOpts, bytes.NewReader(res.PNG))
		doc.ImageOptions(rec.ID, x, y, geo.cellW, geo.cellH, false, imgOpts, 0, "")

		if cfg.ShowText {
			e.caption(doc, rec, x, y, geo)
		}
		placed++
		e.report(i+1, len(valid))
	}

	if doc.Err() {
		return errors.Wrap(errors.ErrCodeRenderFailed, doc.Error(), "compose PDF")
	}
	if err := doc.Output(w); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "write PDF")
	}
	e.logger.Infof("placed %d of %d records on %d-per-page grid", placed, len(valid), grid.Capacity)
	return nil
}

// caption draws the record's human-readable text centered under its cell.
func (e *Exporter) caption(doc *fpdf.Fpdf, rec label.Record, x, y float64, geo geometry) {
	text := rec.Caption
	if text == "" {
		text = rec.Payload
	}
	baseline := captionBaseline(y, geo.cellH, geo.fontSize, geo.gutter)
	tx := x + (geo.cellW-doc.GetStringWidth(text))/2
	doc.Text(tx, baseline, text)
}

// captionBaseline places the caption below the cell but never deeper
// than the gutter, so text cannot collide with the row beneath.
func captionBaseline(y, cellH, fontSize, gutter float64) float64 {
	// Font sizes are points; 72 points per inch.
	offset := fontSize / 72
	if offset > gutter {
		offset = gutter
	}
	return y + cellH + offset
}

// geometry is the page layout resolved to inches.
type geometry struct {
	pageW, pageH   float64
	cellW, cellH   float64
	gutter         float64
	startX, startY float64
	fontSize       float64
}

// documentGeometry converts the computed grid into drawing coordinates.
// The page and label each carry their own unit; pixel units resolve
// through the label's DPI.
func documentGeometry(grid layout.Grid, page label.PageSetup, cfg label.LabelConfig, opts layout.Options) geometry {
	pw, ph := page.EffectiveSize()

	geo := geometry{
		pageW:    toInches(pw, page.Unit, cfg.DPI),
		pageH:    toInches(ph, page.Unit, cfg.DPI),
		gutter:   toInches(page.Gutter, page.Unit, cfg.DPI),
		cellW:    toInches(cfg.Width, cfg.Unit, cfg.DPI),
		cellH:    toInches(cfg.Height, cfg.Unit, cfg.DPI),
		fontSize: cfg.FontSize,
	}
	if grid.TemplateName != "" {
		if tpl, ok := opts.Templates[grid.TemplateName]; ok {
			geo.cellW = units.ToInches(tpl.LabelWidth, tpl.Unit)
			geo.cellH = units.ToInches(tpl.LabelHeight, tpl.Unit)
		} else if tpl, ok := layout.LookupTemplate(grid.TemplateName); ok {
			geo.cellW = units.ToInches(tpl.LabelWidth, tpl.Unit)
			geo.cellH = units.ToInches(tpl.LabelHeight, tpl.Unit)
		}
	}

	marginL := toInches(page.MarginLeft, page.Unit, cfg.DPI)
	marginR := toInches(page.MarginRight, page.Unit, cfg.DPI)
	marginT := toInches(page.MarginTop, page.Unit, cfg.DPI)
	marginB := toInches(page.MarginBottom, page.Unit, cfg.DPI)
	availW := geo.pageW - marginL - marginR
	availH := geo.pageH - marginT - marginB

	footW := float64(grid.Columns)*geo.cellW + float64(grid.Columns-1)*geo.gutter
	footH := float64(grid.Rows)*geo.cellH + float64(grid.Rows-1)*geo.gutter
	geo.startX = marginL + math.Max(availW-footW, 0)/2
	geo.startY = marginT + math.Max(availH-footH, 0)/2
	return geo
}
