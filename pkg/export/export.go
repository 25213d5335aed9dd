// Package export turns a record collection into shippable artifacts: a
// multi-page PDF document laid out on the computed grid, or a ZIP archive
// of standalone PNG images.
//
// Both exporters follow the same contract. The collection is treated as an
// immutable snapshot for the duration of the pass, invalid records are
// skipped, a render failure skips that record without aborting the batch,
// and progress is reported after every processed record. Only structural
// preconditions (no valid records, zero page capacity) fail the export as
// a whole.
package export

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/labelforge/labelforge/pkg/render"
	"github.com/labelforge/labelforge/pkg/units"
)

// ProgressFunc receives export progress as an integer percentage in
// [0, 100]. It is called after every processed record, including skipped
// ones, and always reaches 100 on a successful pass.
type ProgressFunc func(percent int)

// Exporter renders records and writes them into an output artifact.
type Exporter struct {
	renderer render.Renderer
	logger   *log.Logger

	// Progress, when set, receives completion percentages during a pass.
	Progress ProgressFunc
}

// New creates an Exporter. A nil logger falls back to log.Default().
func New(r render.Renderer, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{renderer: r, logger: logger}
}

// report emits progress as floor(done*100/total).
func (e *Exporter) report(done, total int) {
	if e.Progress == nil || total <= 0 {
		return
	}
	e.Progress(done * 100 / total)
}

// toInches normalizes a dimension to inches. Unlike the grid calculator,
// exporters resolve pixel units through DPI so that pixel-sized pages and
// labels land at their true physical size.
func toInches(value float64, unit units.Unit, dpi float64) float64 {
	if unit == units.Pixel {
		return value / dpi
	}
	return units.ToInches(value, unit)
}

// slug derives a filesystem-safe name fragment from s. Runs of anything
// outside [A-Za-z0-9_-] become a single dash; an empty result falls back
// to "label".
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
			dash = false
		default:
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
		if b.Len() >= 40 {
			break
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "label"
	}
	return out
}
