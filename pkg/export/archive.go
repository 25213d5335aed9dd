package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/label"
)

// Archive renders every valid record and writes the images into a ZIP
// archive on w. Entry names are "<slug>_<position>.png" where the slug
// is a sanitized form of the record's payload.
//
// Records that fail to render are skipped with a warning; the archive
// still completes. An archive with zero valid records is refused before
// any bytes are written.
func (e *Exporter) Archive(ctx context.Context, w io.Writer, col *label.Collection, cfg label.LabelConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	valid := col.Valid()
	if len(valid) == 0 {
		return errors.New(errors.ErrCodeNoValidRecords, "no valid records to export")
	}

	zw := zip.NewWriter(w)
	written := 0
	for i, rec := range valid {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "archive export canceled")
		}

		res := e.renderer.Render(ctx, rec, cfg)
		if !res.OK() {
			e.logger.Warnf("skipping record %d (%s): %v", rec.Position, res.Reason, res.Err)
			e.report(i+1, len(valid))
			continue
		}

		entry, err := zw.Create(fmt.Sprintf("%s_%03d.png", slug(rec.Payload), rec.Position))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create archive entry")
		}
		if _, err := entry.Write(res.PNG); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write archive entry")
		}
		written++
		e.report(i+1, len(valid))
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "finalize archive")
	}
	e.logger.Infof("archived %d of %d records", written, len(valid))
	return nil
}
