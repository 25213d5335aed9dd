// Package batch reads record payloads in bulk from CSV, JSON, or plain
// text files and writes collections back out as JSON.
//
// Import is atomic at the parse level: a malformed file is rejected whole
// and contributes nothing. Payloads that parse but fail symbology
// validation are not rejected here; they become invalid records when the
// caller adds them, so the user can see and fix them in place.
package batch

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/label"
)

// Row is one imported entry before validation: the payload to encode and
// an optional caption.
type Row struct {
	Payload string
	Caption string
}

// ImportFile reads rows from path, choosing the parser by extension:
// ".csv" is parsed as CSV, ".json" as a previously exported collection,
// anything else as one payload per line.
func ImportFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "open %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ImportCSV(f)
	case ".json":
		return importJSON(f)
	default:
		return ImportLines(f)
	}
}

// ImportCSV parses rows of "payload" or "payload,caption". Rows may have
// extra columns; they are ignored. Blank rows are skipped. Any CSV syntax
// error rejects the whole input.
func ImportCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "parse CSV")
		}
		row := Row{Payload: strings.TrimSpace(record[0])}
		if len(record) > 1 {
			row.Caption = strings.TrimSpace(record[1])
		}
		if row.Payload == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ImportLines parses one payload per line, skipping blank lines.
func ImportLines(r io.Reader) ([]Row, error) {
	var rows []Row
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		payload := strings.TrimSpace(sc.Text())
		if payload == "" {
			continue
		}
		rows = append(rows, Row{Payload: payload})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "read lines")
	}
	return rows, nil
}

// importJSON turns a previously exported collection back into rows.
// Stored validity is discarded; it is recomputed when the rows are
// added, so a collection exported under one format imports cleanly
// under another.
func importJSON(r io.Reader) ([]Row, error) {
	col, err := ReadJSON(r)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, col.Len())
	for _, rec := range col.Records {
		if rec.Payload == "" {
			continue
		}
		rows = append(rows, Row{Payload: rec.Payload, Caption: rec.Caption})
	}
	return rows, nil
}

// WriteJSON writes the collection as indented JSON, the same shape the
// file store uses, so an exported collection can be reimported.
func WriteJSON(w io.Writer, col *label.Collection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(col); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode collection")
	}
	return nil
}

// ReadJSON reads a collection previously written by WriteJSON.
func ReadJSON(r io.Reader) (*label.Collection, error) {
	var col label.Collection
	if err := json.NewDecoder(r).Decode(&col); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "decode collection")
	}
	return &col, nil
}
