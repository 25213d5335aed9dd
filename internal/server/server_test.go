package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labelforge/labelforge/pkg/config"
	"github.com/labelforge/labelforge/pkg/export"
	"github.com/labelforge/labelforge/pkg/label"
	"github.com/labelforge/labelforge/pkg/render"
	"github.com/labelforge/labelforge/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ex := export.New(render.New(nil), nil)
	return New(st, ex, config.Default(), nil)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestServer(t).Router()
	w := doJSON(t, h, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRecordLifecycle(t *testing.T) {
	h := newTestServer(t).Router()

	// Empty at first.
	w := doJSON(t, h, http.MethodGet, "/api/records", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var col label.Collection
	if err := json.Unmarshal(w.Body.Bytes(), &col); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if col.Len() != 0 {
		t.Fatalf("fresh collection has %d records", col.Len())
	}

	// Add two records.
	w = doJSON(t, h, http.MethodPost, "/api/records", `{"payload":"item-1","caption":"First"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", w.Code, w.Body)
	}
	var rec label.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.Position != 1 || !rec.Valid {
		t.Errorf("record = %+v", rec)
	}
	doJSON(t, h, http.MethodPost, "/api/records", `{"payload":"item-2"}`)

	// Delete the first; the second moves up.
	w = doJSON(t, h, http.MethodDelete, "/api/records/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", w.Code, w.Body)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &col); err != nil {
		t.Fatal(err)
	}
	if col.Len() != 1 || col.Records[0].Payload != "item-2" || col.Records[0].Position != 1 {
		t.Errorf("after delete: %+v", col.Records)
	}

	// Deleting a position that is gone is a 404.
	w = doJSON(t, h, http.MethodDelete, "/api/records/5", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing status = %d, want 404", w.Code)
	}

	// Clear.
	w = doJSON(t, h, http.MethodDelete, "/api/records", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", w.Code)
	}
}

func TestAddRecordValidation(t *testing.T) {
	h := newTestServer(t).Router()

	w := doJSON(t, h, http.MethodPost, "/api/records", `{"payload":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty payload status = %d, want 400", w.Code)
	}
	w = doJSON(t, h, http.MethodPost, "/api/records", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d, want 400", w.Code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	h := newTestServer(t).Router()

	w := doJSON(t, h, http.MethodGet, "/api/layout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("layout status = %d", w.Code)
	}
	var grid struct {
		Columns  int `json:"columns"`
		Rows     int `json:"rows"`
		Capacity int `json:"capacity"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &grid); err != nil {
		t.Fatalf("decode grid: %v", err)
	}
	// Default A4 with 10 mm margins, 2 mm gutter, 40x40 mm labels.
	if grid.Columns != 4 || grid.Rows != 6 || grid.Capacity != 24 {
		t.Errorf("grid = %+v, want 4x6=24", grid)
	}
}

func TestExportEndpoints(t *testing.T) {
	h := newTestServer(t).Router()

	// Exporting an empty collection is a 422, not a crash.
	w := doJSON(t, h, http.MethodPost, "/api/export/document", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty export status = %d, want 422: %s", w.Code, w.Body)
	}

	doJSON(t, h, http.MethodPost, "/api/records", `{"payload":"exported-item"}`)

	w = doJSON(t, h, http.MethodPost, "/api/export/document", "")
	if w.Code != http.StatusOK {
		t.Fatalf("document status = %d: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("document body is not a PDF")
	}

	w = doJSON(t, h, http.MethodPost, "/api/export/archive", "")
	if w.Code != http.StatusOK {
		t.Fatalf("archive status = %d: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("content type = %q", ct)
	}
	// ZIP local file header magic.
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK\x03\x04")) {
		t.Error("archive body is not a ZIP")
	}
}

func TestExportRevalidatesAgainstConfiguredFormat(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	// A record captured under EAN-13 rules starts invalid, but the
	// server's QR config can encode it fine.
	col := label.NewCollection()
	col.Add("hello-world", "", label.FormatEAN13)
	if col.Records[0].Valid {
		t.Fatal("fixture record should start invalid")
	}
	if err := st.Save(context.Background(), store.DefaultCollection, col); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ex := export.New(render.New(nil), nil)
	h := New(st, ex, config.Default(), nil).Router()

	w := doJSON(t, h, http.MethodPost, "/api/export/archive", "")
	if w.Code != http.StatusOK {
		t.Fatalf("archive status = %d, want 200 after revalidation: %s", w.Code, w.Body)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK\x03\x04")) {
		t.Error("archive body is not a ZIP")
	}

	// The list endpoint reports the recomputed validity too.
	w = doJSON(t, h, http.MethodGet, "/api/records", "")
	var back label.Collection
	if err := json.Unmarshal(w.Body.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.Len() != 1 || !back.Records[0].Valid {
		t.Errorf("listed records = %+v, want one valid record", back.Records)
	}
}

func TestNamedCollections(t *testing.T) {
	h := newTestServer(t).Router()

	doJSON(t, h, http.MethodPost, "/api/records?collection=alpha", `{"payload":"in-alpha"}`)

	w := doJSON(t, h, http.MethodGet, "/api/records?collection=beta", "")
	var col label.Collection
	if err := json.Unmarshal(w.Body.Bytes(), &col); err != nil {
		t.Fatal(err)
	}
	if col.Len() != 0 {
		t.Error("collections must be isolated by name")
	}

	w = doJSON(t, h, http.MethodGet, "/api/records?collection=alpha", "")
	if err := json.Unmarshal(w.Body.Bytes(), &col); err != nil {
		t.Fatal(err)
	}
	if col.Len() != 1 {
		t.Error("named collection lost its record")
	}
}
