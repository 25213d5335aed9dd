package label

import (
	"strings"
	"testing"
)

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		format  Format
		wantOK  bool
	}{
		{"QRSimple", "https://example.com/p/123", FormatQR, true},
		{"QREmpty", "", FormatQR, false},
		{"QRTooLong", strings.Repeat("x", 3000), FormatQR, false},
		{"DataMatrix", "LOT-2024-001", FormatDataMatrix, true},
		{"Code128ASCII", "ABC-123/xyz", FormatCode128, true},
		{"Code128NonASCII", "ABCé", FormatCode128, false},
		{"Code39Upper", "CODE-39 OK.", FormatCode39, true},
		{"Code39LowerAccepted", "abc123", FormatCode39, true}, // upper-cased before check
		{"Code39BadChar", "NO_UNDERSCORE", FormatCode39, false},
		{"EAN13NoCheck", "400638133393", FormatEAN13, true},
		{"EAN13GoodCheck", "4006381333931", FormatEAN13, true},
		{"EAN13BadCheck", "4006381333932", FormatEAN13, false},
		{"EAN13WrongLength", "12345", FormatEAN13, false},
		{"EAN13NonDigit", "40063813339A", FormatEAN13, false},
		{"EAN8NoCheck", "9638507", FormatEAN8, true},
		{"EAN8GoodCheck", "96385074", FormatEAN8, true},
		{"EAN8BadCheck", "96385071", FormatEAN8, false},
		{"ITFEven", "123456", FormatITF, true},
		{"ITFOdd", "12345", FormatITF, false},
		{"ITFNonDigit", "12a456", FormatITF, false},
		{"UnknownFormat", "x", Format("pdf417"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload(tt.payload, tt.format)
			if (err == nil) != tt.wantOK {
				t.Errorf("ValidatePayload(%q, %s) error = %v, want ok=%v", tt.payload, tt.format, err, tt.wantOK)
			}
		})
	}
}

func TestEANCheckDigit(t *testing.T) {
	tests := []struct {
		digits string
		want   int
	}{
		{"400638133393", 1}, // EAN-13
		{"9638507", 4},      // EAN-8
		{"0000000", 0},
	}
	for _, tt := range tests {
		if got := eanCheckDigit(tt.digits); got != tt.want {
			t.Errorf("eanCheckDigit(%q) = %d, want %d", tt.digits, got, tt.want)
		}
	}
}

func TestNewRecord(t *testing.T) {
	r := NewRecord("4006381333931", "demo", FormatEAN13)
	if !r.Valid {
		t.Errorf("record should be valid: %s", r.Error)
	}
	if r.ID == "" {
		t.Error("record should get an ID")
	}
	if r.Caption != "demo" {
		t.Errorf("Caption = %q", r.Caption)
	}

	bad := NewRecord("12345", "", FormatEAN13)
	if bad.Valid {
		t.Error("record with bad payload should be invalid")
	}
	if bad.Error == "" {
		t.Error("invalid record should carry a reason")
	}
	if bad.ID == r.ID {
		t.Error("records should get distinct IDs")
	}
}

func TestCollectionRenumbering(t *testing.T) {
	c := NewCollection()
	c.Add("one", "", FormatQR)
	c.Add("two", "", FormatQR)
	c.Add("three", "", FormatQR)

	checkPositions := func(t *testing.T) {
		t.Helper()
		for i, r := range c.Records {
			if r.Position != i+1 {
				t.Errorf("record %d has position %d", i, r.Position)
			}
		}
	}
	checkPositions(t)

	if err := c.Remove(2); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d after remove", c.Len())
	}
	if c.Records[1].Payload != "three" {
		t.Errorf("unexpected order after remove: %q", c.Records[1].Payload)
	}
	checkPositions(t)

	if err := c.Remove(0); err == nil {
		t.Error("Remove(0) should fail")
	}
	if err := c.Remove(3); err == nil {
		t.Error("Remove past end should fail")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len = %d after clear", c.Len())
	}
}

func TestCollectionValidFilter(t *testing.T) {
	c := NewCollection()
	c.Add("123456", "", FormatITF)
	c.Add("1234567", "", FormatITF) // odd length, invalid
	c.Add("654321", "", FormatITF)

	valid := c.Valid()
	if len(valid) != 2 {
		t.Fatalf("Valid() returned %d records, want 2", len(valid))
	}
	for _, r := range valid {
		if !r.Valid {
			t.Errorf("Valid() returned invalid record %q", r.Payload)
		}
	}
}

func TestCollectionRevalidate(t *testing.T) {
	c := NewCollection()
	c.Add("hello_world", "", FormatQR) // fine for QR
	if !c.Records[0].Valid {
		t.Fatal("should start valid")
	}

	c.Revalidate(FormatEAN13)
	if c.Records[0].Valid {
		t.Error("hello_world should be invalid for EAN-13")
	}
	if c.Records[0].Error == "" {
		t.Error("invalid record should carry a reason")
	}

	c.Revalidate(FormatQR)
	if !c.Records[0].Valid {
		t.Error("revalidating back to QR should restore validity")
	}
	if c.Records[0].Error != "" {
		t.Errorf("valid record should not carry an error: %q", c.Records[0].Error)
	}
}

func TestLabelConfigValidate(t *testing.T) {
	cfg := DefaultLabelConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*LabelConfig)
	}{
		{"BadFormat", func(c *LabelConfig) { c.Format = "aztec" }},
		{"BadUnit", func(c *LabelConfig) { c.Unit = "pt" }},
		{"ZeroWidth", func(c *LabelConfig) { c.Width = 0 }},
		{"NegativeHeight", func(c *LabelConfig) { c.Height = -1 }},
		{"NegativeMargin", func(c *LabelConfig) { c.Margin = -0.1 }},
		{"ZeroDPI", func(c *LabelConfig) { c.DPI = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultLabelConfig()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPageSetup(t *testing.T) {
	p := DefaultPageSetup()
	if err := p.Validate(); err != nil {
		t.Fatalf("default page should validate: %v", err)
	}

	w, h := p.EffectiveSize()
	if w != 210 || h != 297 {
		t.Errorf("portrait A4 = %gx%g", w, h)
	}

	p.Orientation = Landscape
	w, h = p.EffectiveSize()
	if w != 297 || h != 210 {
		t.Errorf("landscape A4 = %gx%g", w, h)
	}

	p.ApplySize("Letter")
	if p.Width != 215.9 || p.Height != 279.4 {
		t.Errorf("Letter = %gx%g", p.Width, p.Height)
	}

	p.ApplySize("Tabloid")
	if p.Size != "Custom" {
		t.Errorf("unknown size should become Custom, got %q", p.Size)
	}
}
