package label

import (
	"github.com/google/uuid"

	"github.com/labelforge/labelforge/pkg/errors"
)

// Record is one entry in the label collection: the string to encode plus
// its validation state and list position.
//
// Rendered images are never stored on a record. They are a derived
// projection of (record, config), recomputed on demand, so a configuration
// change invalidates every previous render implicitly.
type Record struct {
	ID       string `json:"id" bson:"id"`
	Payload  string `json:"payload" bson:"payload"`
	Caption  string `json:"caption,omitempty" bson:"caption,omitempty"`
	Valid    bool   `json:"valid" bson:"valid"`
	Error    string `json:"error,omitempty" bson:"error,omitempty"`
	Position int    `json:"position" bson:"position"` // 1-based, reflects current list order
}

// NewRecord creates a record and validates the payload against the format
// once. An invalid payload does not fail creation; the record carries
// {Valid: false, Error: reason} and is skipped by exports.
func NewRecord(payload, caption string, format Format) Record {
	r := Record{
		ID:      uuid.NewString(),
		Payload: payload,
		Caption: caption,
		Valid:   true,
	}
	if err := ValidatePayload(payload, format); err != nil {
		r.Valid = false
		r.Error = errors.UserMessage(err)
	}
	return r
}

// Collection is the single mutable source of truth for a session's
// records. It is mutated only by the discrete actions below, each of which
// leaves positions renumbered 1..n in list order. During an export pass
// the collection is treated as an immutable snapshot.
type Collection struct {
	Records []Record `json:"records" bson:"records"`
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add validates and appends one record, returning it.
func (c *Collection) Add(payload, caption string, format Format) Record {
	r := NewRecord(payload, caption, format)
	c.Records = append(c.Records, r)
	c.renumber()
	return c.Records[len(c.Records)-1]
}

// Remove deletes the record at the given 1-based position and renumbers
// the remainder.
func (c *Collection) Remove(position int) error {
	if position < 1 || position > len(c.Records) {
		return errors.New(errors.ErrCodeNotFound, "no record at position %d", position)
	}
	c.Records = append(c.Records[:position-1], c.Records[position:]...)
	c.renumber()
	return nil
}

// Clear removes all records.
func (c *Collection) Clear() {
	c.Records = nil
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.Records)
}

// Valid returns the valid records in list order.
func (c *Collection) Valid() []Record {
	var out []Record
	for _, r := range c.Records {
		if r.Valid {
			out = append(out, r)
		}
	}
	return out
}

// Revalidate re-runs payload validation against a (possibly different)
// format. Used when the session's label format changes: validity is a
// function of (payload, format), not a stored fact about the record alone.
func (c *Collection) Revalidate(format Format) {
	for i := range c.Records {
		err := ValidatePayload(c.Records[i].Payload, format)
		c.Records[i].Valid = err == nil
		c.Records[i].Error = ""
		if err != nil {
			c.Records[i].Error = errors.UserMessage(err)
		}
	}
}

// renumber rewrites positions to 1..n in list order.
func (c *Collection) renumber() {
	for i := range c.Records {
		c.Records[i].Position = i + 1
	}
}
