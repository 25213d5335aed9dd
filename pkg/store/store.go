// Package store persists named record collections between CLI invocations
// and server restarts. Collections are small; each Load/Save moves the
// whole document.
package store

import (
	"context"

	"github.com/labelforge/labelforge/pkg/label"
)

// DefaultCollection is the collection name CLI commands operate on when
// none is given.
const DefaultCollection = "default"

// Store persists collections by name. Loading a name that was never saved
// returns an empty collection, not an error.
type Store interface {
	Load(ctx context.Context, name string) (*label.Collection, error)
	Save(ctx context.Context, name string, col *label.Collection) error
	Delete(ctx context.Context, name string) error
	Close(ctx context.Context) error
}
