package tater

import (
	"maps"
	"time"

	"github.com/Tiny-Potato/TaterTotter/internal/canonical"
)

// Field names the builder owns. Values for these in source files are
// replaced (id) or discarded (libraryNumber, images).
const (
	FieldID              = "id"
	FieldFirstAppearance = "firstAppearance"
	FieldLibraryNumber   = "libraryNumber"
	FieldImages          = "images"
)

// Tater is one catalog entry loaded from <id>.json.
type Tater struct {
	ID              string
	FirstAppearance FirstAppearance
	LibraryNumber   int
	Images          map[string]string // nil when no source image exists

	fields map[string]any // verbatim source data, builder-owned keys removed
}

// FirstAppearance is the typed view of the firstAppearance object used for
// ordering.
type FirstAppearance struct {
	Date    time.Time
	HasDate bool
	Order   *int64
}

// Fields returns the record as a generic object: the source data plus the
// builder-assigned id, libraryNumber and, when present, images.
func (t Tater) Fields() map[string]any {
	out := make(map[string]any, len(t.fields)+3)
	maps.Copy(out, t.fields)
	out[FieldID] = t.ID
	if t.LibraryNumber > 0 {
		out[FieldLibraryNumber] = t.LibraryNumber
	}
	if t.Images != nil {
		out[FieldImages] = t.Images
	}
	return out
}

// MarshalJSON emits the record with keys in canonical order.
func (t Tater) MarshalJSON() ([]byte, error) {
	return canonical.Marshal(t.Fields())
}
