// Package listing folds the sorted catalog into its three published views
// and writes them under <output>/listing.
package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Tiny-Potato/TaterTotter/internal/tater"
)

// Output paths relative to the output directory.
const (
	AllPath             = "listing/all.json"
	ByIDPath            = "listing/by_id.json"
	ByLibraryNumberPath = "listing/by_library_number.json"
)

// Listing is the envelope shared by all three views.
type Listing struct {
	Length int `json:"length"`
	Taters any `json:"taters"`
}

// Set holds the three views of one catalog.
type Set struct {
	All             Listing // []json.RawMessage in library order
	ByID            Listing // Object keyed by id
	ByLibraryNumber Listing // Object keyed by stringified library number
}

// Build folds taters, already sorted and numbered, into a Set.
func Build(taters []tater.Tater) (Set, error) {
	n := len(taters)
	all := make([]json.RawMessage, 0, n)
	byID := make(Object, 0, n)
	byNumber := make(Object, 0, n)
	seen := make(map[string]bool, n)

	for _, t := range taters {
		if seen[t.ID] {
			return Set{}, fmt.Errorf("listing: duplicate tater id %q", t.ID)
		}
		seen[t.ID] = true

		raw, err := t.MarshalJSON()
		if err != nil {
			return Set{}, fmt.Errorf("listing: encode %s: %w", t.ID, err)
		}
		all = append(all, raw)
		byID = append(byID, Member{Key: t.ID, Value: raw})
		byNumber = append(byNumber, Member{Key: strconv.Itoa(t.LibraryNumber), Value: raw})
	}

	return Set{
		All:             Listing{Length: n, Taters: all},
		ByID:            Listing{Length: n, Taters: byID},
		ByLibraryNumber: Listing{Length: n, Taters: byNumber},
	}, nil
}

// Files maps each output path to its listing.
func (s Set) Files() map[string]Listing {
	return map[string]Listing{
		AllPath:             s.All,
		ByIDPath:            s.ByID,
		ByLibraryNumberPath: s.ByLibraryNumber,
	}
}

// Write replaces the three listing files under outputDir.
func Write(outputDir string, s Set) error {
	for rel, l := range s.Files() {
		data, err := Encode(l)
		if err != nil {
			return fmt.Errorf("listing: encode %s: %w", rel, err)
		}

		path := filepath.Join(outputDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("listing: mkdir for %s: %w", path, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("listing: write %s: %w", path, err)
		}
	}
	return nil
}

// Encode renders a listing as compact JSON followed by a newline.
func Encode(l Listing) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
