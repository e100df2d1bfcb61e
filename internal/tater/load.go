package tater

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Tiny-Potato/TaterTotter/internal/canonical"

	"go.uber.org/zap"
)

var recordName = regexp.MustCompile(`^(.+)\.json$`)

// dateLayouts are tried in order for firstAppearance.date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01",
	"2006",
}

// ParseError reports a record file whose content is not a valid tater.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tater: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadDir reads every <id>.json in dir, in directory-listing order. Other
// entries are logged and skipped.
func LoadDir(dir string, log *zap.Logger) ([]Tater, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("tater: read dir %s: %w", dir, err)
	}

	var taters []Tater
	for _, e := range entries {
		m := recordName.FindStringSubmatch(e.Name())
		if m == nil {
			log.Info("unknown file in data directory", zap.String("file", e.Name()))
			continue
		}

		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("tater: read %s: %w", path, err)
		}

		t, err := Parse(m[1], raw)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		taters = append(taters, t)
	}

	return taters, nil
}

// Parse builds a Tater with the given id from one JSON object.
func Parse(id string, raw []byte) (Tater, error) {
	tree, err := canonical.Decode(raw)
	if err != nil {
		return Tater{}, err
	}
	fields, ok := tree.(map[string]any)
	if !ok {
		return Tater{}, errors.New("record is not a JSON object")
	}

	fa, err := parseFirstAppearance(fields[FieldFirstAppearance])
	if err != nil {
		return Tater{}, err
	}

	delete(fields, FieldID)
	delete(fields, FieldLibraryNumber)
	delete(fields, FieldImages)

	return Tater{ID: id, FirstAppearance: fa, fields: fields}, nil
}

func parseFirstAppearance(v any) (FirstAppearance, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return FirstAppearance{}, nil
	}

	var fa FirstAppearance
	switch d := obj["date"].(type) {
	case nil:
	case string:
		if d != "" {
			t, err := parseDate(d)
			if err != nil {
				return FirstAppearance{}, err
			}
			fa.Date, fa.HasDate = t, true
		}
	default:
		return FirstAppearance{}, fmt.Errorf("firstAppearance.date: expected string, got %T", d)
	}

	switch o := obj["order"].(type) {
	case nil:
	case json.Number:
		n, err := o.Int64()
		if err != nil {
			return FirstAppearance{}, fmt.Errorf("firstAppearance.order: %q is not an integer", o.String())
		}
		fa.Order = &n
	default:
		return FirstAppearance{}, fmt.Errorf("firstAppearance.order: expected integer, got %T", o)
	}

	return fa, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("firstAppearance.date: unrecognized date %q", s)
}
