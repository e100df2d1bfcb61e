// Package imaging copies a tater's source image into the output tree and
// writes its resized variants.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// FullTag is the images key for the untouched original.
const FullTag = "full"

// ErrNoImage is returned by Materialize when the tater has no source image.
var ErrNoImage = errors.New("imaging: no source image")

// Variant is a named target width.
type Variant struct {
	Tag   string `json:"tag" yaml:"tag"`
	Width int    `json:"width" yaml:"width"`
}

// DefaultVariants returns the standard resize set.
func DefaultVariants() []Variant {
	return []Variant{
		{Tag: "128x", Width: 128},
		{Tag: "256x", Width: 256},
		{Tag: "32x", Width: 32},
		{Tag: "64x", Width: 64},
	}
}

// Materializer writes image/full/<id>.png and image/<tag>/<id>.png under
// OutputDir for sources found at ImageDir/<id>.png.
type Materializer struct {
	ImageDir  string
	OutputDir string
	Variants  []Variant
	WebP      bool // also write a lossless .webp next to every PNG
}

// Materialize writes the original and every variant for id and returns the
// output-relative paths keyed by tag. A missing source yields ErrNoImage;
// any other failure is returned as is.
func (m *Materializer) Materialize(id string) (map[string]string, error) {
	srcPath := filepath.Join(m.ImageDir, id+".png")
	raw, err := os.ReadFile(srcPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoImage
	}
	if err != nil {
		return nil, fmt.Errorf("imaging: read %s: %w", srcPath, err)
	}

	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode %s: %w", srcPath, err)
	}
	src := toNRGBA(decoded)

	paths := make(map[string]string, len(m.Variants)+1)

	full := RelPath(FullTag, id)
	if err := m.write(full, raw); err != nil {
		return nil, err
	}
	if err := m.writeWebP(full, src); err != nil {
		return nil, err
	}
	paths[FullTag] = full

	for _, v := range m.Variants {
		img := Resize(src, v.Width)

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("imaging: encode %s %s: %w", id, v.Tag, err)
		}

		rel := RelPath(v.Tag, id)
		if err := m.write(rel, buf.Bytes()); err != nil {
			return nil, err
		}
		if err := m.writeWebP(rel, img); err != nil {
			return nil, err
		}
		paths[v.Tag] = rel
	}

	return paths, nil
}

// RelPath returns the output-relative path of a variant, always with forward
// slashes.
func RelPath(tag, id string) string {
	return path.Join("image", tag, id+".png")
}

func (m *Materializer) write(rel string, data []byte) error {
	out := filepath.Join(m.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("imaging: mkdir for %s: %w", out, err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("imaging: write %s: %w", out, err)
	}
	return nil
}

func (m *Materializer) writeWebP(rel string, img image.Image) error {
	if !m.WebP {
		return nil
	}

	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return fmt.Errorf("imaging: webp encode %s: %w", rel, err)
	}
	return m.write(strings.TrimSuffix(rel, ".png")+".webp", buf.Bytes())
}
