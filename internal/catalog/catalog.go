// Package catalog runs the whole generator: load, sort, number, materialize
// images, then publish the listings.
package catalog

import (
	"context"
	"fmt"

	"github.com/Tiny-Potato/TaterTotter/internal/batch"
	"github.com/Tiny-Potato/TaterTotter/internal/config"
	"github.com/Tiny-Potato/TaterTotter/internal/imaging"
	"github.com/Tiny-Potato/TaterTotter/internal/listing"
	"github.com/Tiny-Potato/TaterTotter/internal/tater"

	"go.uber.org/zap"
)

// Generate builds the catalog described by cfg and writes images and
// listings under cfg.OutputDir. cfg must already be resolved.
func Generate(ctx context.Context, cfg config.Config, log *zap.Logger) (listing.Set, error) {
	images := &imaging.Materializer{
		ImageDir:  cfg.ImageDir,
		OutputDir: cfg.OutputDir,
		Variants:  cfg.Variants,
		WebP:      cfg.WebP,
	}
	return Build(ctx, cfg, images, log)
}

// Build is Generate with a caller-supplied image materializer.
func Build(ctx context.Context, cfg config.Config, images batch.Images, log *zap.Logger) (listing.Set, error) {
	if log == nil {
		log = zap.NewNop()
	}

	taters, err := tater.LoadDir(cfg.DataDir, log)
	if err != nil {
		return listing.Set{}, err
	}
	tater.Sort(taters)
	tater.Number(taters)

	err = batch.Run(ctx, batch.Config{Images: images, Workers: cfg.Workers, Logger: log}, taters)
	if err != nil {
		return listing.Set{}, err
	}

	set, err := listing.Build(taters)
	if err != nil {
		return listing.Set{}, err
	}
	if err := listing.Write(cfg.OutputDir, set); err != nil {
		return listing.Set{}, err
	}

	n := len(taters)
	log.Info(fmt.Sprintf("found %d tater%s", n, plural(n)), zap.Int("count", n))
	return set, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
