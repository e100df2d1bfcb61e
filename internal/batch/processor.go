// Package batch materializes images for a sorted tater slice on a worker
// pool. Each result is written back to its own index, so slice order is
// never disturbed.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Tiny-Potato/TaterTotter/internal/imaging"
	"github.com/Tiny-Potato/TaterTotter/internal/tater"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Images produces the image paths for one tater id. It returns
// imaging.ErrNoImage when the tater has no source image.
type Images interface {
	Materialize(id string) (map[string]string, error)
}

// Config holds the shared resources for a batch run.
type Config struct {
	Images         Images
	Workers        int
	Logger         *zap.Logger
	ReportInterval time.Duration // progress log period, default 2s
}

// Run materializes images for every tater and stores the paths on the tater.
// The first fatal error cancels the remaining work and is returned.
func Run(ctx context.Context, cfg Config, taters []tater.Tater) error {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	interval := cfg.ReportInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	total := len(taters)
	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	var reporter sync.WaitGroup
	reporter.Add(1)
	go func() {
		defer reporter.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Debug("materializing images",
						zap.Int64("processed", p),
						zap.Int("total", total),
						zap.Float64("per_sec", rate))
				}
			}
		}
	}()
	defer func() {
		close(done)
		reporter.Wait()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range taters {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			paths, err := materialize(cfg.Images, taters[i].ID, log)
			if err != nil {
				return err
			}
			taters[i].Images = paths
			processed.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func materialize(images Images, id string, log *zap.Logger) (map[string]string, error) {
	paths, err := images.Materialize(id)
	if errors.Is(err, imaging.ErrNoImage) {
		log.Info("tater has no image", zap.String("id", id))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("batch: %s: %w", id, err)
	}
	return paths, nil
}
