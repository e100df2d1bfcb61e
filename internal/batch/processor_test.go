package batch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Tiny-Potato/TaterTotter/internal/imaging"
	"github.com/Tiny-Potato/TaterTotter/internal/tater"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeImages struct {
	mu      sync.Mutex
	missing map[string]bool
	fail    map[string]error
	delay   time.Duration
	calls   []string
}

func (f *fakeImages) Materialize(id string) (map[string]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err := f.fail[id]; err != nil {
		return nil, err
	}
	if f.missing[id] {
		return nil, imaging.ErrNoImage
	}
	return map[string]string{imaging.FullTag: imaging.RelPath(imaging.FullTag, id)}, nil
}

func taters(ids ...string) []tater.Tater {
	out := make([]tater.Tater, len(ids))
	for i, id := range ids {
		out[i] = tater.Tater{ID: id, LibraryNumber: i + 1}
	}
	return out
}

func TestRunPreservesOrder(t *testing.T) {
	for _, workers := range []int{1, 4, 16} {
		ts := taters("a", "b", "c", "d", "e", "f", "g", "h")
		images := &fakeImages{missing: map[string]bool{"c": true, "f": true}, delay: time.Millisecond}

		err := Run(context.Background(), Config{Images: images, Workers: workers}, ts)
		require.NoError(t, err)

		var got []string
		for i, tt := range ts {
			assert.Equal(t, i+1, tt.LibraryNumber)
			got = append(got, tt.ID)
			if tt.ID == "c" || tt.ID == "f" {
				assert.Nil(t, tt.Images, tt.ID)
				continue
			}
			assert.Equal(t, "image/full/"+tt.ID+".png", tt.Images[imaging.FullTag])
		}
		if diff := cmp.Diff([]string{"a", "b", "c", "d", "e", "f", "g", "h"}, got); diff != "" {
			t.Errorf("workers=%d order mismatch (-want +got):\n%s", workers, diff)
		}
	}
}

func TestRunSequentialBaseline(t *testing.T) {
	ts := taters("x", "y", "z")
	images := &fakeImages{}

	require.NoError(t, Run(context.Background(), Config{Images: images, Workers: 1}, ts))
	assert.Equal(t, []string{"x", "y", "z"}, images.calls)
}

func TestRunLogsMissingImages(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ts := taters("potato1", "potato2")
	images := &fakeImages{missing: map[string]bool{"potato2": true}}

	require.NoError(t, Run(context.Background(), Config{Images: images, Workers: 2, Logger: zap.New(core)}, ts))

	entries := logs.FilterMessage("tater has no image").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "potato2", entries[0].ContextMap()["id"])
}

func TestRunAbortsOnFatalError(t *testing.T) {
	boom := errors.New("disk full")
	ts := taters("a", "b", "c", "d")
	images := &fakeImages{fail: map[string]error{"b": boom}}

	err := Run(context.Background(), Config{Images: images, Workers: 1}, ts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "b")
	assert.NotContains(t, images.calls, "d")
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	images := &fakeImages{}
	err := Run(ctx, Config{Images: images, Workers: 2}, taters("a", "b"))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, images.calls)
}

func TestRunReportsProgress(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	images := &fakeImages{delay: 5 * time.Millisecond}

	cfg := Config{Images: images, Workers: 1, Logger: zap.New(core), ReportInterval: time.Millisecond}
	require.NoError(t, Run(context.Background(), cfg, taters("a", "b", "c", "d", "e", "f")))

	entries := logs.FilterMessage("materializing images").All()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1].ContextMap()
	assert.Positive(t, last["processed"])
	assert.Equal(t, int64(6), last["total"])
}
