// Package store holds the process-wide record store.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jengzang/roads-dashboard-go/internal/log"
	"github.com/jengzang/roads-dashboard-go/internal/metrics"
	"github.com/jengzang/roads-dashboard-go/internal/models"
)

// ErrNotLoaded is returned when the store is read before its first successful load
var ErrNotLoaded = errors.New("record store not loaded")

// Source produces a table of road segments
type Source interface {
	Name() string
	Load(ctx context.Context) (*models.Table, error)
}

// Versioned is implemented by sources that can report when their content changed
type Versioned interface {
	ModTime() (time.Time, error)
}

// Store caches the table loaded from a source. The table is replaced, never modified:
// readers keep whatever snapshot they obtained.
type Store struct {
	source Source

	mu      sync.Mutex // serializes loads
	table   atomic.Pointer[models.Table]
	version time.Time
}

// New creates a store for the given source. Nothing is loaded until Load is called.
func New(source Source) *Store {
	return &Store{source: source}
}

// Load loads the table on first use and returns the cached table afterwards
func (s *Store) Load(ctx context.Context) (*models.Table, error) {
	if t := s.table.Load(); t != nil {
		return t, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.table.Load(); t != nil {
		return t, nil
	}
	return s.load(ctx)
}

// Reload invalidates the cache and loads the source again.
// On failure the previous table stays in place.
func (s *Store) Reload(ctx context.Context) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Table returns the current snapshot
func (s *Store) Table() (*models.Table, error) {
	t := s.table.Load()
	if t == nil {
		return nil, ErrNotLoaded
	}
	return t, nil
}

func (s *Store) load(ctx context.Context) (*models.Table, error) {
	start := time.Now()

	var version time.Time
	if v, ok := s.source.(Versioned); ok {
		if mt, err := v.ModTime(); err == nil {
			version = mt
		}
	}

	t, err := s.source.Load(ctx)
	elapsed := time.Since(start)
	if err != nil {
		metrics.StoreLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load %s: %w", s.source.Name(), err)
	}
	if t.Source == "" {
		t.Source = s.source.Name()
	}
	if t.LoadedAt.IsZero() {
		t.LoadedAt = time.Now()
	}

	s.table.Store(t)
	s.version = version

	metrics.StoreLoadsTotal.WithLabelValues("ok").Inc()
	metrics.StoreLoadDurationMs.Observe(float64(elapsed.Microseconds()) / 1000)
	metrics.StoreRecords.Set(float64(t.Len()))

	log.Infow("record store loaded",
		"source", t.Source,
		"records", t.Len(),
		"missing_columns", len(t.Schema.Missing()),
		"duration", elapsed,
	)
	return t, nil
}

// Watch reloads the store whenever a versioned source reports a newer modification time.
// It returns when ctx is done, or immediately if the source is not versioned.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	v, ok := s.source.(Versioned)
	if !ok || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mt, err := v.ModTime()
			if err != nil {
				log.Warnw("cannot stat record source", "source", s.source.Name(), "error", err)
				continue
			}
			if !s.changed(mt) {
				continue
			}
			if _, err := s.Reload(ctx); err != nil {
				log.Errorw("reload after source change failed", "error", err)
			}
		}
	}
}

func (s *Store) changed(mt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Load() == nil || mt.After(s.version)
}
