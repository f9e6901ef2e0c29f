package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/roads-dashboard-go/internal/models"
	"github.com/jengzang/roads-dashboard-go/internal/testutil"
)

type fakeSource struct {
	loads   atomic.Int32
	fail    atomic.Bool
	mu      sync.Mutex
	modTime time.Time
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Load(ctx context.Context) (*models.Table, error) {
	n := f.loads.Add(1)
	if f.fail.Load() {
		return nil, errors.New("boom")
	}
	t := testutil.Hierarchy()
	t.Source = ""
	t.Records = t.Records[:n]
	return t, nil
}

func (f *fakeSource) ModTime() (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.modTime, nil
}

func (f *fakeSource) touch(t time.Time) {
	f.mu.Lock()
	f.modTime = t
	f.mu.Unlock()
}

func TestTableBeforeLoad(t *testing.T) {
	s := New(&fakeSource{})
	_, err := s.Table()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLoadOnce(t *testing.T) {
	src := &fakeSource{}
	s := New(src)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Load(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.loads.Load())
	table, err := s.Table()
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, "fake", table.Source)
}

func TestReloadSwapsSnapshot(t *testing.T) {
	src := &fakeSource{}
	s := New(src)

	first, err := s.Load(context.Background())
	require.NoError(t, err)

	second, err := s.Reload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, first.Len(), "old snapshot is untouched")
	assert.Equal(t, 2, second.Len())

	current, err := s.Table()
	require.NoError(t, err)
	assert.Same(t, second, current)
}

func TestReloadFailureKeepsTable(t *testing.T) {
	src := &fakeSource{}
	s := New(src)

	first, err := s.Load(context.Background())
	require.NoError(t, err)

	src.fail.Store(true)
	_, err = s.Reload(context.Background())
	assert.Error(t, err)

	current, err := s.Table()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestWatchReloadsOnChange(t *testing.T) {
	src := &fakeSource{}
	src.touch(time.Unix(1000, 0))
	s := New(src)
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), src.loads.Load(), "unchanged source is not reloaded")

	src.touch(time.Unix(2000, 0))
	assert.Eventually(t, func() bool { return src.loads.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

type plainSource struct{}

func (plainSource) Name() string { return "plain" }
func (plainSource) Load(context.Context) (*models.Table, error) {
	return testutil.Hierarchy(), nil
}

func TestWatchUnversionedReturns(t *testing.T) {
	s := New(plainSource{})
	done := make(chan struct{})
	go func() {
		s.Watch(context.Background(), time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch should return for sources without a modification time")
	}
}
