package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededSnapshot writes the sample notes into a fresh file collection.
func seededSnapshot(t *testing.T) *FileCollection[note] {
	t.Helper()
	snap := NewFileCollection[note](t.TempDir(), "notes")
	for _, n := range sampleNotes() {
		require.NoError(t, snap.Insert(context.Background(), n))
	}
	return snap
}

// emptyStore returns a file collection standing in for an empty document
// store. Unlike a database, a file store needs the file to exist to count.
func emptyStore(t *testing.T) *FileCollection[note] {
	t.Helper()
	store := NewFileCollection[note](t.TempDir(), "notes")
	require.NoError(t, store.Upsert(context.Background(), nil))
	return store
}

func TestGuardSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	snap := seededSnapshot(t)
	store := emptyStore(t)

	g := NewGuard(nil)
	g.Register("notes", SeedStep[note](snap, store))
	require.NoError(t, g.Ensure(ctx))
	assert.True(t, g.Done())

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, sampleNotes(), items, "ids and timestamps are preserved")
}

func TestGuardRunsStepsOncePerProcess(t *testing.T) {
	ctx := context.Background()
	var runs atomic.Int32

	g := NewGuard(nil)
	g.Register("counted", func(context.Context) (int, error) {
		runs.Add(1)
		return 0, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.Ensure(ctx))
		}()
	}
	wg.Wait()
	require.NoError(t, g.Ensure(ctx))

	assert.Equal(t, int32(1), runs.Load())
}

// TestGuardIdempotentAcrossProcesses simulates a second instance with its own
// guard running the seed against an already-populated store.
func TestGuardIdempotentAcrossProcesses(t *testing.T) {
	ctx := context.Background()
	snap := seededSnapshot(t)
	store := emptyStore(t)

	for i := 0; i < 2; i++ {
		g := NewGuard(nil)
		g.Register("notes", SeedStep[note](snap, store))
		require.NoError(t, g.Ensure(ctx))
	}

	items, err := store.List(ctx)
	require.NoError(t, err)
	ids := map[string]int{}
	for _, n := range items {
		ids[n.ID]++
	}
	assert.Equal(t, map[string]int{"n1": 1, "n2": 1}, ids)
}

func TestSeedStepSkipsPopulatedStore(t *testing.T) {
	ctx := context.Background()
	snap := seededSnapshot(t)
	store := emptyStore(t)
	require.NoError(t, store.Insert(ctx, note{ID: "own", Slug: "own", CreatedAt: day1}))

	copied, err := SeedStep[note](snap, store)(ctx)
	require.NoError(t, err)
	assert.Zero(t, copied)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a populated store is never merged into")
}

func TestSeedStepMissingSnapshot(t *testing.T) {
	ctx := context.Background()
	snap := NewFileCollection[note](t.TempDir(), "notes")
	store := emptyStore(t)

	copied, err := SeedStep[note](snap, store)(ctx)
	require.NoError(t, err)
	assert.Zero(t, copied)
}

func TestGuardRetriesFailedSteps(t *testing.T) {
	ctx := context.Background()
	var okRuns, flakyRuns int

	g := NewGuard(nil)
	g.Register("ok", func(context.Context) (int, error) {
		okRuns++
		return 0, nil
	})
	g.Register("flaky", func(context.Context) (int, error) {
		flakyRuns++
		if flakyRuns == 1 {
			return 0, errors.New("connection refused")
		}
		return 3, nil
	})

	err := g.Ensure(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, g.Done())

	require.NoError(t, g.Ensure(ctx))
	assert.True(t, g.Done())
	assert.Equal(t, 1, okRuns, "successful steps do not rerun")
	assert.Equal(t, 2, flakyRuns)
}

func TestGuardPrepareFailure(t *testing.T) {
	var stepRan bool
	g := NewGuard(func(context.Context) error { return errors.New("no schema") })
	g.Register("notes", func(context.Context) (int, error) {
		stepRan = true
		return 0, nil
	})

	err := g.Ensure(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, stepRan)
}

func TestGuardedCollectionTriggersSeed(t *testing.T) {
	ctx := context.Background()
	snap := seededSnapshot(t)
	store := emptyStore(t)

	g := NewGuard(nil)
	g.Register("notes", SeedStep[note](snap, store))
	c := &guardedCollection[note]{Collection: store, guard: g}

	found, err := c.FindBySlug(ctx, "second")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "n2", found.ID)
}

func TestGuardRegisterAfterDoneRearms(t *testing.T) {
	ctx := context.Background()
	g := NewGuard(nil)
	require.NoError(t, g.Ensure(ctx))
	assert.True(t, g.Done())

	var ran bool
	g.Register("late", func(context.Context) (int, error) {
		ran = true
		return 0, nil
	})
	assert.False(t, g.Done())
	require.NoError(t, g.Ensure(ctx))
	assert.True(t, ran)
	assert.Equal(t, []string{"late"}, g.Names())
}

// slowFailingPrepare stands in for a database that takes d to refuse a
// connection, honouring cancellation like the real drivers do.
func slowFailingPrepare(d time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		select {
		case <-time.After(d):
			return errors.New("connection refused")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func TestGuardWaitersHonourTheirDeadline(t *testing.T) {
	g := NewGuard(slowFailingPrepare(200 * time.Millisecond))

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	elapsed := make([]time.Duration, callers)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
			defer cancel()
			start := time.Now()
			errs[i] = g.Ensure(ctx)
			elapsed[i] = time.Since(start)
		}()
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		assert.ErrorIs(t, errs[i], ErrUnavailable)
		assert.Less(t, elapsed[i], 500*time.Millisecond, "callers must not queue behind each other")
	}
	assert.False(t, g.Done())
}

func TestGuardCancelledWaiterReturnsImmediately(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	g := NewGuard(func(context.Context) error {
		close(started)
		<-release
		return nil
	})

	first := make(chan error, 1)
	go func() { first <- g.Ensure(context.Background()) }()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Ensure(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, <-first)
	assert.True(t, g.Done())
	require.NoError(t, g.Ensure(ctx), "a completed guard does not look at the context")
}

func TestBoundedPrepareUsesBackendTimeout(t *testing.T) {
	b := &Backend{timeout: 50 * time.Millisecond}
	prepare := b.bounded(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	err := prepare(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
