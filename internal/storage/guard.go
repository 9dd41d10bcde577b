// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// StepFunc performs one bootstrap step and reports how many records it copied.
type StepFunc func(ctx context.Context) (int, error)

type step struct {
	name string
	run  StepFunc
	done bool
}

// Guard runs the document-store bootstrap at most once per process. It first
// runs the backend's prepare hook (schema or indexes), then every registered
// step. A step that succeeds never runs again; a failed step is retried on
// the next Ensure. The state is in memory only, so each process instance
// performs its own check and steps must be idempotent.
//
// One Ensure runs the bootstrap at a time. Callers that arrive while it is
// running wait only as long as their context allows and then report
// ErrUnavailable, so an outage degrades requests instead of queueing them.
type Guard struct {
	// sem is held by the Ensure call running the bootstrap.
	sem      chan struct{}
	mu       sync.Mutex // guards steps
	done     atomic.Bool
	prepare  func(ctx context.Context) error
	prepared bool
	steps    []*step
}

// NewGuard returns a guard. prepare may be nil.
func NewGuard(prepare func(ctx context.Context) error) *Guard {
	return &Guard{sem: make(chan struct{}, 1), prepare: prepare}
}

// Register adds a named step. Registering after a completed Ensure re-arms
// the guard for the new step only.
func (g *Guard) Register(name string, run StepFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.steps = append(g.steps, &step{name: name, run: run})
	g.done.Store(false)
}

// Names returns the registered step names in registration order.
func (g *Guard) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, 0, len(g.steps))
	for _, s := range g.steps {
		names = append(names, s.name)
	}
	return names
}

// Done reports whether every registered step has completed.
func (g *Guard) Done() bool {
	return g.done.Load()
}

// Ensure runs pending bootstrap work. After the first successful run it is a
// single atomic load.
func (g *Guard) Ensure(ctx context.Context) error {
	if g.done.Load() {
		return nil
	}

	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: wait for bootstrap: %w", ErrUnavailable, ctx.Err())
	}
	defer func() { <-g.sem }()
	if g.done.Load() {
		return nil
	}

	if !g.prepared {
		if g.prepare != nil {
			if err := g.prepare(ctx); err != nil {
				return fmt.Errorf("%w: prepare document store: %w", ErrUnavailable, err)
			}
		}
		g.prepared = true
	}

	g.mu.Lock()
	steps := slices.Clone(g.steps)
	g.mu.Unlock()

	eg, egCtx := errgroup.WithContext(ctx)
	for _, s := range steps {
		s := s
		if s.done {
			continue
		}
		eg.Go(func() error {
			copied, err := s.run(egCtx)
			if err != nil {
				return fmt.Errorf("bootstrap %s: %w", s.name, err)
			}
			s.done = true
			if copied > 0 {
				slog.Info("document store seeded from file snapshot", "collection", s.name, "records", copied)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if !errors.Is(err, ErrUnavailable) {
			err = fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.steps) == len(steps) {
		g.done.Store(true)
	}
	return nil
}

// SeedStep copies every record of snapshot into store when store is empty.
// Records keep their ids and timestamps, and the copy is an upsert by id, so
// running it again against a populated store never duplicates anything. A
// missing snapshot file counts as an empty snapshot.
func SeedStep[T Record](snapshot, store Collection[T]) StepFunc {
	return func(ctx context.Context) (int, error) {
		n, err := store.Count(ctx)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return 0, nil
		}

		items, err := snapshot.List(ctx)
		if err != nil {
			if fc, ok := snapshot.(*FileCollection[T]); ok && !fileExists(fc.Path()) {
				return 0, nil
			}
			return 0, err
		}
		if err := store.Upsert(ctx, items); err != nil {
			return 0, err
		}
		return len(items), nil
	}
}

// guardedCollection runs the guard before delegating each call.
type guardedCollection[T Record] struct {
	Collection[T]
	guard *Guard
}

func (c *guardedCollection[T]) List(ctx context.Context) ([]T, error) {
	if err := c.guard.Ensure(ctx); err != nil {
		return nil, err
	}
	return c.Collection.List(ctx)
}

func (c *guardedCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if err := c.guard.Ensure(ctx); err != nil {
		return nil, err
	}
	return c.Collection.FindByID(ctx, id)
}

func (c *guardedCollection[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	if err := c.guard.Ensure(ctx); err != nil {
		return nil, err
	}
	return c.Collection.FindBySlug(ctx, slug)
}

func (c *guardedCollection[T]) Insert(ctx context.Context, item T) error {
	if err := c.guard.Ensure(ctx); err != nil {
		return err
	}
	return c.Collection.Insert(ctx, item)
}

func (c *guardedCollection[T]) Update(ctx context.Context, item T) error {
	if err := c.guard.Ensure(ctx); err != nil {
		return err
	}
	return c.Collection.Update(ctx, item)
}

func (c *guardedCollection[T]) Delete(ctx context.Context, id string) error {
	if err := c.guard.Ensure(ctx); err != nil {
		return err
	}
	return c.Collection.Delete(ctx, id)
}

func (c *guardedCollection[T]) Count(ctx context.Context) (int, error) {
	if err := c.guard.Ensure(ctx); err != nil {
		return 0, err
	}
	return c.Collection.Count(ctx)
}

func (c *guardedCollection[T]) Upsert(ctx context.Context, items []T) error {
	if err := c.guard.Ensure(ctx); err != nil {
		return err
	}
	return c.Collection.Upsert(ctx, items)
}
