// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage selects the persistence backend for content collections.
// Every backend (JSON files, MongoDB, PostgreSQL JSONB) implements the same
// Collection contract, so repositories never know which one is in use.
// Document-store backends are seeded from the JSON file snapshot on first
// use through the backend's Guard.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hostpress/internal/database"
)

// Backend modes.
const (
	ModeFile     = "file"
	ModeMongo    = "mongo"
	ModePostgres = "postgres"
)

var (
	// ErrUnavailable wraps every backend I/O failure: unreadable file,
	// unreachable database, expired timeout.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrNotFound is returned by Update and Delete for unknown ids.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned by Insert when the id is already taken.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Record is implemented by every persisted entity.
type Record interface {
	RecordID() string
	RecordSlug() string
	RecordCreatedAt() time.Time
}

// Collection is the uniform CRUD contract over one logical collection.
// Lookups return (nil, nil) when nothing matches. List order is stable:
// insertion order for files, (created_at, id) for document stores.
type Collection[T Record] interface {
	Name() string
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindBySlug(ctx context.Context, slug string) (*T, error)
	Insert(ctx context.Context, item T) error
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// Upsert writes items keyed by id, replacing existing records.
	Upsert(ctx context.Context, items []T) error
}

// Options configures Open.
type Options struct {
	Mode    string
	DataDir string
	// Timeout bounds each document-store call. Zero means no extra bound.
	Timeout time.Duration
	// CollectionNames maps logical names to physical document-store names.
	CollectionNames map[string]string

	MongoURI    string
	MongoDB     string
	PostgresDSN string
}

// Backend is an opened storage backend. It owns the migration guard, so
// the guard lives exactly as long as the backend.
type Backend struct {
	mode    string
	dir     string
	timeout time.Duration
	names   map[string]string

	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	sqlDB       *sql.DB

	guard *Guard
}

// Open prepares the backend selected by opts.Mode. Database connections are
// established lazily: an unreachable database is logged, not fatal, so the
// site keeps serving layout and navigation while content is down.
func Open(ctx context.Context, opts Options) (*Backend, error) {
	b := &Backend{
		mode:    opts.Mode,
		dir:     opts.DataDir,
		timeout: opts.Timeout,
		names:   opts.CollectionNames,
	}

	switch opts.Mode {
	case ModeFile:
		b.guard = NewGuard(nil)

	case ModeMongo:
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(opts.MongoURI).
			SetServerSelectionTimeout(5*time.Second))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		b.mongoClient = client
		b.mongoDB = client.Database(opts.MongoDB)
		b.guard = NewGuard(b.bounded(b.prepareMongo))

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			slog.Warn("mongo not reachable, content will be unavailable until it is", "error", err)
		} else {
			slog.Info("mongo connected", "database", opts.MongoDB)
		}

	case ModePostgres:
		db, err := database.Open(opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		b.sqlDB = db
		b.guard = NewGuard(b.bounded(b.preparePostgres))

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			slog.Warn("postgres not reachable, content will be unavailable until it is", "error", err)
		} else {
			slog.Info("database connected")
		}

	default:
		return nil, fmt.Errorf("unknown storage mode %q", opts.Mode)
	}

	slog.Info("storage backend opened", "mode", opts.Mode, "data_dir", opts.DataDir)
	return b, nil
}

// Mode returns the backend mode.
func (b *Backend) Mode() string { return b.mode }

// Guard returns the backend's migration guard.
func (b *Backend) Guard() *Guard { return b.guard }

// Close releases database connections.
func (b *Backend) Close(ctx context.Context) error {
	var errs []error
	if b.mongoClient != nil {
		errs = append(errs, b.mongoClient.Disconnect(ctx))
	}
	if b.sqlDB != nil {
		errs = append(errs, b.sqlDB.Close())
	}
	return errors.Join(errs...)
}

// physical returns the document-store name for a logical collection.
func (b *Backend) physical(name string) string {
	if n := b.names[name]; n != "" {
		return n
	}
	return name
}

// NewCollection returns the collection named name on backend b. For
// document stores it also registers the file-snapshot copy-in step with the
// guard and wraps the collection so every call passes through the guard.
func NewCollection[T Record](b *Backend, name string) Collection[T] {
	snapshot := NewFileCollection[T](b.dir, name)

	var doc Collection[T]
	switch b.mode {
	case ModeMongo:
		doc = newMongoCollection[T](b.mongoDB.Collection(b.physical(name)), name, b.timeout)
	case ModePostgres:
		doc = newPostgresCollection[T](b.sqlDB, b.physical(name), name, b.timeout)
	default:
		return snapshot
	}

	b.guard.Register(name, SeedStep(snapshot, doc))
	return &guardedCollection[T]{Collection: doc, guard: b.guard}
}

// prepareMongo creates the lookup indexes on every configured collection.
func (b *Backend) prepareMongo(ctx context.Context) error {
	for _, logical := range b.guard.Names() {
		coll := b.mongoDB.Collection(b.physical(logical))
		_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bsonKeys("slug")},
			{Keys: bsonKeys("created_at", "_id")},
		})
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", logical, err)
		}
	}
	return nil
}

// preparePostgres applies the documents table migrations.
func (b *Backend) preparePostgres(ctx context.Context) error {
	return database.MigrateContext(ctx, b.sqlDB)
}

// bounded limits a prepare hook to the backend call timeout, so an
// unreachable database fails the bootstrap instead of stalling it.
func (b *Backend) bounded(prepare func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, b.timeout)
		defer cancel()
		return prepare(ctx)
	}
}

// withTimeout applies the backend call timeout, if any.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// unavailable wraps a backend failure so callers can test for ErrUnavailable.
func unavailable(op, collection string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, op, collection, err)
}
