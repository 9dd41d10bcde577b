package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// note is a minimal record used to exercise the backends.
type note struct {
	ID        string    `json:"id" bson:"_id"`
	Slug      string    `json:"slug" bson:"slug"`
	Title     string    `json:"title" bson:"title"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (n note) RecordID() string           { return n.ID }
func (n note) RecordSlug() string         { return n.Slug }
func (n note) RecordCreatedAt() time.Time { return n.CreatedAt }

var (
	day1 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	day2 = day1.Add(24 * time.Hour)
)

func sampleNotes() []note {
	return []note{
		{ID: "n1", Slug: "first", Title: "First", CreatedAt: day1},
		{ID: "n2", Slug: "second", Title: "Second", CreatedAt: day2},
	}
}

func TestFileCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	c := NewFileCollection[note](t.TempDir(), "notes")

	for _, n := range sampleNotes() {
		require.NoError(t, c.Insert(ctx, n))
	}

	items, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "n1", items[0].ID, "file order is insertion order")
	assert.Equal(t, "n2", items[1].ID)

	found, err := c.FindBySlug(ctx, "second")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "n2", found.ID)

	missing, err := c.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated := items[0]
	updated.Title = "First, revised"
	require.NoError(t, c.Update(ctx, updated))
	got, err := c.FindByID(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "First, revised", got.Title)

	require.NoError(t, c.Delete(ctx, "n1"))
	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, c.Delete(ctx, "n1"), ErrNotFound)
	assert.ErrorIs(t, c.Update(ctx, note{ID: "ghost"}), ErrNotFound)
	assert.ErrorIs(t, c.Insert(ctx, note{ID: "n2"}), ErrDuplicateID)
}

func TestFileCollectionMissingFile(t *testing.T) {
	ctx := context.Background()
	c := NewFileCollection[note](t.TempDir(), "notes")

	_, err := c.List(ctx)
	assert.ErrorIs(t, err, ErrUnavailable, "reads of a missing file are unavailable")

	_, err = c.FindBySlug(ctx, "first")
	assert.ErrorIs(t, err, ErrUnavailable)

	// The first write creates the file.
	require.NoError(t, c.Insert(ctx, sampleNotes()[0]))
	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFileCollectionInit(t *testing.T) {
	ctx := context.Background()
	c := NewFileCollection[note](t.TempDir(), "notes")

	created, err := c.Init(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, c.Insert(ctx, sampleNotes()[0]))
	created, err = c.Init(ctx)
	require.NoError(t, err)
	assert.False(t, created, "existing files are kept")

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFileCollectionCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{not json"), 0o644))

	_, err := NewFileCollection[note](dir, "notes").List(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFileCollectionCancelledContext(t *testing.T) {
	c := NewFileCollection[note](t.TempDir(), "notes")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFileCollectionFormat(t *testing.T) {
	ctx := context.Background()
	c := NewFileCollection[note](t.TempDir(), "notes")
	for _, n := range sampleNotes() {
		require.NoError(t, c.Insert(ctx, n))
	}

	data, err := os.ReadFile(c.Path())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "notes_file", data)
}

func TestFileCollectionEmptyArrayAfterLastDelete(t *testing.T) {
	ctx := context.Background()
	c := NewFileCollection[note](t.TempDir(), "notes")
	require.NoError(t, c.Insert(ctx, sampleNotes()[0]))
	require.NoError(t, c.Delete(ctx, "n1"))

	data, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"notes\": []\n}\n", string(data))
}

func TestFileCollectionUpsert(t *testing.T) {
	ctx := context.Background()
	c := NewFileCollection[note](t.TempDir(), "notes")
	require.NoError(t, c.Insert(ctx, sampleNotes()[0]))

	replaced := sampleNotes()[0]
	replaced.Title = "Replaced"
	require.NoError(t, c.Upsert(ctx, []note{replaced, sampleNotes()[1]}))
	require.NoError(t, c.Upsert(ctx, []note{replaced, sampleNotes()[1]}))

	items, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2, "upsert by id never duplicates")
	assert.Equal(t, "Replaced", items[0].Title)
}

// TestFileCollectionLastWriterWins documents the unlocked read-modify-write:
// two writers that read the same snapshot overwrite each other.
func TestFileCollectionLastWriterWins(t *testing.T) {
	ctx := context.Background()
	c := NewFileCollection[note](t.TempDir(), "notes")
	require.NoError(t, c.Insert(ctx, sampleNotes()[0]))

	readA, err := c.load(ctx, false)
	require.NoError(t, err)
	readB, err := c.load(ctx, false)
	require.NoError(t, err)

	require.NoError(t, c.save(append(readA, note{ID: "a", Slug: "from-a"})))
	require.NoError(t, c.save(append(readB, note{ID: "b", Slug: "from-b"})))

	items, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[1].ID, "writer A's record is lost")
}

func TestOpenFileMode(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, Options{Mode: ModeFile, DataDir: t.TempDir()})
	require.NoError(t, err)
	defer b.Close(ctx)

	c := NewCollection[note](b, "notes")
	_, ok := c.(*FileCollection[note])
	assert.True(t, ok, "file mode returns the file collection directly")
	assert.Empty(t, b.Guard().Names(), "file mode registers no bootstrap steps")
	assert.NoError(t, b.Guard().Ensure(ctx))
}

func TestOpenUnknownMode(t *testing.T) {
	_, err := Open(context.Background(), Options{Mode: "sqlite"})
	assert.Error(t, err)
}
