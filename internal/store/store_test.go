// store_test.go provides shared helpers for the repository tests. The
// repositories run against the file backend in a temporary directory, which
// needs no external service.
package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hostpress/internal/models"
	"hostpress/internal/storage"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// testCollection returns an empty, initialised file collection.
func testCollection[T storage.Record](t *testing.T, name string) *storage.FileCollection[T] {
	t.Helper()
	c := storage.NewFileCollection[T](t.TempDir(), name)
	require.NoError(t, c.Upsert(context.Background(), nil))
	return c
}

func testCategoryStore(t *testing.T) *CategoryStore {
	t.Helper()
	s := NewCategoryStore(testCollection[models.Category](t, "categories"))
	s.now = fixedClock
	return s
}

func testContentStore(t *testing.T, kind models.ContentType) *ContentStore {
	t.Helper()
	s := NewContentStore(testCollection[models.Content](t, "posts"), kind)
	s.now = fixedClock
	return s
}

func testAuthorStore(t *testing.T) *AuthorStore {
	t.Helper()
	s := NewAuthorStore(testCollection[models.Author](t, "authors"), "hostpress-team")
	s.now = fixedClock
	return s
}

func testPartnerStore(t *testing.T) *PartnerStore {
	t.Helper()
	s := NewPartnerStore(testCollection[models.Partner](t, "partners"))
	s.now = fixedClock
	return s
}

func ptr(s string) *string { return &s }
