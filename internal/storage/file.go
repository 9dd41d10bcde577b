// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileCollection stores one collection as a single JSON document
// {"<name>": [records...]} in <dir>/<name>.json. Every read loads the whole
// file and every mutation rewrites it. There is no locking: two concurrent
// writers race and the last one to rename its file wins.
type FileCollection[T Record] struct {
	name string
	path string
}

// NewFileCollection returns the file-backed collection name under dir.
func NewFileCollection[T Record](dir, name string) *FileCollection[T] {
	return &FileCollection[T]{
		name: name,
		path: filepath.Join(dir, name+".json"),
	}
}

// Name returns the logical collection name.
func (c *FileCollection[T]) Name() string { return c.name }

// Path returns the JSON file location.
func (c *FileCollection[T]) Path() string { return c.path }

// List returns every record in file order. A missing file is reported as
// ErrUnavailable.
func (c *FileCollection[T]) List(ctx context.Context) ([]T, error) {
	return c.load(ctx, false)
}

// FindByID returns the record with the given id, or nil.
func (c *FileCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	items, err := c.load(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].RecordID() == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// FindBySlug returns the first record with the given slug, or nil.
func (c *FileCollection[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	items, err := c.load(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].RecordSlug() == slug {
			return &items[i], nil
		}
	}
	return nil, nil
}

// Insert appends item. The file is created if it does not exist yet.
func (c *FileCollection[T]) Insert(ctx context.Context, item T) error {
	items, err := c.load(ctx, true)
	if err != nil {
		return err
	}
	for _, existing := range items {
		if existing.RecordID() == item.RecordID() {
			return ErrDuplicateID
		}
	}
	return c.save(append(items, item))
}

// Update replaces the record with item's id in place.
func (c *FileCollection[T]) Update(ctx context.Context, item T) error {
	items, err := c.load(ctx, false)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].RecordID() == item.RecordID() {
			items[i] = item
			return c.save(items)
		}
	}
	return ErrNotFound
}

// Delete removes the record with the given id.
func (c *FileCollection[T]) Delete(ctx context.Context, id string) error {
	items, err := c.load(ctx, false)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].RecordID() == id {
			return c.save(append(items[:i], items[i+1:]...))
		}
	}
	return ErrNotFound
}

// Count returns the number of records.
func (c *FileCollection[T]) Count(ctx context.Context) (int, error) {
	items, err := c.load(ctx, false)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Upsert replaces records with matching ids and appends the rest.
func (c *FileCollection[T]) Upsert(ctx context.Context, upserts []T) error {
	items, err := c.load(ctx, true)
	if err != nil {
		return err
	}
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[item.RecordID()] = i
	}
	for _, u := range upserts {
		if i, ok := index[u.RecordID()]; ok {
			items[i] = u
			continue
		}
		index[u.RecordID()] = len(items)
		items = append(items, u)
	}
	return c.save(items)
}

// Init creates the collection file with an empty array when it does not
// exist yet and reports whether it did. An existing file is left untouched.
func (c *FileCollection[T]) Init(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, unavailable("init", c.name, err)
	}
	if fileExists(c.path) {
		return false, nil
	}
	return true, c.save(nil)
}

func (c *FileCollection[T]) load(ctx context.Context, allowMissing bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("read", c.name, err)
	}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) && allowMissing {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("read", c.name, err)
	}

	var doc map[string][]T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, unavailable("decode", c.name, err)
	}
	return doc[c.name], nil
}

// save rewrites the whole file, pretty printed for human diffs. The write
// goes through a temp file and rename so readers never see half a document.
func (c *FileCollection[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(map[string][]T{c.name: items}, "", "  ")
	if err != nil {
		return unavailable("encode", c.name, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return unavailable("write", c.name, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), "."+c.name+"-*.json")
	if err != nil {
		return unavailable("write", c.name, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return unavailable("write", c.name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return unavailable("write", c.name, err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("write", c.name, err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return unavailable("write", c.name, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
