// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"log/slog"

	"hostpress/internal/models"
)

// DefaultAuthor returns the fallback author. A missing record is reported
// as ErrDefaultAuthorMissing and logged at error level. When storage is
// unavailable a placeholder carrying only the configured slug is returned.
func (e *Engine) DefaultAuthor(ctx context.Context) (models.Author, error) {
	if e.authors == nil {
		return e.placeholderAuthor(), nil
	}
	a, err := e.authors.FindBySlug(ctx, e.defaultAuthorSlug)
	if err != nil {
		degrade(ctx, "default_author", "", err)
		return e.placeholderAuthor(), nil
	}
	if a == nil {
		slog.Error("default author record is missing, seed data is broken", "slug", e.defaultAuthorSlug)
		return models.Author{}, fmt.Errorf("%w: %q", ErrDefaultAuthorMissing, e.defaultAuthorSlug)
	}
	return *a, nil
}

func (e *Engine) placeholderAuthor() models.Author {
	return models.Author{Slug: e.defaultAuthorSlug, Name: e.defaultAuthorSlug}
}

// AuthorFor resolves the author of entry, falling back to the default
// author when the reference is empty or points to a deleted author.
func (e *Engine) AuthorFor(ctx context.Context, entry models.Content) (models.Author, error) {
	if entry.AuthorID != "" && e.authors != nil {
		a, err := e.authors.FindByID(ctx, entry.AuthorID)
		switch {
		case err != nil:
			degrade(ctx, "author_for", "", err)
		case a != nil:
			return *a, nil
		}
	}
	return e.DefaultAuthor(ctx)
}

// Author looks an author up by id or slug. An empty ref means the default
// author. It returns (nil, nil) when nothing matches.
func (e *Engine) Author(ctx context.Context, ref string) (*models.Author, error) {
	if ref == "" {
		a, err := e.DefaultAuthor(ctx)
		if err != nil {
			return nil, err
		}
		return &a, nil
	}
	if e.authors == nil {
		return nil, nil
	}
	a, err := e.authors.FindByID(ctx, ref)
	if err == nil && a == nil {
		a, err = e.authors.FindBySlug(ctx, ref)
	}
	if err != nil {
		degrade(ctx, "author", "", err)
		return nil, nil
	}
	return a, nil
}

// ByAuthor returns the published entries of kind attributed to the author
// with the given slug, after default-author fallback. Entries without a
// resolvable author therefore belong to the default author.
func (e *Engine) ByAuthor(ctx context.Context, kind Kind, authorSlug string) []models.Content {
	out := []models.Content{}
	if e.authors == nil {
		return out
	}
	authors, err := e.authors.List(ctx)
	if err != nil {
		degrade(ctx, "by_author", kind, err)
		return out
	}

	known := make(map[string]bool, len(authors))
	var target *models.Author
	for i := range authors {
		known[authors[i].ID] = true
		if authors[i].Slug == authorSlug {
			target = &authors[i]
		}
	}
	if target == nil {
		return out
	}
	isDefault := target.Slug == e.defaultAuthorSlug

	for _, c := range e.Published(ctx, kind) {
		if c.AuthorID == target.ID || (isDefault && !known[c.AuthorID]) {
			out = append(out, c)
		}
	}
	return out
}
