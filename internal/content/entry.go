// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"

	"hostpress/internal/models"
)

// Entry is a published entry joined with its author and categories.
type Entry struct {
	models.Content
	Author     models.Author     `json:"author"`
	Categories []models.Category `json:"categories"`
	// Breadcrumbs is the path to the primary (first) category.
	Breadcrumbs []models.Category `json:"breadcrumbs"`
}

// Detail returns the published entry of kind with the given slug, joined
// with its author and categories. It returns (nil, nil) when no published
// entry matches. Category references that no longer resolve are skipped.
// The only error is ErrDefaultAuthorMissing.
func (e *Engine) Detail(ctx context.Context, kind Kind, slug string) (*Entry, error) {
	c := e.BySlug(ctx, kind, slug)
	if c == nil {
		return nil, nil
	}
	author, err := e.AuthorFor(ctx, *c)
	if err != nil {
		return nil, err
	}

	tree := e.resolver(ctx, "detail", kind)
	cats := []models.Category{}
	for _, id := range c.CategoryIDs {
		if cat, ok := tree.Find(id); ok {
			cats = append(cats, cat)
		}
	}

	return &Entry{
		Content:     *c,
		Author:      author,
		Categories:  cats,
		Breadcrumbs: tree.Breadcrumbs(c.PrimaryCategoryID()),
	}, nil
}
