// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"log/slog"

	"hostpress/internal/models"
)

// EnsureDefaultAuthor creates the fallback author under slug if it does not
// exist yet. It is safe to call on every startup.
func EnsureDefaultAuthor(ctx context.Context, authors *AuthorStore, slug, name string) (*models.Author, error) {
	existing, err := authors.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("check default author: %w", err)
	}
	if existing != nil {
		slog.Info("default author already exists, skipping seed", "slug", slug)
		return existing, nil
	}

	a, err := authors.Create(ctx, models.Author{
		Name:  name,
		Slug:  slug,
		Title: "Editorial team",
	})
	if err != nil {
		return nil, fmt.Errorf("seed default author: %w", err)
	}
	slog.Info("default author created", "slug", a.Slug, "id", a.ID)
	return a, nil
}
