// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"hostpress/internal/models"
	"hostpress/internal/storage"
)

const maxBioLen = 5_000

// AuthorStore manages authors. The author whose slug matches defaultSlug
// can be edited but never renamed or deleted.
type AuthorStore struct {
	coll        storage.Collection[models.Author]
	defaultSlug string
	now         func() time.Time
}

// NewAuthorStore returns a new AuthorStore guarding the default author
// identified by defaultSlug.
func NewAuthorStore(coll storage.Collection[models.Author], defaultSlug string) *AuthorStore {
	return &AuthorStore{coll: coll, defaultSlug: defaultSlug, now: time.Now}
}

func (s *AuthorStore) isDefault(a *models.Author) bool {
	return s.defaultSlug != "" && a.Slug == s.defaultSlug
}

// List returns all authors in storage order.
func (s *AuthorStore) List(ctx context.Context) ([]models.Author, error) {
	items, err := s.coll.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return items, nil
}

// FindByID retrieves an author by ID. Returns nil if not found.
func (s *AuthorStore) FindByID(ctx context.Context, id string) (*models.Author, error) {
	a, err := s.coll.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find author by id: %w", err)
	}
	return a, nil
}

// FindBySlug retrieves an author by slug. Returns nil if not found.
func (s *AuthorStore) FindBySlug(ctx context.Context, slug string) (*models.Author, error) {
	a, err := s.coll.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find author by slug: %w", err)
	}
	return a, nil
}

// Create validates and inserts a new author.
func (s *AuthorStore) Create(ctx context.Context, in models.Author) (*models.Author, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	sl, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	a := models.Author{ID: uuid.NewString(), Slug: sl}
	if err := applyAuthor(&a, in); err != nil {
		return nil, err
	}
	if err := ensureUniqueSlug(ctx, s.coll, sl, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := s.coll.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return &a, nil
}

// Update replaces an author's fields. Authors may change slug as long as
// the new one is free; an empty slug keeps the current one.
func (s *AuthorStore) Update(ctx context.Context, id string, in models.Author) (*models.Author, error) {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}

	a := *existing
	if strings.TrimSpace(in.Slug) != "" && in.Slug != existing.Slug {
		if s.isDefault(existing) {
			return nil, invalid("slug", "The default author's slug cannot be changed.")
		}
		sl, err := resolveSlug(in.Slug, in.Name)
		if err != nil {
			return nil, err
		}
		if err := ensureUniqueSlug(ctx, s.coll, sl, id); err != nil {
			return nil, err
		}
		a.Slug = sl
	}
	if err := applyAuthor(&a, in); err != nil {
		return nil, err
	}
	a.UpdatedAt = s.now().UTC()

	if err := s.coll.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update author: %w", err)
	}
	return &a, nil
}

// Delete removes an author by ID. Entries that reference the author fall
// back to the default author, which itself cannot be deleted.
func (s *AuthorStore) Delete(ctx context.Context, id string) error {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing != nil && s.isDefault(existing) {
		return invalid("id", "The default author cannot be deleted.")
	}
	if err := s.coll.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	return nil
}

func applyAuthor(a *models.Author, in models.Author) error {
	if utf8.RuneCountInString(in.Bio) > maxBioLen {
		return invalid("bio", "Bio is too long (max 5,000 characters).")
	}
	a.Name = strings.TrimSpace(in.Name)
	a.Title = strings.TrimSpace(in.Title)
	a.Bio = strings.TrimSpace(in.Bio)
	a.Avatar = strings.TrimSpace(in.Avatar)
	a.Social = in.Social.Clean()
	return nil
}
