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

	"hostpress/internal/markdown"
	"hostpress/internal/models"
	"hostpress/internal/storage"
)

// ContentStore manages one content collection: blog posts or
// knowledge-base articles.
type ContentStore struct {
	coll storage.Collection[models.Content]
	kind models.ContentType
	now  func() time.Time
}

// NewContentStore creates a ContentStore whose records all have type kind.
func NewContentStore(coll storage.Collection[models.Content], kind models.ContentType) *ContentStore {
	return &ContentStore{coll: coll, kind: kind, now: time.Now}
}

// Kind returns the content type stored here.
func (s *ContentStore) Kind() models.ContentType { return s.kind }

// Collection returns the logical collection name.
func (s *ContentStore) Collection() string { return s.coll.Name() }

// List returns every entry, drafts included, in storage order.
func (s *ContentStore) List(ctx context.Context) ([]models.Content, error) {
	items, err := s.coll.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind, err)
	}
	return items, nil
}

// FindByID retrieves an entry by ID. Returns nil if not found.
func (s *ContentStore) FindByID(ctx context.Context, id string) (*models.Content, error) {
	c, err := s.coll.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find %s by id: %w", s.kind, err)
	}
	return c, nil
}

// FindBySlug retrieves an entry by slug regardless of status. Returns nil
// if not found.
func (s *ContentStore) FindBySlug(ctx context.Context, slug string) (*models.Content, error) {
	c, err := s.coll.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find %s by slug: %w", s.kind, err)
	}
	return c, nil
}

// Create validates and inserts a new entry. Publishing on create stamps
// published_at; an empty excerpt is derived from the body.
func (s *ContentStore) Create(ctx context.Context, in models.Content) (*models.Content, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	sl, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	c := models.Content{
		ID:   uuid.NewString(),
		Type: s.kind,
		Slug: sl,
	}
	if err := s.apply(&c, in); err != nil {
		return nil, err
	}
	if err := ensureUniqueSlug(ctx, s.coll, sl, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.IsPublished() && c.PublishedAt == nil {
		c.PublishedAt = &now
	}

	if err := s.coll.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.kind, err)
	}
	return &c, nil
}

// Update replaces the editable fields of an existing entry. The slug is
// immutable once created and an empty status keeps the stored one.
// Transitioning to published stamps published_at if it was never set;
// unpublishing keeps it.
func (s *ContentStore) Update(ctx context.Context, id string, in models.Content) (*models.Content, error) {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if err := immutableSlug(existing.Slug, in.Slug); err != nil {
		return nil, err
	}
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}

	c := *existing
	if in.Status == "" {
		in.Status = existing.Status
	}
	if in.PublishedAt == nil {
		in.PublishedAt = existing.PublishedAt
	}
	if err := s.apply(&c, in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c.UpdatedAt = now
	if c.IsPublished() && c.PublishedAt == nil {
		c.PublishedAt = &now
	}

	if err := s.coll.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update %s: %w", s.kind, err)
	}
	return &c, nil
}

// Delete removes an entry by ID.
func (s *ContentStore) Delete(ctx context.Context, id string) error {
	if err := s.coll.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.kind, err)
	}
	return nil
}

// apply validates the editable fields of in and copies them onto c.
func (s *ContentStore) apply(c *models.Content, in models.Content) error {
	if utf8.RuneCountInString(in.Body) > maxBodyLen {
		return invalid("body", "Body is too long (max 100,000 characters).")
	}
	if utf8.RuneCountInString(in.Excerpt) > maxExcerptLen {
		return invalid("excerpt", "Excerpt is too long (max 1,000 characters).")
	}

	status := in.Status
	if status == "" {
		status = models.ContentStatusDraft
	}
	if status != models.ContentStatusDraft && status != models.ContentStatusPublished {
		return invalid("status", "Status must be draft or published.")
	}

	tags := cleanList(in.Tags, true)
	if len(tags) > maxTags {
		return invalid("tags", "Too many tags (max 30).")
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > maxTagLen {
			return invalid("tags", "Tag is too long (max 50 characters): "+tag)
		}
	}

	c.Title = strings.TrimSpace(in.Title)
	c.Body = in.Body
	c.Excerpt = strings.TrimSpace(in.Excerpt)
	if c.Excerpt == "" {
		c.Excerpt = markdown.Excerpt(in.Body, derivedExcerptLen)
	}
	c.CoverImage = strings.TrimSpace(in.CoverImage)
	c.Status = status
	c.CategoryIDs = cleanList(in.CategoryIDs, false)
	c.AuthorID = strings.TrimSpace(in.AuthorID)
	c.Tags = tags
	c.Featured = in.Featured
	c.PublishedAt = in.PublishedAt
	return nil
}
