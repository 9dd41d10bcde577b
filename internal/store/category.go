// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hostpress/internal/models"
	"hostpress/internal/storage"
	"hostpress/internal/taxonomy"
)

// CategoryStore manages one category collection. The same store type
// serves blog categories and knowledge-base categories.
type CategoryStore struct {
	coll storage.Collection[models.Category]
	now  func() time.Time
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(coll storage.Collection[models.Category]) *CategoryStore {
	return &CategoryStore{coll: coll, now: time.Now}
}

// Collection returns the logical collection name.
func (s *CategoryStore) Collection() string { return s.coll.Name() }

// List returns all categories in storage order.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	items, err := s.coll.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// Resolver returns a tree resolver over the current categories.
func (s *CategoryStore) Resolver(ctx context.Context) (*taxonomy.Resolver, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return taxonomy.New(items), nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.coll.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.coll.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create validates and inserts a new category. The slug is derived from the
// name when empty. A zero sort order places the category after its siblings.
func (s *CategoryStore) Create(ctx context.Context, in models.Category) (*models.Category, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	sl, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	tree := taxonomy.New(all)

	parent := normalizeParent(in.ParentID)
	if parent != nil {
		if _, ok := tree.Find(*parent); !ok {
			return nil, invalid("parent_id", "Parent category does not exist.")
		}
	}
	if err := ensureUniqueSlug(ctx, s.coll, sl, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := models.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Slug:        sl,
		Description: strings.TrimSpace(in.Description),
		ParentID:    parent,
		SortOrder:   in.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.SortOrder == 0 {
		c.SortOrder = nextSortOrder(tree, c.Parent())
	}

	if err := s.coll.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

// Update changes the name, description, parent and sort order of an
// existing category. The slug is immutable: a different non-empty slug is
// rejected and nothing is written. Parent changes that would create a
// cycle or point to a missing category are rejected too; an unchanged
// parent is kept as is, even when it no longer exists.
func (s *CategoryStore) Update(ctx context.Context, id string, in models.Category) (*models.Category, error) {
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
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}

	parent := normalizeParent(in.ParentID)
	if parent != nil && !sameParent(parent, normalizeParent(existing.ParentID)) {
		tree, err := s.Resolver(ctx)
		if err != nil {
			return nil, err
		}
		if err := checkParent(tree, id, *parent); err != nil {
			return nil, err
		}
	}

	c := existing.Bare()
	c.Name = strings.TrimSpace(in.Name)
	c.Description = strings.TrimSpace(in.Description)
	c.ParentID = parent
	c.SortOrder = in.SortOrder
	c.UpdatedAt = s.now().UTC()

	if err := s.coll.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &c, nil
}

// Delete removes a category by ID. Children keep their parent reference
// and are resolved as roots from then on.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	if err := s.coll.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parent_id"`
	Order    int     `json:"order"`
}

// Reorder updates sort order and parent for several categories. The whole
// request is validated against the resulting tree before anything is
// written; the writes themselves are one update per category.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem) error {
	all, err := s.List(ctx)
	if err != nil {
		return err
	}

	index := make(map[string]int, len(all))
	for i, c := range all {
		index[c.ID] = i
	}
	proposed := make([]models.Category, len(all))
	copy(proposed, all)

	for _, item := range items {
		i, ok := index[item.ID]
		if !ok {
			return fmt.Errorf("reorder category %s: %w", item.ID, ErrNotFound)
		}
		proposed[i].ParentID = normalizeParent(item.ParentID)
		proposed[i].SortOrder = item.Order
	}

	tree := taxonomy.New(proposed)
	for _, item := range items {
		c := proposed[index[item.ID]]
		if c.ParentID == nil {
			continue
		}
		if _, ok := tree.Find(*c.ParentID); !ok {
			return invalid("parent_id", "Parent category does not exist.")
		}
		if c.ID == *c.ParentID || tree.IsAncestor(c.ID, *c.ParentID) {
			return invalid("parent_id", "A category cannot be moved under itself or one of its descendants.")
		}
	}

	now := s.now().UTC()
	for _, item := range items {
		c := proposed[index[item.ID]]
		c.UpdatedAt = now
		if err := s.coll.Update(ctx, c); err != nil {
			return fmt.Errorf("reorder category %s: %w", item.ID, err)
		}
	}
	return nil
}

// NextSortOrder returns the next sort order value under parentID. An empty
// parentID means the root level.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID string) (int, error) {
	tree, err := s.Resolver(ctx)
	if err != nil {
		return 0, err
	}
	return nextSortOrder(tree, parentID), nil
}

func nextSortOrder(tree *taxonomy.Resolver, parentID string) int {
	next := 0
	for _, c := range tree.Children(parentID) {
		if c.SortOrder >= next {
			next = c.SortOrder + 1
		}
	}
	return next
}

// checkParent rejects a parent that is missing, the category itself, or one
// of its descendants.
func checkParent(tree *taxonomy.Resolver, id, parentID string) error {
	if _, ok := tree.Find(parentID); !ok {
		return invalid("parent_id", "Parent category does not exist.")
	}
	if parentID == id || tree.IsAncestor(id, parentID) {
		return invalid("parent_id", "A category cannot be moved under itself or one of its descendants.")
	}
	return nil
}

// normalizeParent maps an empty parent reference to nil.
func normalizeParent(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
