// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content is the read side of the platform. The Engine joins
// entries with their categories and authors, filters by publication state,
// ranks related entries and runs the search.
//
// Every query method is total: storage failures are logged and turned into
// empty results or absent values, so callers can keep rendering layout and
// navigation while content storage is down. The one failure that is not
// degraded is a missing default author, which means the seed data itself
// is broken.
package content

import (
	"context"
	"errors"
	"sort"

	"hostpress/internal/models"
	"hostpress/internal/store"
	"hostpress/internal/taxonomy"
)

// ErrDefaultAuthorMissing reports that the fallback author record does not
// exist. It is a data-integrity failure, not a routine not-found.
var ErrDefaultAuthorMissing = errors.New("default author missing")

// Kind selects a content section.
type Kind string

// Content sections.
const (
	KindBlog Kind = "blog"
	KindKB   Kind = "kb"
)

// ParseKind validates a section name from a URL.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindBlog, KindKB:
		return Kind(s), true
	}
	return "", false
}

// DefaultRelatedLimit is used when Related is called with a non-positive limit.
const DefaultRelatedLimit = 3

// section pairs an entry collection with its category collection.
type section struct {
	entries    *store.ContentStore
	categories *store.CategoryStore
}

// Sources lists the repositories the engine reads from.
type Sources struct {
	Posts          *store.ContentStore
	BlogCategories *store.CategoryStore
	Articles       *store.ContentStore
	KBCategories   *store.CategoryStore
	Authors        *store.AuthorStore
	Partners       *store.PartnerStore
}

// Engine answers content queries for the blog and the knowledge base.
type Engine struct {
	sections          map[Kind]section
	authors           *store.AuthorStore
	partners          *store.PartnerStore
	defaultAuthorSlug string
}

// NewEngine returns an engine over src. defaultAuthorSlug names the author
// used when an entry's author is absent or unresolvable.
func NewEngine(src Sources, defaultAuthorSlug string) *Engine {
	return &Engine{
		sections: map[Kind]section{
			KindBlog: {entries: src.Posts, categories: src.BlogCategories},
			KindKB:   {entries: src.Articles, categories: src.KBCategories},
		},
		authors:           src.Authors,
		partners:          src.Partners,
		defaultAuthorSlug: defaultAuthorSlug,
	}
}

// all returns every entry of kind, drafts included.
func (e *Engine) all(ctx context.Context, op string, kind Kind) []models.Content {
	sec, ok := e.sections[kind]
	if !ok || sec.entries == nil {
		return nil
	}
	items, err := sec.entries.List(ctx)
	if err != nil {
		degrade(ctx, op, kind, err)
		return nil
	}
	return items
}

// Published returns the published entries of kind, most recent first.
// Entries without a publish time sort by their creation time.
func (e *Engine) Published(ctx context.Context, kind Kind) []models.Content {
	return published(e.all(ctx, "published", kind))
}

func published(items []models.Content) []models.Content {
	out := []models.Content{}
	for _, c := range items {
		if c.IsPublished() {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectivePublishedAt().After(out[j].EffectivePublishedAt())
	})
	return out
}

// Featured returns the published entries of kind flagged as featured.
func (e *Engine) Featured(ctx context.Context, kind Kind) []models.Content {
	out := []models.Content{}
	for _, c := range e.Published(ctx, kind) {
		if c.Featured {
			out = append(out, c)
		}
	}
	return out
}

// BySlug returns the published entry of kind with the given slug, or nil.
// Drafts are never returned.
func (e *Engine) BySlug(ctx context.Context, kind Kind, slug string) *models.Content {
	sec, ok := e.sections[kind]
	if !ok || sec.entries == nil {
		return nil
	}
	c, err := sec.entries.FindBySlug(ctx, slug)
	if err != nil {
		degrade(ctx, "by_slug", kind, err)
		return nil
	}
	if c == nil || !c.IsPublished() {
		return nil
	}
	return c
}

// ByCategory returns the published entries of kind filed under the
// category with the given slug. An unknown slug yields an empty list.
func (e *Engine) ByCategory(ctx context.Context, kind Kind, categorySlug string) []models.Content {
	cat := e.CategoryBySlug(ctx, kind, categorySlug)
	if cat == nil {
		return []models.Content{}
	}
	out := []models.Content{}
	for _, c := range e.Published(ctx, kind) {
		if c.HasCategory(cat.ID) {
			out = append(out, c)
		}
	}
	return out
}

// ByTag returns the published entries of kind carrying tag, compared
// case-insensitively.
func (e *Engine) ByTag(ctx context.Context, kind Kind, tag string) []models.Content {
	fold := newFolder()
	want := fold(tag)
	out := []models.Content{}
	if want == "" {
		return out
	}
	for _, c := range e.Published(ctx, kind) {
		for _, t := range c.Tags {
			if fold(t) == want {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// resolver builds a tree resolver for the categories of kind. It returns
// an empty resolver when storage is unavailable.
func (e *Engine) resolver(ctx context.Context, op string, kind Kind) *taxonomy.Resolver {
	sec, ok := e.sections[kind]
	if !ok || sec.categories == nil {
		return taxonomy.New(nil)
	}
	items, err := sec.categories.List(ctx)
	if err != nil {
		degrade(ctx, op, kind, err)
		return taxonomy.New(nil)
	}
	return taxonomy.New(items)
}

// Categories returns every category of kind in display order.
func (e *Engine) Categories(ctx context.Context, kind Kind) []models.Category {
	return e.resolver(ctx, "categories", kind).All()
}

// CategoryTree returns the categories of kind nested under their parents.
func (e *Engine) CategoryTree(ctx context.Context, kind Kind) []models.Category {
	tree := e.resolver(ctx, "category_tree", kind).Tree()
	if tree == nil {
		tree = []models.Category{}
	}
	return tree
}

// CategoryBySlug returns the category of kind with the given slug, or nil.
func (e *Engine) CategoryBySlug(ctx context.Context, kind Kind, slug string) *models.Category {
	c, ok := e.resolver(ctx, "category_by_slug", kind).FindBySlug(slug)
	if !ok {
		return nil
	}
	return &c
}

// RootCategories returns the top-level categories of kind, including
// categories whose parent no longer exists.
func (e *Engine) RootCategories(ctx context.Context, kind Kind) []models.Category {
	return e.resolver(ctx, "root_categories", kind).Roots()
}

// ChildCategories returns the direct children of the category id.
func (e *Engine) ChildCategories(ctx context.Context, kind Kind, id string) []models.Category {
	return e.resolver(ctx, "child_categories", kind).Children(id)
}

// Breadcrumbs returns the path from the root ancestor down to category id.
func (e *Engine) Breadcrumbs(ctx context.Context, kind Kind, id string) []models.Category {
	return e.resolver(ctx, "breadcrumbs", kind).Breadcrumbs(id)
}
