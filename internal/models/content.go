// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// ContentType distinguishes blog posts from knowledge-base articles. Both
// share one shape but live in separate collections.
type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeArticle ContentType = "article"
)

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
)

// Content represents a blog post or a KB article. For articles the first
// entry of CategoryIDs is the primary category used for breadcrumbs.
type Content struct {
	ID          string        `json:"id" bson:"_id"`
	Type        ContentType   `json:"type" bson:"type"`
	Title       string        `json:"title" bson:"title"`
	Slug        string        `json:"slug" bson:"slug"`
	Body        string        `json:"body" bson:"body"`
	Excerpt     string        `json:"excerpt" bson:"excerpt"`
	CoverImage  string        `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	Status      ContentStatus `json:"status" bson:"status"`
	CategoryIDs []string      `json:"category_ids" bson:"category_ids"`
	AuthorID    string        `json:"author_id,omitempty" bson:"author_id,omitempty"`
	Tags        []string      `json:"tags" bson:"tags"`
	Featured    bool          `json:"featured" bson:"featured"`
	PublishedAt *time.Time    `json:"published_at,omitempty" bson:"published_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

func (c Content) RecordID() string           { return c.ID }
func (c Content) RecordSlug() string         { return c.Slug }
func (c Content) RecordCreatedAt() time.Time { return c.CreatedAt }

// IsPublished returns true if the content item is in published status.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// EffectivePublishedAt is the publish timestamp, or the creation time for
// items that were never stamped.
func (c *Content) EffectivePublishedAt() time.Time {
	if c.PublishedAt != nil {
		return *c.PublishedAt
	}
	return c.CreatedAt
}

// PrimaryCategoryID returns the first category reference, or "".
func (c *Content) PrimaryCategoryID() string {
	if len(c.CategoryIDs) == 0 {
		return ""
	}
	return c.CategoryIDs[0]
}

// HasCategory reports whether id is among the item's category references.
func (c *Content) HasCategory(id string) bool {
	for _, cid := range c.CategoryIDs {
		if cid == id {
			return true
		}
	}
	return false
}
