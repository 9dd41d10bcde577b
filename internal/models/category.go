// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category is a node in a blog or knowledge-base category tree. The same
// shape is stored in both the blog and KB category collections.
type Category struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	ParentID    *string   `json:"parent_id" bson:"parent_id"`
	SortOrder   int       `json:"sort_order" bson:"sort_order"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`

	// Virtual fields populated by the tree resolver, never persisted.
	Children []Category `json:"children,omitempty" bson:"-"`
	Depth    int        `json:"depth,omitempty" bson:"-"`
}

func (c Category) RecordID() string           { return c.ID }
func (c Category) RecordSlug() string         { return c.Slug }
func (c Category) RecordCreatedAt() time.Time { return c.CreatedAt }

// Parent returns the parent id, or "" for a category without one.
func (c Category) Parent() string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

// Bare returns a copy with the virtual tree fields cleared.
func (c Category) Bare() Category {
	c.Children = nil
	c.Depth = 0
	return c
}
