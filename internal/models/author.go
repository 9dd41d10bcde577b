// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Author is a byline for posts and articles. One well-known author (the
// default author) must always exist for entries without a valid reference.
type Author struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name" bson:"name"`
	Slug      string      `json:"slug" bson:"slug"`
	Title     string      `json:"title,omitempty" bson:"title,omitempty"`
	Bio       string      `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar    string      `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Social    SocialLinks `json:"social,omitempty" bson:"social,omitempty"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

func (a Author) RecordID() string           { return a.ID }
func (a Author) RecordSlug() string         { return a.Slug }
func (a Author) RecordCreatedAt() time.Time { return a.CreatedAt }
