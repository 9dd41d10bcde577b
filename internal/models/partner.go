// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Partner is an entry in the partner directory.
type Partner struct {
	ID              string      `json:"id" bson:"_id"`
	Name            string      `json:"name" bson:"name"`
	Slug            string      `json:"slug" bson:"slug"`
	Description     string      `json:"description,omitempty" bson:"description,omitempty"`
	DiscountPercent float64     `json:"discount_percent" bson:"discount_percent"`
	AffiliateID     string      `json:"affiliate_id" bson:"affiliate_id"`
	Logo            string      `json:"logo,omitempty" bson:"logo,omitempty"`
	URL             string      `json:"url,omitempty" bson:"url,omitempty"`
	Featured        bool        `json:"featured" bson:"featured"`
	Social          SocialLinks `json:"social,omitempty" bson:"social,omitempty"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" bson:"updated_at"`
}

func (p Partner) RecordID() string           { return p.ID }
func (p Partner) RecordSlug() string         { return p.Slug }
func (p Partner) RecordCreatedAt() time.Time { return p.CreatedAt }
