// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"sort"

	"hostpress/internal/models"
)

// Partners returns the partner directory with featured partners first.
// Order within each group follows storage order.
func (e *Engine) Partners(ctx context.Context) []models.Partner {
	out := []models.Partner{}
	if e.partners == nil {
		return out
	}
	items, err := e.partners.List(ctx)
	if err != nil {
		degrade(ctx, "partners", "", err)
		return out
	}
	out = append(out, items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Featured && !out[j].Featured
	})
	return out
}

// PartnerBySlug returns the partner with the given slug, or nil.
func (e *Engine) PartnerBySlug(ctx context.Context, slug string) *models.Partner {
	if e.partners == nil {
		return nil
	}
	p, err := e.partners.FindBySlug(ctx, slug)
	if err != nil {
		degrade(ctx, "partner_by_slug", "", err)
		return nil
	}
	return p
}
