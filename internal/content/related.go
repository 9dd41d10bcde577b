// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"sort"

	"hostpress/internal/models"
)

// Related returns up to limit published entries of kind related to the
// entry id. Candidates are ranked by shared categories, then shared tags,
// then publish time, most recent first. The source entry is never
// included and the result is never padded. A non-positive limit uses
// DefaultRelatedLimit; an unknown id yields an empty list.
func (e *Engine) Related(ctx context.Context, kind Kind, id string, limit int) []models.Content {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	items := e.all(ctx, "related", kind)
	var source *models.Content
	for i := range items {
		if items[i].ID == id {
			source = &items[i]
			break
		}
	}
	out := []models.Content{}
	if source == nil {
		return out
	}

	fold := newFolder()
	sourceTags := make(map[string]bool, len(source.Tags))
	for _, t := range source.Tags {
		sourceTags[fold(t)] = true
	}

	type scored struct {
		entry      models.Content
		categories int
		tags       int
	}
	var candidates []scored
	for _, c := range published(items) {
		if c.ID == source.ID {
			continue
		}
		s := scored{entry: c}
		for _, cid := range c.CategoryIDs {
			if source.HasCategory(cid) {
				s.categories++
			}
		}
		for _, t := range c.Tags {
			if sourceTags[fold(t)] {
				s.tags++
			}
		}
		candidates = append(candidates, s)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.categories != b.categories {
			return a.categories > b.categories
		}
		if a.tags != b.tags {
			return a.tags > b.tags
		}
		return a.entry.EffectivePublishedAt().After(b.entry.EffectivePublishedAt())
	})

	for i := 0; i < len(candidates) && i < limit; i++ {
		out = append(out, candidates[i].entry)
	}
	return out
}
