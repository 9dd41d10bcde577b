// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"hostpress/internal/models"
)

// Match fields in rank order: a title match outranks an excerpt match,
// which outranks a tag match, which outranks a body match.
const (
	FieldTitle   = "title"
	FieldExcerpt = "excerpt"
	FieldTags    = "tags"
	FieldBody    = "body"
)

var fieldRank = map[string]int{FieldTitle: 0, FieldExcerpt: 1, FieldTags: 2, FieldBody: 3}

// Hit is one search result and the strongest field it matched in.
type Hit struct {
	Entry models.Content `json:"entry"`
	Field string         `json:"matched"`
}

// newFolder returns a case-folding function. A cases.Caser keeps state,
// so each query gets its own. Whitespace is significant and kept.
func newFolder() func(string) string {
	c := cases.Fold()
	return func(s string) string {
		return c.String(s)
	}
}

// Search runs a case-insensitive substring search over the published
// entries of kind. An entry matches when the query occurs in its title,
// excerpt, any tag or its body. Hits are ordered by the strongest matching
// field, then by publish time, most recent first. The query is matched
// literally, surrounding spaces included. A blank query returns no hits.
func (e *Engine) Search(ctx context.Context, kind Kind, query string) []Hit {
	hits := []Hit{}
	if strings.TrimSpace(query) == "" {
		return hits
	}
	fold := newFolder()
	q := fold(query)

	for _, c := range e.Published(ctx, kind) {
		if field := matchField(fold, c, q); field != "" {
			hits = append(hits, Hit{Entry: c, Field: field})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return fieldRank[hits[i].Field] < fieldRank[hits[j].Field]
	})
	return hits
}

// matchField returns the strongest field of c containing q, or "".
func matchField(fold func(string) string, c models.Content, q string) string {
	if strings.Contains(fold(c.Title), q) {
		return FieldTitle
	}
	if strings.Contains(fold(c.Excerpt), q) {
		return FieldExcerpt
	}
	for _, t := range c.Tags {
		if strings.Contains(fold(t), q) {
			return FieldTags
		}
	}
	if strings.Contains(fold(c.Body), q) {
		return FieldBody
	}
	return ""
}
