// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy resolves the category hierarchy: roots, children,
// breadcrumbs and the nested tree. A Resolver works on an in-memory snapshot
// of one category collection. Malformed data never makes it fail: a parent
// reference that does not resolve makes the category a root, and parent
// cycles are cut at the first repeated category.
package taxonomy

import (
	"sort"

	"hostpress/internal/models"
)

// Resolver answers hierarchy questions over a category snapshot.
type Resolver struct {
	ordered []models.Category
	byID    map[string]models.Category
}

// New builds a resolver. Categories are ordered by sort order; ties keep
// the input (storage) order.
func New(categories []models.Category) *Resolver {
	ordered := make([]models.Category, len(categories))
	for i, c := range categories {
		ordered[i] = c.Bare()
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	byID := make(map[string]models.Category, len(ordered))
	for _, c := range ordered {
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = c
		}
	}
	return &Resolver{ordered: ordered, byID: byID}
}

// All returns every category in display order.
func (r *Resolver) All() []models.Category {
	out := make([]models.Category, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Find returns the category with the given id.
func (r *Resolver) Find(id string) (models.Category, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// FindBySlug returns the first category with the given slug.
func (r *Resolver) FindBySlug(slug string) (models.Category, bool) {
	for _, c := range r.ordered {
		if c.Slug == slug {
			return c, true
		}
	}
	return models.Category{}, false
}

// isRoot reports whether c has no parent that resolves.
func (r *Resolver) isRoot(c models.Category) bool {
	p := c.Parent()
	if p == "" {
		return true
	}
	_, ok := r.byID[p]
	return !ok
}

// Roots returns the categories without a parent, including those whose
// parent reference is dangling.
func (r *Resolver) Roots() []models.Category {
	out := []models.Category{}
	for _, c := range r.ordered {
		if r.isRoot(c) {
			out = append(out, c)
		}
	}
	return out
}

// Children returns the direct children of parentID. An empty parentID
// returns the roots.
func (r *Resolver) Children(parentID string) []models.Category {
	if parentID == "" {
		return r.Roots()
	}
	out := []models.Category{}
	for _, c := range r.ordered {
		if c.Parent() == parentID {
			out = append(out, c)
		}
	}
	return out
}

// Breadcrumbs returns the path from the root ancestor down to id,
// inclusive. The walk stops at the first category seen twice, so a parent
// cycle yields a finite path. An unknown id yields an empty path.
func (r *Resolver) Breadcrumbs(id string) []models.Category {
	var path []models.Category
	seen := make(map[string]bool)
	for cur, ok := r.byID[id]; ok && !seen[cur.ID]; cur, ok = r.byID[cur.Parent()] {
		seen[cur.ID] = true
		path = append(path, cur)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	if path == nil {
		path = []models.Category{}
	}
	return path
}

// IsAncestor reports whether ancestorID appears on the parent chain of id,
// excluding id itself.
func (r *Resolver) IsAncestor(ancestorID, id string) bool {
	for _, c := range r.Breadcrumbs(id) {
		if c.ID == ancestorID && c.ID != id {
			return true
		}
	}
	return false
}

// Tree returns the categories nested under their parents, starting from
// the roots. Categories caught in a parent cycle are unreachable from any
// root and are left out.
func (r *Resolver) Tree() []models.Category {
	visited := make(map[string]bool)
	var build func(parent []models.Category, depth int) []models.Category
	build = func(level []models.Category, depth int) []models.Category {
		var result []models.Category
		for _, c := range level {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			c.Depth = depth
			c.Children = build(r.Children(c.ID), depth+1)
			result = append(result, c)
		}
		return result
	}
	return build(r.Roots(), 0)
}

// Flatten walks a tree depth-first and returns the categories in display
// order with Depth set and Children cleared. Useful for select lists.
func Flatten(tree []models.Category) []models.Category {
	var result []models.Category
	flattenTree(tree, &result)
	return result
}

func flattenTree(cats []models.Category, result *[]models.Category) {
	for _, c := range cats {
		children := c.Children
		c.Children = nil
		*result = append(*result, c)
		if len(children) > 0 {
			flattenTree(children, result)
		}
	}
}
