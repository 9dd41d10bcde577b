// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"fmt"
	"sort"
	"strings"
)

// Problem kinds reported by Check.
const (
	ProblemDanglingParent = "dangling_parent"
	ProblemCycle          = "cycle"
	ProblemDuplicateSlug  = "duplicate_slug"
)

// Problem is a data-quality finding about one category.
type Problem struct {
	Kind       string `json:"kind"`
	CategoryID string `json:"category_id"`
	Slug       string `json:"slug"`
	Detail     string `json:"detail"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s (%s): %s", p.Kind, p.Slug, p.CategoryID, p.Detail)
}

// Check reports dangling parents, parent cycles and duplicate slugs. The
// resolver tolerates all of them; Check exists so operators can fix the data.
func (r *Resolver) Check() []Problem {
	var problems []Problem

	slugs := make(map[string][]string)
	for _, c := range r.ordered {
		slugs[c.Slug] = append(slugs[c.Slug], c.ID)

		if p := c.Parent(); p != "" {
			if _, ok := r.byID[p]; !ok {
				problems = append(problems, Problem{
					Kind:       ProblemDanglingParent,
					CategoryID: c.ID,
					Slug:       c.Slug,
					Detail:     fmt.Sprintf("parent %s does not exist, treated as root", p),
				})
			}
		}
	}

	reported := make(map[string]bool)
	for _, c := range r.ordered {
		cycle := r.cycleFrom(c.ID)
		if len(cycle) == 0 || reported[cycle[0]] {
			continue
		}
		for _, id := range cycle {
			reported[id] = true
		}
		first := r.byID[cycle[0]]
		names := make([]string, len(cycle))
		for i, id := range cycle {
			names[i] = r.byID[id].Slug
		}
		problems = append(problems, Problem{
			Kind:       ProblemCycle,
			CategoryID: first.ID,
			Slug:       first.Slug,
			Detail:     "parent cycle: " + strings.Join(names, " -> "),
		})
	}

	dupSlugs := make([]string, 0)
	for s, ids := range slugs {
		if len(ids) > 1 {
			dupSlugs = append(dupSlugs, s)
		}
	}
	sort.Strings(dupSlugs)
	for _, s := range dupSlugs {
		problems = append(problems, Problem{
			Kind:       ProblemDuplicateSlug,
			CategoryID: slugs[s][0],
			Slug:       s,
			Detail:     fmt.Sprintf("slug used by %d categories: %s", len(slugs[s]), strings.Join(slugs[s], ", ")),
		})
	}

	return problems
}

// cycleFrom follows parents from id and returns the ids forming the cycle
// it runs into, starting at the smallest id so each cycle is reported once.
// It returns nil when the walk reaches a root.
func (r *Resolver) cycleFrom(id string) []string {
	index := make(map[string]int)
	var walk []string
	for cur, ok := r.byID[id]; ok; cur, ok = r.byID[cur.Parent()] {
		if i, seen := index[cur.ID]; seen {
			cycle := walk[i:]
			start := 0
			for j, cid := range cycle {
				if cid < cycle[start] {
					start = j
				}
			}
			return append(append([]string{}, cycle[start:]...), cycle[:start]...)
		}
		index[cur.ID] = len(walk)
		walk = append(walk, cur.ID)
	}
	return nil
}
