// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hostpress/internal/cache"
	"hostpress/internal/content"
	"hostpress/internal/models"
	"hostpress/internal/status"
)

// Cache scopes of the public API.
const (
	scopeAuthors  = "authors"
	scopePartners = "partners"
	scopeStatus   = "status"
)

// maxRelatedLimit caps the related query parameter.
const maxRelatedLimit = 20

// Public groups the read-only JSON handlers. It checks the Valkey response
// cache before querying the content engine and stores results on miss.
type Public struct {
	engine *content.Engine
	cache  *cache.ResponseCache
	status *status.Client
}

// NewPublic creates a new Public handler group. cache and statusClient may
// be nil.
func NewPublic(engine *content.Engine, responseCache *cache.ResponseCache, statusClient *status.Client) *Public {
	return &Public{engine: engine, cache: responseCache, status: statusClient}
}

// result is what a read handler produces.
type result struct {
	status int
	data   any
	// noCache keeps degraded or error responses out of the cache.
	noCache bool
}

func ok(data any) result { return result{status: http.StatusOK, data: data} }

func notFound() result {
	return result{status: http.StatusNotFound, noCache: true}
}

// serve answers from the cache when possible, otherwise runs build and
// caches successful responses. Results built while storage was failing are
// sent with X-Cache: BYPASS and never cached.
func (p *Public) serve(w http.ResponseWriter, r *http.Request, scope string, build func(ctx context.Context) result) {
	key := cache.Key(scope, r.URL.RequestURI())
	if cached, hit := p.cache.Get(r.Context(), key); hit {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Cache", "HIT")
		w.Write(cached)
		return
	}

	ctx, degraded := content.TrackDegraded(r.Context())
	res := build(ctx)
	if degraded() {
		res.noCache = true
	}
	if res.status == http.StatusNotFound && res.data == nil {
		writeFail(w, http.StatusNotFound, "Not found.")
		return
	}
	if res.status >= http.StatusBadRequest {
		msg, _ := res.data.(string)
		writeFail(w, res.status, msg)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(envelope{OK: true, Data: res.data}); err != nil {
		slog.Error("encode response failed", "path", r.URL.Path, "error", err)
		writeFail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	cacheState := "BYPASS"
	if !res.noCache {
		p.cache.Set(r.Context(), key, buf.Bytes())
		cacheState = "MISS"
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", cacheState)
	w.WriteHeader(res.status)
	w.Write(buf.Bytes())
}

// kind reads the {kind} URL parameter and answers 404 for unknown sections.
func kind(w http.ResponseWriter, r *http.Request) (content.Kind, bool) {
	k, valid := content.ParseKind(chi.URLParam(r, "kind"))
	if !valid {
		writeFail(w, http.StatusNotFound, "Unknown section.")
	}
	return k, valid
}

// Published lists the published entries of a section, most recent first.
func (p *Public) Published(w http.ResponseWriter, r *http.Request) {
	k, valid := kind(w, r)
	if !valid {
		return
	}
	p.serve(w, r, string(k), func(ctx context.Context) result {
		return ok(p.engine.Published(ctx, k))
	})
}

// Featured lists the featured published entries of a section.
func (p *Public) Featured(w http.ResponseWriter, r *http.Request) {
	k, valid := kind(w, r)
	if !valid {
		return
	}
	p.serve(w, r, string(k), func(ctx context.Context) result {
		return ok(p.engine.Featured(ctx, k))
	})
}

// Search runs the section search for the q parameter.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	k, valid := kind(w, r)
	if !valid {
		return
	}
	p.serve(w, r, string(k), func(ctx context.Context) result {
		return ok(p.engine.Search(ctx, k, r.URL.Query().Get("q")))
	})
}

// Entry returns one published entry joined with its author and categories.
func (p *Public) Entry(w http.ResponseWriter, r *http.Request) {
	k, valid := kind(w, r)
	if !valid {
		return
	}
	p.serve(w, r, string(k), func(ctx context.Context) result {
		entry, err := p.engine.Detail(ctx, k, chi.URLParam(r, "slug"))
		if errors.Is(err, content.ErrDefaultAuthorMissing) {
			return result{status: http.StatusInternalServerError, data: "Author data is missing.", noCache: true}
		}
		if entry == nil {
			return notFound()
		}
		return ok(entry)
	})
}

// Related returns entries related to the entry {id}.
func (p *Public) Related(w http.ResponseWriter, r *http.Request) {
	k, valid := kind(w, r)
	if !valid {
		return
	}
	limit := content.DefaultRelatedLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeFail(w, http.StatusBadRequest, "limit must be a positive integer.")
			return
		}
		limit = min(n, maxRelatedLimit)
	}
	p.serve(w, r, string(k), func(ctx context.Context) result {
		return ok(p.engine.Related(ctx, k, chi.URLParam(r, "id"), limit))
	})
}

// ByTag lists published entries carrying {tag}.
func (p *Public) ByTag(w http.ResponseWriter, r *http.Request) {
	k, valid := kind(w, r)
	if !valid {
		return
	}
	p.serve(w, r, string(k), func(ctx context.Context) result {
		return ok(p.engine.ByTag(ctx, k, chi.URLParam(r, "tag")))
	})
}

// Categories lists the categories of a section. With ?tree=1 they are
// nested under their parents.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	k, valid := kind(w, r)
	if !valid {
		return
	}
	p.serve(w, r, string(k), func(ctx context.Context) result {
		if r.URL.Query().Get("tree") == "1" {
			return ok(p.engine.CategoryTree(ctx, k))
		}
		return ok(p.engine.Categories(ctx, k))
	})
}

// RootCategories lists the top-level categories of a section.
func (p *Public) RootCategories(w http.ResponseWriter, r *http.Request) {
	k, valid := kind(w, r)
	if !valid {
		return
	}
	p.serve(w, r, string(k), func(ctx context.Context) result {
		return ok(p.engine.RootCategories(ctx, k))
	})
}

// Category returns the category {slug}.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	p.withCategory(w, r, func(_ context.Context, _ content.Kind, c *models.Category) any { return c })
}

// CategoryChildren lists the direct children of category {slug}.
func (p *Public) CategoryChildren(w http.ResponseWriter, r *http.Request) {
	p.withCategory(w, r, func(ctx context.Context, k content.Kind, c *models.Category) any {
		return p.engine.ChildCategories(ctx, k, c.ID)
	})
}

// CategoryBreadcrumbs returns the path from the root down to category {slug}.
func (p *Public) CategoryBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	p.withCategory(w, r, func(ctx context.Context, k content.Kind, c *models.Category) any {
		return p.engine.Breadcrumbs(ctx, k, c.ID)
	})
}

// CategoryEntries lists the published entries filed under category {slug}.
func (p *Public) CategoryEntries(w http.ResponseWriter, r *http.Request) {
	p.withCategory(w, r, func(ctx context.Context, k content.Kind, c *models.Category) any {
		return p.engine.ByCategory(ctx, k, c.Slug)
	})
}

// withCategory resolves the {slug} category of the section and answers 404
// when it does not exist.
func (p *Public) withCategory(w http.ResponseWriter, r *http.Request, fn func(context.Context, content.Kind, *models.Category) any) {
	k, valid := kind(w, r)
	if !valid {
		return
	}
	p.serve(w, r, string(k), func(ctx context.Context) result {
		c := p.engine.CategoryBySlug(ctx, k, chi.URLParam(r, "slug"))
		if c == nil {
			return notFound()
		}
		return ok(fn(ctx, k, c))
	})
}

// authorView is an author profile with resolved social links and entries.
type authorView struct {
	models.Author
	Links    []models.SocialLink `json:"links"`
	Posts    []models.Content    `json:"posts"`
	Articles []models.Content    `json:"articles"`
}

// Author returns the author {slug} with their published posts and articles.
func (p *Public) Author(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, scopeAuthors, func(ctx context.Context) result {
		slug := chi.URLParam(r, "slug")
		a, err := p.engine.Author(ctx, slug)
		if err != nil {
			return result{status: http.StatusInternalServerError, data: "Author data is missing.", noCache: true}
		}
		if a == nil || a.Slug != slug {
			return notFound()
		}
		return ok(authorView{
			Author:   *a,
			Links:    a.Social.Links(),
			Posts:    p.engine.ByAuthor(ctx, content.KindBlog, a.Slug),
			Articles: p.engine.ByAuthor(ctx, content.KindKB, a.Slug),
		})
	})
}

// partnerView is a partner with resolved social links.
type partnerView struct {
	models.Partner
	Links []models.SocialLink `json:"links"`
}

func viewPartner(pt models.Partner) partnerView {
	return partnerView{Partner: pt, Links: pt.Social.Links()}
}

// Partners lists the partner directory, featured partners first.
func (p *Public) Partners(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, scopePartners, func(ctx context.Context) result {
		partners := p.engine.Partners(ctx)
		views := make([]partnerView, 0, len(partners))
		for _, pt := range partners {
			views = append(views, viewPartner(pt))
		}
		return ok(views)
	})
}

// Partner returns the partner {slug}.
func (p *Public) Partner(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, scopePartners, func(ctx context.Context) result {
		pt := p.engine.PartnerBySlug(ctx, chi.URLParam(r, "slug"))
		if pt == nil {
			return notFound()
		}
		return ok(viewPartner(*pt))
	})
}

// Status returns the status page summary. When the provider cannot be
// reached the state is UNKNOWN and the answer is not cached.
func (p *Public) Status(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, scopeStatus, func(ctx context.Context) result {
		s, err := p.status.Summary(ctx)
		if err != nil {
			if !errors.Is(err, status.ErrNotConfigured) {
				slog.Warn("status summary unavailable", "error", err)
			}
			return result{status: http.StatusOK, data: status.Unknown(), noCache: true}
		}
		return ok(s)
	})
}
