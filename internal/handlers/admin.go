// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the hostpress API.
// Handlers are grouped by concern (public reads, admin writes) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hostpress/internal/cache"
	"hostpress/internal/models"
	"hostpress/internal/store"
)

// maxBodyBytes limits admin request bodies.
const maxBodyBytes = 1 << 20

// repository is the CRUD surface shared by every entity store.
type repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in T) (*T, error)
	Update(ctx context.Context, id string, in T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Resource is the set of handlers for one admin collection.
type Resource struct {
	List   http.HandlerFunc
	Get    http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// Admin groups the admin write handlers. Every successful write drops the
// cached public responses that may include the changed record.
type Admin struct {
	posts        *store.ContentStore
	articles     *store.ContentStore
	categories   *store.CategoryStore
	kbCategories *store.CategoryStore
	authors      *store.AuthorStore
	partners     *store.PartnerStore
	cache        *cache.ResponseCache
}

// AdminStores bundles the repositories the admin API writes to.
type AdminStores struct {
	Posts        *store.ContentStore
	Articles     *store.ContentStore
	Categories   *store.CategoryStore
	KBCategories *store.CategoryStore
	Authors      *store.AuthorStore
	Partners     *store.PartnerStore
}

// NewAdmin creates a new Admin handler group. responseCache may be nil.
func NewAdmin(s AdminStores, responseCache *cache.ResponseCache) *Admin {
	return &Admin{
		posts:        s.Posts,
		articles:     s.Articles,
		categories:   s.Categories,
		kbCategories: s.KBCategories,
		authors:      s.Authors,
		partners:     s.Partners,
		cache:        responseCache,
	}
}

// Resources returns the handlers of every admin collection keyed by the
// URL path segment they are mounted under.
func (a *Admin) Resources() map[string]Resource {
	return map[string]Resource{
		"posts":         newResource[models.Content](a, a.posts, "blog", scopeAuthors),
		"articles":      newResource[models.Content](a, a.articles, "kb", scopeAuthors),
		"categories":    newResource[models.Category](a, a.categories, "blog"),
		"kb-categories": newResource[models.Category](a, a.kbCategories, "kb"),
		"authors":       newResource[models.Author](a, a.authors, "blog", "kb", scopeAuthors),
		"partners":      newResource[models.Partner](a, a.partners, scopePartners),
	}
}

// invalidate drops the cached responses of scopes.
func (a *Admin) invalidate(ctx context.Context, scopes []string) {
	for _, s := range scopes {
		a.cache.InvalidateScope(ctx, s)
	}
}

func newResource[T any](a *Admin, repo repository[T], scopes ...string) Resource {
	return Resource{
		List: func(w http.ResponseWriter, r *http.Request) {
			items, err := repo.List(r.Context())
			if err != nil {
				writeStoreError(w, "list", err)
				return
			}
			writeOK(w, http.StatusOK, items)
		},

		Get: func(w http.ResponseWriter, r *http.Request) {
			item, err := repo.FindByID(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeStoreError(w, "get", err)
				return
			}
			if item == nil {
				writeFail(w, http.StatusNotFound, "Not found.")
				return
			}
			writeOK(w, http.StatusOK, item)
		},

		Create: func(w http.ResponseWriter, r *http.Request) {
			var in T
			if !decode(w, r, &in) {
				return
			}
			created, err := repo.Create(r.Context(), in)
			if err != nil {
				writeStoreError(w, "create", err)
				return
			}
			a.invalidate(r.Context(), scopes)
			writeOK(w, http.StatusCreated, created)
		},

		Update: func(w http.ResponseWriter, r *http.Request) {
			var in T
			if !decode(w, r, &in) {
				return
			}
			updated, err := repo.Update(r.Context(), chi.URLParam(r, "id"), in)
			if err != nil {
				writeStoreError(w, "update", err)
				return
			}
			a.invalidate(r.Context(), scopes)
			writeOK(w, http.StatusOK, updated)
		},

		Delete: func(w http.ResponseWriter, r *http.Request) {
			if err := repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeStoreError(w, "delete", err)
				return
			}
			a.invalidate(r.Context(), scopes)
			writeOK(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id")})
		},
	}
}

// decode reads a JSON request body into dst. It writes a 400 response and
// returns false when the body is too large or malformed.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFail(w, http.StatusRequestEntityTooLarge, "Request body is too large.")
			return false
		}
		writeFail(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return false
	}
	return true
}

// ReorderCategories applies a batch of sort order and parent changes to the
// blog categories.
func (a *Admin) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	a.reorder(w, r, a.categories, "blog")
}

// ReorderKBCategories applies a batch of sort order and parent changes to
// the knowledge-base categories.
func (a *Admin) ReorderKBCategories(w http.ResponseWriter, r *http.Request) {
	a.reorder(w, r, a.kbCategories, "kb")
}

func (a *Admin) reorder(w http.ResponseWriter, r *http.Request, categories *store.CategoryStore, scope string) {
	var items []store.ReorderItem
	if !decode(w, r, &items) {
		return
	}
	if len(items) == 0 {
		writeFail(w, http.StatusBadRequest, "Nothing to reorder.")
		return
	}
	if err := categories.Reorder(r.Context(), items); err != nil {
		writeStoreError(w, "reorder", err)
		return
	}
	a.invalidate(r.Context(), []string{scope})

	all, err := categories.List(r.Context())
	if err != nil {
		writeStoreError(w, "reorder", err)
		return
	}
	writeOK(w, http.StatusOK, all)
}

// FlushCache drops every cached public response.
func (a *Admin) FlushCache(w http.ResponseWriter, r *http.Request) {
	a.cache.InvalidateAll(r.Context())
	writeOK(w, http.StatusOK, map[string]bool{"flushed": true})
}
