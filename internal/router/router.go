// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// hostpress API. It organizes routes into a public read group and an admin
// write group with appropriate middleware stacks.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hostpress/internal/handlers"
	"hostpress/internal/middleware"
)

// Deps carries everything the router wires together.
type Deps struct {
	Public *handlers.Public
	Admin  *handlers.Admin
	// AdminTokenHash is the bcrypt hash of the admin bearer token. Empty
	// disables the admin API.
	AdminTokenHash string
	// Limiter throttles admin requests. May be nil.
	Limiter     *middleware.RateLimiter
	StorageMode string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no auth.
	r.Get("/health", healthHandler(d.StorageMode))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", d.Public.Status)
		r.Get("/authors/{slug}", d.Public.Author)
		r.Get("/partners", d.Public.Partners)
		r.Get("/partners/{slug}", d.Public.Partner)

		// Blog and knowledge base share one route shape.
		r.Route("/{kind}", func(r chi.Router) {
			r.Get("/", d.Public.Published)
			r.Get("/featured", d.Public.Featured)
			r.Get("/search", d.Public.Search)
			r.Get("/by-slug/{slug}", d.Public.Entry)
			r.Get("/tags/{tag}", d.Public.ByTag)
			r.Get("/{id}/related", d.Public.Related)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", d.Public.Categories)
				r.Get("/roots", d.Public.RootCategories)
				r.Get("/{slug}", d.Public.Category)
				r.Get("/{slug}/children", d.Public.CategoryChildren)
				r.Get("/{slug}/breadcrumbs", d.Public.CategoryBreadcrumbs)
				r.Get("/{slug}/entries", d.Public.CategoryEntries)
			})
		})
	})

	// Admin write API, bearer token protected and never cached.
	r.Route("/admin/api", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware)
		}
		r.Use(middleware.NoStore)
		r.Use(middleware.RequireAdmin(d.AdminTokenHash))

		r.Post("/categories/reorder", d.Admin.ReorderCategories)
		r.Post("/kb-categories/reorder", d.Admin.ReorderKBCategories)
		r.Post("/cache/flush", d.Admin.FlushCache)

		for path, res := range d.Admin.Resources() {
			r.Route("/"+path, func(r chi.Router) {
				r.Get("/", res.List)
				r.Post("/", res.Create)
				r.Get("/{id}", res.Get)
				r.Put("/{id}", res.Update)
				r.Delete("/{id}", res.Delete)
			})
		}
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(storageMode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "storage": storageMode})
	}
}
