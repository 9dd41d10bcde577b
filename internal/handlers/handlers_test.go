// handlers_test.go exercises the JSON API end to end through a chi mux
// backed by file collections in a temporary directory. The response cache
// is disabled (nil) so every request reaches the content engine.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"hostpress/internal/content"
	"hostpress/internal/models"
	"hostpress/internal/storage"
	"hostpress/internal/store"
)

var day = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func at(days int) *time.Time {
	t := day.AddDate(0, 0, days)
	return &t
}

func ptr(s string) *string { return &s }

type apiResponse struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Field string          `json:"field"`
}

func seeded[T storage.Record](t *testing.T, dir, name string, items ...T) storage.Collection[T] {
	t.Helper()
	c := storage.NewFileCollection[T](dir, name)
	require.NoError(t, c.Upsert(context.Background(), items))
	return c
}

type testAPI struct {
	server *httptest.Server
}

type seed struct {
	posts      []models.Content
	categories []models.Category
	authors    []models.Author
	partners   []models.Partner
}

func defaultSeed() seed {
	return seed{
		posts: []models.Content{
			{ID: "p1", Type: models.ContentTypePost, Slug: "hello", Title: "Hello hosting", Status: models.ContentStatusPublished,
				CategoryIDs: []string{"c2"}, AuthorID: "a1", Tags: []string{"dns"}, PublishedAt: at(1), CreatedAt: day},
			{ID: "p2", Type: models.ContentTypePost, Slug: "backups", Title: "Backups explained", Status: models.ContentStatusPublished,
				CategoryIDs: []string{"c2"}, Tags: []string{"dns", "backup"}, Featured: true, PublishedAt: at(2), CreatedAt: day},
			{ID: "p3", Type: models.ContentTypePost, Slug: "draft", Title: "Draft", Status: models.ContentStatusDraft, CreatedAt: day},
		},
		categories: []models.Category{
			{ID: "c1", Name: "Guides", Slug: "guides", SortOrder: 1, CreatedAt: day},
			{ID: "c2", Name: "DNS", Slug: "dns", ParentID: ptr("c1"), SortOrder: 1, CreatedAt: day},
		},
		authors: []models.Author{
			{ID: "a0", Name: "Team", Slug: "team", CreatedAt: day},
			{ID: "a1", Name: "Ana", Slug: "ana", Social: models.SocialLinks{"github": "ana"}, CreatedAt: day},
		},
		partners: []models.Partner{
			{ID: "x1", Name: "Acme", Slug: "acme", CreatedAt: day},
			{ID: "x2", Name: "Globex", Slug: "globex", Featured: true, CreatedAt: day},
		},
	}
}

func newTestAPI(t *testing.T, s seed) *testAPI {
	t.Helper()
	dir := t.TempDir()

	stores := AdminStores{
		Posts:        store.NewContentStore(seeded(t, dir, "posts", s.posts...), models.ContentTypePost),
		Articles:     store.NewContentStore(seeded[models.Content](t, dir, "articles"), models.ContentTypeArticle),
		Categories:   store.NewCategoryStore(seeded(t, dir, "categories", s.categories...)),
		KBCategories: store.NewCategoryStore(seeded[models.Category](t, dir, "kb_categories")),
		Authors:      store.NewAuthorStore(seeded(t, dir, "authors", s.authors...), "team"),
		Partners:     store.NewPartnerStore(seeded(t, dir, "partners", s.partners...)),
	}
	engine := content.NewEngine(content.Sources{
		Posts:          stores.Posts,
		BlogCategories: stores.Categories,
		Articles:       stores.Articles,
		KBCategories:   stores.KBCategories,
		Authors:        stores.Authors,
		Partners:       stores.Partners,
	}, "team")

	public := NewPublic(engine, nil, nil)
	admin := NewAdmin(stores, nil)

	r := chi.NewRouter()
	r.Get("/api/status", public.Status)
	r.Get("/api/authors/{slug}", public.Author)
	r.Get("/api/partners", public.Partners)
	r.Get("/api/partners/{slug}", public.Partner)
	r.Route("/api/{kind}", func(r chi.Router) {
		r.Get("/", public.Published)
		r.Get("/featured", public.Featured)
		r.Get("/search", public.Search)
		r.Get("/by-slug/{slug}", public.Entry)
		r.Get("/tags/{tag}", public.ByTag)
		r.Get("/{id}/related", public.Related)
		r.Get("/categories", public.Categories)
		r.Get("/categories/roots", public.RootCategories)
		r.Get("/categories/{slug}", public.Category)
		r.Get("/categories/{slug}/children", public.CategoryChildren)
		r.Get("/categories/{slug}/breadcrumbs", public.CategoryBreadcrumbs)
		r.Get("/categories/{slug}/entries", public.CategoryEntries)
	})
	r.Route("/admin/api", func(r chi.Router) {
		for path, res := range admin.Resources() {
			r.Route("/"+path, func(r chi.Router) {
				r.Get("/", res.List)
				r.Post("/", res.Create)
				r.Get("/{id}", res.Get)
				r.Put("/{id}", res.Update)
				r.Delete("/{id}", res.Delete)
			})
		}
		r.Post("/categories/reorder", admin.ReorderCategories)
		r.Post("/cache/flush", admin.FlushCache)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testAPI{server: srv}
}

func (a *testAPI) do(t *testing.T, method, path, body string) (int, apiResponse) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, a.server.URL+path, rdr)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func decodeData[T any](t *testing.T, r apiResponse) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(r.Data, &v))
	return v
}

func ids(items []models.Content) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.ID
	}
	return out
}
