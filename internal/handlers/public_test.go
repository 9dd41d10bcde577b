package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostpress/internal/content"
	"hostpress/internal/models"
	"hostpress/internal/status"
	"hostpress/internal/storage"
	"hostpress/internal/store"
)

func TestPublishedNewestFirst(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodGet, "/api/blog", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.OK)
	assert.Equal(t, []string{"p2", "p1"}, ids(decodeData[[]models.Content](t, resp)))
}

func TestUnknownKind(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodGet, "/api/news", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, resp.OK)
}

func TestFeatured(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	_, resp := api.do(t, http.MethodGet, "/api/blog/featured", "")
	assert.Equal(t, []string{"p2"}, ids(decodeData[[]models.Content](t, resp)))
}

func TestEntryBySlug(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodGet, "/api/blog/by-slug/hello", "")
	require.Equal(t, http.StatusOK, code)
	entry := decodeData[content.Entry](t, resp)
	assert.Equal(t, "p1", entry.ID)
	assert.Equal(t, "ana", entry.Author.Slug)

	// p2 has no author and falls back to the default one.
	_, resp = api.do(t, http.MethodGet, "/api/blog/by-slug/backups", "")
	assert.Equal(t, "team", decodeData[content.Entry](t, resp).Author.Slug)

	code, _ = api.do(t, http.MethodGet, "/api/blog/by-slug/draft", "")
	assert.Equal(t, http.StatusNotFound, code, "drafts are not public")

	code, _ = api.do(t, http.MethodGet, "/api/blog/by-slug/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEntryDefaultAuthorMissing(t *testing.T) {
	s := defaultSeed()
	s.authors = s.authors[1:]
	api := newTestAPI(t, s)

	code, resp := api.do(t, http.MethodGet, "/api/blog/by-slug/backups", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, resp.OK)
}

func TestSearchEndpoint(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	_, resp := api.do(t, http.MethodGet, "/api/blog/search?q=BACKUP", "")
	hits := decodeData[[]content.Hit](t, resp)
	require.Len(t, hits, 1)
	assert.Equal(t, "p2", hits[0].Entry.ID)
	assert.Equal(t, content.FieldTitle, hits[0].Field)

	_, resp = api.do(t, http.MethodGet, "/api/blog/search?q=", "")
	assert.Empty(t, decodeData[[]content.Hit](t, resp))
}

func TestRelatedEndpoint(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	_, resp := api.do(t, http.MethodGet, "/api/blog/p1/related", "")
	assert.Equal(t, []string{"p2"}, ids(decodeData[[]models.Content](t, resp)))

	code, _ := api.do(t, http.MethodGet, "/api/blog/p1/related?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTagEndpoint(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	_, resp := api.do(t, http.MethodGet, "/api/blog/tags/DNS", "")
	assert.Equal(t, []string{"p2", "p1"}, ids(decodeData[[]models.Content](t, resp)))
}

func TestCategoryEndpoints(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	_, resp := api.do(t, http.MethodGet, "/api/blog/categories/roots", "")
	roots := decodeData[[]models.Category](t, resp)
	require.Len(t, roots, 1)
	assert.Equal(t, "guides", roots[0].Slug)

	_, resp = api.do(t, http.MethodGet, "/api/blog/categories?tree=1", "")
	tree := decodeData[[]models.Category](t, resp)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "dns", tree[0].Children[0].Slug)

	_, resp = api.do(t, http.MethodGet, "/api/blog/categories/guides/children", "")
	assert.Len(t, decodeData[[]models.Category](t, resp), 1)

	_, resp = api.do(t, http.MethodGet, "/api/blog/categories/dns/breadcrumbs", "")
	crumbs := decodeData[[]models.Category](t, resp)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "guides", crumbs[0].Slug)
	assert.Equal(t, "dns", crumbs[1].Slug)

	_, resp = api.do(t, http.MethodGet, "/api/blog/categories/dns/entries", "")
	assert.Equal(t, []string{"p2", "p1"}, ids(decodeData[[]models.Content](t, resp)))

	code, _ := api.do(t, http.MethodGet, "/api/blog/categories/ghost", "")
	assert.Equal(t, http.StatusNotFound, code)

	_, resp = api.do(t, http.MethodGet, "/api/kb/categories", "")
	assert.Empty(t, decodeData[[]models.Category](t, resp))
}

func TestAuthorEndpoint(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodGet, "/api/authors/ana", "")
	require.Equal(t, http.StatusOK, code)
	view := decodeData[authorView](t, resp)
	assert.Equal(t, "Ana", view.Name)
	assert.Equal(t, []string{"p1"}, ids(view.Posts))
	assert.Empty(t, view.Articles)
	require.Len(t, view.Links, 1)
	assert.Equal(t, "https://github.com/ana", view.Links[0].URL)

	_, resp = api.do(t, http.MethodGet, "/api/authors/team", "")
	assert.Equal(t, []string{"p2"}, ids(decodeData[authorView](t, resp).Posts))

	code, _ = api.do(t, http.MethodGet, "/api/authors/nobody", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPartnerEndpoints(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	_, resp := api.do(t, http.MethodGet, "/api/partners", "")
	partners := decodeData[[]partnerView](t, resp)
	require.Len(t, partners, 2)
	assert.Equal(t, "globex", partners[0].Slug, "featured partners come first")

	code, _ := api.do(t, http.MethodGet, "/api/partners/acme", "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(t, http.MethodGet, "/api/partners/initech", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStatusNotConfigured(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, status.StateUnknown, decodeData[status.Summary](t, resp).State)
}

func TestPublicResponsesAreMisses(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	resp, err := http.Get(api.server.URL + "/api/blog")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestDegradedResponsesBypassCache(t *testing.T) {
	dir := t.TempDir()
	engine := content.NewEngine(content.Sources{
		Posts:          store.NewContentStore(storage.NewFileCollection[models.Content](dir, "posts"), models.ContentTypePost),
		BlogCategories: store.NewCategoryStore(storage.NewFileCollection[models.Category](dir, "categories")),
		Partners:       store.NewPartnerStore(storage.NewFileCollection[models.Partner](dir, "partners")),
	}, "team")
	public := NewPublic(engine, nil, nil)

	r := chi.NewRouter()
	r.Get("/api/partners", public.Partners)
	r.Get("/api/{kind}", public.Published)
	r.Get("/api/{kind}/categories", public.Categories)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	for _, path := range []string{"/api/blog", "/api/blog/categories", "/api/partners"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "BYPASS", resp.Header.Get("X-Cache"), path)
	}

	resp, err := http.Get(srv.URL + "/api/kb")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"), "a section without stores is empty, not degraded")
}
