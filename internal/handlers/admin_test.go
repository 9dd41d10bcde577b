package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostpress/internal/models"
)

func TestAdminCreatePost(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodPost, "/admin/api/posts",
		`{"title":"Moving to NVMe","body":"We **moved** every server.","status":"published","tags":["Storage","storage"]}`)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	created := decodeData[models.Content](t, resp)
	assert.Equal(t, "moving-to-nvme", created.Slug)
	assert.Equal(t, []string{"Storage"}, created.Tags)
	assert.NotNil(t, created.PublishedAt)
	assert.Equal(t, "We moved every server.", created.Excerpt)

	_, resp = api.do(t, http.MethodGet, "/api/blog/by-slug/moving-to-nvme", "")
	assert.True(t, resp.OK, "new post is visible on the public API")
}

func TestAdminValidationErrors(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodPost, "/admin/api/posts", `{"title":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "title", resp.Field)

	code, resp = api.do(t, http.MethodPost, "/admin/api/posts", `{"title":"Hello","slug":"hello"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "slug", resp.Field)

	code, _ = api.do(t, http.MethodPost, "/admin/api/posts", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = api.do(t, http.MethodPost, "/admin/api/partners", `{"name":"Initech","discount_percent":120}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "discount_percent", resp.Field)
}

func TestDecodeBodyTooLarge(t *testing.T) {
	body := `{"title":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/admin/api/posts", strings.NewReader(body))

	var in models.Content
	assert.False(t, decode(w, r, &in))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestAdminUpdateAndDelete(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodPut, "/admin/api/categories/c2", `{"name":"Domains","parent_id":"c1"}`)
	require.Equal(t, http.StatusOK, code, resp.Error)
	updated := decodeData[models.Category](t, resp)
	assert.Equal(t, "Domains", updated.Name)
	assert.Equal(t, "dns", updated.Slug, "an empty slug keeps the stored one")

	code, resp = api.do(t, http.MethodPut, "/admin/api/categories/c2", `{"name":"Domains","slug":"domains"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "slug", resp.Field)

	code, _ = api.do(t, http.MethodPut, "/admin/api/categories/ghost", `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(t, http.MethodDelete, "/admin/api/partners/x1", "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(t, http.MethodDelete, "/admin/api/partners/x1", "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = api.do(t, http.MethodGet, "/api/partners/acme", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminDefaultAuthorIsProtected(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodDelete, "/admin/api/authors/a0", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, resp.OK)

	code, resp = api.do(t, http.MethodPut, "/admin/api/authors/a0", `{"name":"Team","slug":"renamed"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "slug", resp.Field)

	code, resp = api.do(t, http.MethodGet, "/api/authors/team", "")
	require.Equal(t, http.StatusOK, code, resp.Error)

	code, _ = api.do(t, http.MethodGet, "/api/blog/by-slug/backups", "")
	assert.Equal(t, http.StatusOK, code, "entries without an author still resolve the default")

	code, _ = api.do(t, http.MethodDelete, "/admin/api/authors/a1", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminEditOrphanCategory(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, _ := api.do(t, http.MethodDelete, "/admin/api/categories/c1", "")
	require.Equal(t, http.StatusOK, code)

	code, resp := api.do(t, http.MethodPut, "/admin/api/categories/c2", `{"name":"Domains","parent_id":"c1"}`)
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, "Domains", decodeData[models.Category](t, resp).Name)
}

func TestAdminUpdateWithoutStatusKeepsPublished(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodPut, "/admin/api/posts/p1", `{"title":"Hello again"}`)
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, models.ContentStatusPublished, decodeData[models.Content](t, resp).Status)

	code, _ = api.do(t, http.MethodGet, "/api/blog/by-slug/hello", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminListIncludesDrafts(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	_, resp := api.do(t, http.MethodGet, "/admin/api/posts", "")
	assert.Len(t, decodeData[[]models.Content](t, resp), 3)

	code, resp := api.do(t, http.MethodGet, "/admin/api/posts/p3", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.ContentStatusDraft, decodeData[models.Content](t, resp).Status)
}

func TestAdminReorderCategories(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodPost, "/admin/api/categories/reorder",
		`[{"id":"c2","parent_id":null,"order":0},{"id":"c1","parent_id":null,"order":1}]`)
	require.Equal(t, http.StatusOK, code, resp.Error)

	_, resp = api.do(t, http.MethodGet, "/api/blog/categories/roots", "")
	roots := decodeData[[]models.Category](t, resp)
	require.Len(t, roots, 2)
	assert.Equal(t, "dns", roots[0].Slug)

	code, resp = api.do(t, http.MethodPost, "/admin/api/categories/reorder",
		`[{"id":"c2","parent_id":"c1","order":0},{"id":"c1","parent_id":"c2","order":0}]`)
	assert.Equal(t, http.StatusUnprocessableEntity, code, "cycles are rejected")
	assert.Equal(t, "parent_id", resp.Field)

	code, _ = api.do(t, http.MethodPost, "/admin/api/categories/reorder", `[]`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminFlushCacheWithoutValkey(t *testing.T) {
	api := newTestAPI(t, defaultSeed())

	code, resp := api.do(t, http.MethodPost, "/admin/api/cache/flush", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.OK)
}
