package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwantia/gomaterials/internal/api"
	config "github.com/mwantia/gomaterials/internal/config/server"
	"github.com/mwantia/gomaterials/internal/material"
	"github.com/mwantia/gomaterials/pkg/attachment"
	"github.com/mwantia/gomaterials/pkg/db/store"
	"github.com/mwantia/gomaterials/pkg/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type materialBody struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Desc      string  `json:"desc"`
	Category  string  `json:"category"`
	PDFLink   string  `json:"pdf_link"`
	ImageLink *string `json:"image_link"`
}

type messageBody struct {
	Message  string       `json:"message"`
	Material materialBody `json:"material"`
	Error    string       `json:"error"`
}

type part struct {
	field, filename, contentType, content string
}

func newRouter(t *testing.T, httpCfg config.HTTPServerConfig) *gin.Engine {
	t.Helper()

	metadata, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "materials.db"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, metadata.Connect(ctx))
	require.NoError(t, metadata.Migrate(ctx))
	t.Cleanup(func() { metadata.Close() })

	logger := log.NewLoggerServiceWithWriter("test", config.LogServerConfig{Level: "error"}, io.Discard)
	attachments := attachment.NewLocalStoreFs(afero.NewMemMapFs())

	return api.NewRouter(api.RouterConfig{
		HTTP:        httpCfg,
		AccessLog:   true,
		Materials:   material.NewService(metadata, attachments, logger, material.Options{}),
		Attachments: attachments,
		Health:      metadata,
		Log:         logger,
	})
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, parts ...part) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, p := range parts {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, p.filename))
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = io.WriteString(pw, p.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

var algebraFields = map[string]string{"name": "Algebra Notes", "desc": "Ch1-3", "category": "Math"}

func pdfPart(content string) part {
	return part{field: "pdf", filename: "algebra notes.pdf", contentType: "application/pdf", content: content}
}

func imagePart(content string) part {
	return part{field: "image", filename: "cover.png", contentType: "image/png", content: content}
}

func create(t *testing.T, router http.Handler, fields map[string]string, parts ...part) materialBody {
	t.Helper()
	rec := serve(router, multipartRequest(t, http.MethodPost, "/api/materials", fields, parts...))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body messageBody
	decode(t, rec, &body)
	return body.Material
}

// path strips scheme and host from a link.
func path(link string) string {
	return strings.TrimPrefix(link, "http://example.com")
}

func TestCreateMaterial(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})

	rec := serve(router, multipartRequest(t, http.MethodPost, "/api/materials", algebraFields, pdfPart("%PDF-1.4")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body messageBody
	decode(t, rec, &body)
	assert.NotEmpty(t, body.Message)
	assert.NotZero(t, body.Material.ID)
	assert.Equal(t, "Algebra Notes", body.Material.Name)
	assert.Equal(t, "Ch1-3", body.Material.Desc)
	assert.Equal(t, "Math", body.Material.Category)
	assert.Nil(t, body.Material.ImageLink)
	assert.True(t, strings.HasPrefix(body.Material.PDFLink, "http://example.com/uploads/pdfs/"), body.Material.PDFLink)
	assert.Contains(t, rec.Body.String(), `"image_link":null`)

	file := serve(router, httptest.NewRequest(http.MethodGet, path(body.Material.PDFLink), nil))
	assert.Equal(t, http.StatusOK, file.Code)
	assert.Equal(t, "%PDF-1.4", file.Body.String())
}

func TestCreateMaterialWithImage(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})

	m := create(t, router, algebraFields, pdfPart("doc"), imagePart("png"))
	require.NotNil(t, m.ImageLink)
	assert.True(t, strings.HasPrefix(*m.ImageLink, "http://example.com/uploads/images/"))

	file := serve(router, httptest.NewRequest(http.MethodGet, path(*m.ImageLink), nil))
	assert.Equal(t, http.StatusOK, file.Code)
}

func TestCreateMaterialValidation(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})

	cases := []struct {
		name   string
		fields map[string]string
		parts  []part
	}{
		{"missing pdf", algebraFields, nil},
		{"missing fields", map[string]string{"name": "Algebra"}, []part{pdfPart("doc")}},
		{"pdf with wrong type", algebraFields, []part{{field: "pdf", filename: "a.txt", contentType: "text/plain", content: "x"}}},
		{"image with wrong type", algebraFields, []part{pdfPart("doc"), {field: "image", filename: "a.gif", contentType: "image/gif", content: "x"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, multipartRequest(t, http.MethodPost, "/api/materials", tc.fields, tc.parts...))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body messageBody
			decode(t, rec, &body)
			assert.NotEmpty(t, body.Error)
		})
	}

	list := serve(router, httptest.NewRequest(http.MethodGet, "/api/materials", nil))
	assert.JSONEq(t, `[]`, list.Body.String())
}

func TestCreateDuplicateMaterial(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})

	create(t, router, algebraFields, pdfPart("same"))

	rec := serve(router, multipartRequest(t, http.MethodPost, "/api/materials", algebraFields, pdfPart("same")))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"material already exists"}`, rec.Body.String())

	var list []materialBody
	decode(t, serve(router, httptest.NewRequest(http.MethodGet, "/api/materials", nil)), &list)
	assert.Len(t, list, 1)
}

func TestUploadSizeLimit(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{MaxUploadSize: 1024})

	rec := serve(router, multipartRequest(t, http.MethodPost, "/api/materials", algebraFields, pdfPart(strings.Repeat("x", 4096))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestListMaterials(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})

	first := create(t, router, algebraFields, pdfPart("1"))
	second := create(t, router, map[string]string{"name": "Geometry", "desc": "Ch4", "category": "Math"}, pdfPart("2"), imagePart("img"))

	var list []materialBody
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/materials", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)

	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Nil(t, list[0].ImageLink)
	assert.NotNil(t, list[1].ImageLink)
}

func TestGetMaterial(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})
	m := create(t, router, algebraFields, pdfPart("1"))

	rec := serve(router, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/materials/%d", m.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got materialBody
	decode(t, rec, &got)
	assert.Equal(t, m, got)

	assert.Equal(t, http.StatusNotFound, serve(router, httptest.NewRequest(http.MethodGet, "/api/materials/999", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, httptest.NewRequest(http.MethodGet, "/api/materials/abc", nil)).Code)
}

func TestUpdateMaterial(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})
	m := create(t, router, algebraFields, pdfPart("old"), imagePart("img"))

	fields := map[string]string{"name": "Algebra Notes", "desc": "Ch1-4", "category": "Math"}
	rec := serve(router, multipartRequest(t, http.MethodPut, fmt.Sprintf("/api/materials/%d", m.ID), fields,
		part{field: "pdf", filename: "new.pdf", contentType: "application/pdf", content: "new"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body messageBody
	decode(t, rec, &body)
	assert.Equal(t, "Ch1-4", body.Material.Desc)
	assert.NotEqual(t, m.PDFLink, body.Material.PDFLink)
	require.NotNil(t, body.Material.ImageLink)
	assert.Equal(t, *m.ImageLink, *body.Material.ImageLink)

	assert.Equal(t, http.StatusNotFound, serve(router, httptest.NewRequest(http.MethodGet, path(m.PDFLink), nil)).Code)

	file := serve(router, httptest.NewRequest(http.MethodGet, path(body.Material.PDFLink), nil))
	assert.Equal(t, http.StatusOK, file.Code)
	assert.Equal(t, "new", file.Body.String())
}

func TestUpdateMaterialErrors(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})
	m := create(t, router, algebraFields, pdfPart("1"))

	rec := serve(router, multipartRequest(t, http.MethodPut, "/api/materials/999", algebraFields))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, multipartRequest(t, http.MethodPut, fmt.Sprintf("/api/materials/%d", m.ID), map[string]string{"name": "x"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, multipartRequest(t, http.MethodPut, "/api/materials/-1", algebraFields))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMaterialURLEncoded(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})
	m := create(t, router, algebraFields, pdfPart("1"))

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/materials/%d", m.ID),
		strings.NewReader("name=Renamed&desc=Ch1-3&category=Math"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(router, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body messageBody
	decode(t, rec, &body)
	assert.Equal(t, "Renamed", body.Material.Name)
	assert.Equal(t, m.PDFLink, body.Material.PDFLink)
}

func TestDeleteMaterial(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})
	m := create(t, router, algebraFields, pdfPart("1"), imagePart("img"))

	rec := serve(router, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/materials/%d", m.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Material deleted successfully"}`, rec.Body.String())

	var list []materialBody
	decode(t, serve(router, httptest.NewRequest(http.MethodGet, "/api/materials", nil)), &list)
	assert.Empty(t, list)

	assert.Equal(t, http.StatusNotFound, serve(router, httptest.NewRequest(http.MethodGet, path(m.PDFLink), nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, httptest.NewRequest(http.MethodGet, path(*m.ImageLink), nil)).Code)

	again := serve(router, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/materials/%d", m.ID), nil))
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestLinksFollowForwardedProto(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})

	req := multipartRequest(t, http.MethodPost, "/api/materials", algebraFields, pdfPart("1"))
	req.Host = "materials.example.org"
	req.Header.Set("X-Forwarded-Proto", "https")

	rec := serve(router, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body messageBody
	decode(t, rec, &body)
	assert.True(t, strings.HasPrefix(body.Material.PDFLink, "https://materials.example.org/uploads/pdfs/"), body.Material.PDFLink)
}

func TestLinksIgnoreUnknownForwardedProto(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})

	req := multipartRequest(t, http.MethodPost, "/api/materials", algebraFields, pdfPart("1"))
	req.Header.Set("X-Forwarded-Proto", "javascript")

	rec := serve(router, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body messageBody
	decode(t, rec, &body)
	assert.True(t, strings.HasPrefix(body.Material.PDFLink, "http://example.com/uploads/pdfs/"), body.Material.PDFLink)
}

func TestLinksEscapeReservedCharacters(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})

	for i, filename := range []string{"notes#1.pdf", "50%off.pdf", "what?.pdf"} {
		fields := map[string]string{"name": fmt.Sprintf("Notes %d", i), "desc": "Ch1", "category": "Math"}
		m := create(t, router, fields, part{field: "pdf", filename: filename, contentType: "application/pdf", content: filename})

		link, err := url.Parse(m.PDFLink)
		require.NoError(t, err, m.PDFLink)
		assert.Empty(t, link.Fragment)
		assert.Empty(t, link.RawQuery)

		file := serve(router, httptest.NewRequest(http.MethodGet, link.RequestURI(), nil))
		assert.Equal(t, http.StatusOK, file.Code, m.PDFLink)
		assert.Equal(t, filename, file.Body.String())
	}
}

func TestLinksUsePublicURL(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{PublicURL: "https://cdn.example.net/"})

	m := create(t, router, algebraFields, pdfPart("1"))
	assert.True(t, strings.HasPrefix(m.PDFLink, "https://cdn.example.net/uploads/pdfs/"), m.PDFLink)
}

func TestServeAttachmentRejectsUnknownPaths(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})

	for _, target := range []string{"/uploads/pdfs/missing.pdf", "/uploads/other/file.pdf"} {
		rec := serve(router, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}

type failingHealth struct{}

func (failingHealth) Health(context.Context) error { return errors.New("database is locked") }

func TestHealthz(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	unhealthy := api.NewRouter(api.RouterConfig{Health: failingHealth{}})
	rec = serve(unhealthy, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{})
	serve(router, httptest.NewRequest(http.MethodGet, "/api/materials", nil))

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gomaterials_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	router := newRouter(t, config.HTTPServerConfig{CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/materials", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := serve(router, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
