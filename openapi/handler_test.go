package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newHandlerTestRouter() (*mux.Router, *Generator) {
	r := mux.NewRouter()
	r.HandleFunc("/users", dummyHandler).Methods(http.MethodGet).Name("listUsers")
	r.HandleFunc("/users/{id}", dummyHandler).Methods(http.MethodGet).Name("getUser")

	gen := NewGenerator(Info{Title: "Handler Test API", Version: "1.0.0"})
	gen.Op("listUsers").Tags("users").Model(testUser{}).Many()
	gen.Op("getUser").Tags("users").Model(testUser{})

	return r, gen
}

func TestHandleJSON(t *testing.T) {
	r, gen := newHandlerTestRouter()
	gen.Handle(r, "/swagger", nil)

	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/schema.json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.2", doc["openapi"])

	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/users")
	assert.Contains(t, paths, "/users/{id}")

	// The schema endpoints themselves have no metadata and stay out of
	// the document.
	assert.NotContains(t, paths, "/swagger/schema.json")
}

func TestHandleJSONLocalServer(t *testing.T) {
	r, gen := newHandlerTestRouter()
	gen.Handle(r, "/swagger", nil)

	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/schema.json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	servers, ok := doc["servers"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, servers)
	first, ok := servers[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8080/", first["url"])
	assert.Equal(t, "Local server", first["description"])
}

func TestHandleYAML(t *testing.T) {
	r, gen := newHandlerTestRouter()
	gen.Handle(r, "/swagger", nil)

	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/schema.yaml", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-yaml", w.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.2", doc["openapi"])
}

func TestHandleDocsUI(t *testing.T) {
	t.Run("swagger ui by default", func(t *testing.T) {
		r, gen := newHandlerTestRouter()
		gen.Handle(r, "/swagger", nil)

		req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "SwaggerUIBundle")
		assert.Contains(t, w.Body.String(), "/swagger/schema.json")
		assert.Contains(t, w.Body.String(), "Handler Test API")
	})

	t.Run("redoc", func(t *testing.T) {
		r, gen := newHandlerTestRouter()
		gen.Handle(r, "/swagger", &HandleConfig{UI: DocsRedoc})

		req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Contains(t, w.Body.String(), "redoc")
	})

	t.Run("rapidoc", func(t *testing.T) {
		r, gen := newHandlerTestRouter()
		gen.Handle(r, "/swagger", &HandleConfig{UI: DocsRapiDoc})

		req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Contains(t, w.Body.String(), "rapi-doc")
	})

	t.Run("title override escapes html", func(t *testing.T) {
		r, gen := newHandlerTestRouter()
		gen.Handle(r, "/swagger", &HandleConfig{Title: "<script>alert(1)</script>"})

		req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
	})

	t.Run("disabled docs", func(t *testing.T) {
		r, gen := newHandlerTestRouter()
		gen.Handle(r, "/swagger", &HandleConfig{DisableDocs: true})

		req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("swagger ui extra config", func(t *testing.T) {
		r, gen := newHandlerTestRouter()
		gen.Handle(r, "/swagger", &HandleConfig{
			SwaggerUIConfig: map[string]any{"docExpansion": "none"},
		})

		req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Contains(t, w.Body.String(), `docExpansion: "none"`)
	})
}

func TestHandleFilenames(t *testing.T) {
	t.Run("disabled json endpoint", func(t *testing.T) {
		r, gen := newHandlerTestRouter()
		gen.Handle(r, "/swagger", &HandleConfig{JSONFilename: "-"})

		req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/schema.json", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("docs fall back to yaml when json disabled", func(t *testing.T) {
		r, gen := newHandlerTestRouter()
		gen.Handle(r, "/swagger", &HandleConfig{JSONFilename: "-"})

		req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/swagger/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Contains(t, w.Body.String(), "/swagger/schema.yaml")
	})

	t.Run("absolute filename", func(t *testing.T) {
		r, gen := newHandlerTestRouter()
		gen.Handle(r, "/swagger", &HandleConfig{JSONFilename: "/api/openapi.json"})

		req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/api/openapi.json", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		basePath string
		filename string
		want     string
	}{
		{"/swagger", "schema.json", "/swagger/schema.json"},
		{"/swagger", "data/openapi.json", "/swagger/data/openapi.json"},
		{"/swagger", "/api/v1/swagger.json", "/api/v1/swagger.json"},
		{"", "schema.json", "/schema.json"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, resolvePath(tt.basePath, tt.filename))
		})
	}
}

func TestHandleRootBasePath(t *testing.T) {
	r, gen := newHandlerTestRouter()
	gen.Handle(r, "/", nil)

	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "SwaggerUIBundle"))
}
