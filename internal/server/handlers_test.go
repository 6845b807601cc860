package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngenohkevin/storcat-agent/config"
)

type fixture struct {
	server *Server
	root   string
	out    string
}

func newFixture(t *testing.T, mutate func(cfg *config.Config)) *fixture {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "root")
	out := filepath.Join(base, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0755))
	require.NoError(t, os.MkdirAll(out, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "report.txt"), []byte("0123456789"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "values.csv"), []byte("01234567890123456789"), 0644))

	cfg := config.LoadWithDefaults()
	cfg.CatalogDir = out
	if mutate != nil {
		mutate(cfg)
	}

	s := New(cfg)
	t.Cleanup(func() { _ = s.handlers.Close() })

	return &fixture{server: s, root: root, out: out}
}

func (f *fixture) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer test-api-key")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)
	return w
}

func (f *fixture) create(t *testing.T) map[string]interface{} {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/catalogs", map[string]string{
		"title":           "Backup <A>",
		"directoryPath":   f.root,
		"outputRoot":      "backup",
		"outputDirectory": f.out,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestAPIRequiresAuth(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/catalogs", nil)
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIOpenAccess(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.APIKey = ""
		cfg.OpenAccess = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/catalogs", nil)
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateCatalog(t *testing.T) {
	f := newFixture(t, nil)

	result := f.create(t)

	assert.Equal(t, filepath.Join(f.out, "backup.json"), result["jsonPath"])
	assert.Equal(t, filepath.Join(f.out, "backup.html"), result["htmlPath"])
	assert.EqualValues(t, 2, result["fileCount"])
	assert.EqualValues(t, 30, result["totalSize"])

	page, err := os.ReadFile(filepath.Join(f.out, "backup.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Backup &lt;A&gt;</title>")
}

func TestCreateCatalog_Validation(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/catalogs", map[string]string{"directoryPath": f.root})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "outputRoot is required")

	w = f.do(t, http.MethodPost, "/api/catalogs", map[string]string{
		"directoryPath": f.root,
		"outputRoot":    "../escape",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCatalog_MissingRoot(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/catalogs", map[string]string{
		"directoryPath": filepath.Join(f.root, "missing"),
		"outputRoot":    "backup",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "failed to create catalog")
}

func TestCreateCatalog_AccessDenied(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.AllowedPaths = []string{filepath.Join(os.TempDir(), "nowhere-allowed")}
	})

	w := f.do(t, http.MethodPost, "/api/catalogs", map[string]string{
		"directoryPath": f.root,
		"outputRoot":    "backup",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// closeNotifyingRecorder satisfies the http.CloseNotifier that gin's Stream requires
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestStreamCreateCatalog(t *testing.T) {
	f := newFixture(t, nil)

	body, err := json.Marshal(map[string]string{
		"directoryPath":   f.root,
		"outputRoot":      "streamed",
		"outputDirectory": f.out,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/catalogs/stream", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-api-key")
	req.Header.Set("Content-Type", "application/json")
	w := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	f.server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "event:result")
	assert.NotContains(t, w.Body.String(), "event:error")
	assert.FileExists(t, filepath.Join(f.out, "streamed.json"))
}

func TestListCatalogs(t *testing.T) {
	f := newFixture(t, nil)
	f.create(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.out, "broken.json"), []byte("{not json"), 0644))

	w := f.do(t, http.MethodGet, "/api/catalogs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Catalogs []struct {
			Name    string `json:"name"`
			Title   string `json:"title"`
			HasHTML bool   `json:"hasHtml"`
		} `json:"catalogs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Catalogs, 1)
	assert.Equal(t, "backup", body.Catalogs[0].Name)
	assert.Equal(t, "Backup <A>", body.Catalogs[0].Title)
	assert.True(t, body.Catalogs[0].HasHTML)
}

func TestListCatalogs_MissingDirectory(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/catalogs?dir="+url.QueryEscape(filepath.Join(f.out, "missing")), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoadCatalog(t *testing.T) {
	f := newFixture(t, nil)
	f.create(t)

	w := f.do(t, http.MethodGet, "/api/catalogs/document?path="+url.QueryEscape(filepath.Join(f.out, "backup.json")), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Shape   string                 `json:"shape"`
		Catalog map[string]interface{} `json:"catalog"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "object", body.Shape)
	assert.Equal(t, "directory", body.Catalog["type"])
	assert.Equal(t, "./root", body.Catalog["name"])
	assert.EqualValues(t, 30, body.Catalog["size"])
}

func TestLoadCatalog_ParseError(t *testing.T) {
	f := newFixture(t, nil)
	broken := filepath.Join(f.out, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("42"), 0644))

	w := f.do(t, http.MethodGet, "/api/catalogs/document?path="+url.QueryEscape(broken), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRenderedEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	f.create(t)

	w := f.do(t, http.MethodGet, "/api/catalogs/rendered-path?path="+url.QueryEscape(filepath.Join(f.out, "backup.json")), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "backup.html")

	w = f.do(t, http.MethodGet, "/api/catalogs/rendered?path="+url.QueryEscape(filepath.Join(f.out, "backup.html")), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "report.txt")
}

func TestRenderedPath_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	orphan := filepath.Join(f.out, "orphan.json")
	require.NoError(t, os.WriteFile(orphan, []byte(`{"type":"directory","name":"./","size":0,"contents":[]}`), 0644))

	w := f.do(t, http.MethodGet, "/api/catalogs/rendered-path?path="+url.QueryEscape(orphan), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearch(t *testing.T) {
	f := newFixture(t, nil)
	f.create(t)

	w := f.do(t, http.MethodGet, "/api/search?term=REPORT", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count   int `json:"count"`
		Results []struct {
			Catalog  string `json:"catalog"`
			Basename string `json:"basename"`
			Type     string `json:"type"`
			Size     int64  `json:"size"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "backup", body.Results[0].Catalog)
	assert.Equal(t, "report.txt", body.Results[0].Basename)
	assert.Equal(t, "file", body.Results[0].Type)
	assert.Equal(t, int64(10), body.Results[0].Size)
}

func TestSearch_MissingTerm(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	f.create(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storcat_catalogs_created_total")
}

func TestReaderTokenCannotCreate(t *testing.T) {
	f := newFixture(t, nil)

	token, err := f.server.auth.GenerateToken("viewer", RoleReader, time.Hour)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{"directoryPath": f.root, "outputRoot": "backup"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/catalogs", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/catalogs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
