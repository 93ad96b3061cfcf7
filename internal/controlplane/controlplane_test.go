package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallysync/tallysync/internal/controlplane/middleware"
	"github.com/tallysync/tallysync/internal/diag"
	"github.com/tallysync/tallysync/internal/fsport"
	"github.com/tallysync/tallysync/internal/session"
	"github.com/tallysync/tallysync/internal/utils"
	"github.com/tallysync/tallysync/internal/version"
)

func TestAddrToURL(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
		err  bool
	}{
		{"addr-with-host-port", "localhost:7940", "http://localhost:7940", false},
		{"addr-with-ip-port", "127.0.0.1:7940", "http://127.0.0.1:7940", false},
		{"addr-with-only-port", ":7940", "http://0.0.0.0:7940", false},
		{"addr-with-only-host", "localhost:", "", true},
		{"addr-missing-port", "localhost", "", true},
		{"addr-with-http", "http://localhost:7940", "", true},
		{"empty", "", "", true},
	}
	for _, test := range tests {
		val, err := addrToURL(test.addr)
		if test.err {
			assert.Error(t, err, test.name)
		} else {
			assert.NoError(t, err, test.name)
			assert.Equal(t, test.want, val, test.name)
		}
	}
}

func newRoutes(t *testing.T, token string) (http.Handler, *fsport.AferoFS) {
	t.Helper()
	mem := fsport.NewMem()
	afs := mem.Afero()
	require.NoError(t, afs.MkdirAll("/data/logs", 0o755))
	require.NoError(t, afero.WriteFile(afs, "/data/tally.csv", []byte("1,2,3"), 0o644))
	require.NoError(t, afs.MkdirAll("/backup", 0o755))

	sess := session.New(mem, session.Options{
		Source:      "/data",
		Destination: "/backup/tally",
		Sink:        diag.Discard,
	})
	routes, err := SetupRoutes(sess, &RouteConfig{
		Auth:      middleware.TokenAuthConfig{Token: token},
		RateLimit: "1000-S",
	})
	require.NoError(t, err)
	return routes, mem
}

func do(h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoutes_Index(t *testing.T) {
	routes, _ := newRoutes(t, "")

	w := do(routes, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, version.Detailed(), got)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRoutes_BrowseAndSync(t *testing.T) {
	routes, mem := newRoutes(t, "tok")

	assert.Equal(t, http.StatusUnauthorized, do(routes, http.MethodGet, "/v1/status", "", nil).Code)

	w := do(routes, http.MethodGet, "/v1/items?q=T", "tok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"tally.csv"`)
	assert.NotContains(t, w.Body.String(), `"name":"logs"`)

	w = do(routes, http.MethodPost, "/v1/navigate/into", "tok", map[string]string{"name": "logs"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"path":"/data/logs"`)

	w = do(routes, http.MethodPost, "/v1/navigate/up", "tok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"path":"/data"`)

	w = do(routes, http.MethodPut, "/v1/config/destination", "tok", map[string]string{"path": "/nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ERR_PATH_REJECTED"`)

	w = do(routes, http.MethodPost, "/v1/sync", "tok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Data synced successfully.")

	ok, err := afero.Exists(mem.Afero(), "/backup/tally/tally.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	w = do(routes, http.MethodGet, "/v1/status", "tok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"syncing":false`)
	assert.Contains(t, w.Body.String(), `"message":"Data synced successfully."`)
}

func TestRoutes_NotFound(t *testing.T) {
	routes, _ := newRoutes(t, "")

	assert.Equal(t, http.StatusNotFound, do(routes, http.MethodGet, "/v2/nothing", "", nil).Code)
}

func TestSetupRoutes_BadRate(t *testing.T) {
	_, err := SetupRoutes(nil, &RouteConfig{RateLimit: "fast"})
	assert.Error(t, err)
}

func TestServer_StartStop(t *testing.T) {
	port, err := utils.FreePort()
	require.NoError(t, err)
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	sess := session.New(fsport.NewMem(), session.Options{Source: "/", Sink: diag.Discard})
	srv, err := New(&Config{Addr: addr}, sess)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.NoError(t, <-errCh)
}
