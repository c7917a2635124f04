package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDist(t *testing.T, withShell bool) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	if withShell {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>shell</html>"), 0o644))
	}
	return dir
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestSPA_ServesStaticFile(t *testing.T) {
	h := NewSPAHandler(newDist(t, true))
	rr := serve(h, http.MethodGet, "/assets/app.js")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "console.log(1)", rr.Body.String())
}

func TestSPA_FallsBackToShell(t *testing.T) {
	h := NewSPAHandler(newDist(t, true))
	for _, p := range []string{"/", "/products/42", "/assets", "/assets/missing.js"} {
		rr := serve(h, http.MethodGet, p)
		assert.Equal(t, http.StatusOK, rr.Code, p)
		assert.Equal(t, "<html>shell</html>", rr.Body.String(), p)
	}
}

func TestSPA_ShellServedDirectlyWithoutRedirect(t *testing.T) {
	h := NewSPAHandler(newDist(t, true))
	rr := serve(h, http.MethodGet, "/index.html")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSPA_NoTraversal(t *testing.T) {
	parent := t.TempDir()
	dist := filepath.Join(parent, "dist")
	require.NoError(t, os.MkdirAll(dist, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"), []byte("shell"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o644))

	h := NewSPAHandler(dist)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/../secret.txt"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "shell", rr.Body.String())
}

func TestSPA_MissingShellIs404(t *testing.T) {
	h := NewSPAHandler(newDist(t, false))
	rr := serve(h, http.MethodGet, "/products/42")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rr.Body.String())
}

func TestSPA_NonGetIs404(t *testing.T) {
	h := NewSPAHandler(newDist(t, true))
	rr := serve(h, http.MethodPost, "/products/42")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSPA_Head(t *testing.T) {
	h := NewSPAHandler(newDist(t, true))
	rr := serve(h, http.MethodHead, "/assets/app.js")
	assert.Equal(t, http.StatusOK, rr.Code)
}
