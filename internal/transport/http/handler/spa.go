package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

const shellFile = "index.html"

// SPAHandler serves files from a built application directory and falls back
// to the application shell so the client-side router can take over.
type SPAHandler struct {
	dir string
}

func NewSPAHandler(dir string) *SPAHandler { return &SPAHandler{dir: dir} }

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	// Clean against "/" first so ".." can never climb out of dir.
	name := path.Clean("/" + r.URL.Path)
	if name != "/" && h.serveFile(w, r, filepath.Join(h.dir, filepath.FromSlash(name))) {
		return
	}
	if h.serveFile(w, r, filepath.Join(h.dir, shellFile)) {
		return
	}
	writeError(w, http.StatusNotFound, "not found")
}

// serveFile reports false when p cannot be opened or is a directory.
func (h *SPAHandler) serveFile(w http.ResponseWriter, r *http.Request, p string) bool {
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}
