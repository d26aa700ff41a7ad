package router

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// StaticEndpoint is the endpoint identifier of the rule registered by Static.
const StaticEndpoint = "static"

// Static serves files from fsys under prefix. The rule pattern is
// prefix + "/<path:filename>" and its endpoint is StaticEndpoint.
// Directories are never listed and index.html is served as a plain file.
func (r *Router) Static(prefix string, fsys fs.FS) *Rule {
	prefix = strings.TrimRight(prefix, "/")
	return r.Handle(prefix+"/<path:filename>", staticHandler{fs: fsys}).
		Methods(http.MethodGet).
		Endpoint(StaticEndpoint)
}

type staticHandler struct {
	fs fs.FS
}

func (h staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, _ := VarGet(r, "filename")
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" || !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}

	f, err := h.fs.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		content = bytes.NewReader(data)
	}

	http.ServeContent(w, r, stat.Name(), stat.ModTime(), content)
}
