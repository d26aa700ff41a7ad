package router

import (
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestStatic(t *testing.T) {
	fsys := fstest.MapFS{
		"site.css":      {Data: []byte("body{}")},
		"index.html":    {Data: []byte("<h1>Balloons</h1>")},
		"img/logo.svg":  {Data: []byte("<svg/>")},
		"docs/.keep":    {Data: []byte("")},
		"docs/readme.t": {Data: []byte("readme")},
	}

	t.Run("registers the static endpoint", func(t *testing.T) {
		r := NewRouter()
		rule := r.Static("/static/", fsys)

		assert.Equal(t, "/static/<path:filename>", rule.Pattern())
		assert.Equal(t, StaticEndpoint, rule.GetEndpoint())
	})

	t.Run("serves files", func(t *testing.T) {
		r := NewRouter()
		r.Static("/static", fsys)

		w := serve(r, http.MethodGet, "/static/site.css")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "body{}", w.Body.String())

		w = serve(r, http.MethodGet, "/static/img/logo.svg")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("serves index.html without redirect", func(t *testing.T) {
		r := NewRouter()
		r.Static("/static", fsys)

		w := serve(r, http.MethodGet, "/static/index.html")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<h1>Balloons</h1>", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	})

	t.Run("does not list directories", func(t *testing.T) {
		r := NewRouter()
		r.Static("/static", fsys)

		w := serve(r, http.MethodGet, "/static/docs")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		r := NewRouter()
		r.Static("/static", fsys)

		w := serve(r, http.MethodGet, "/static/nope.js")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
