package view

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/classyswagger/router"
	"github.com/vitalvas/classyswagger/swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func rulesByEndpoint(r *router.Router) map[string]*router.Rule {
	out := make(map[string]*router.Rule)
	for _, rule := range r.Rules() {
		out[rule.GetEndpoint()] = rule
	}
	return out
}

func mustMethod(t *testing.T, r *router.Router, endpoint string) *Method {
	t.Helper()

	h, ok := r.Lookup(endpoint)
	require.True(t, ok, endpoint)
	m, ok := h.(*Method)
	require.True(t, ok)
	return m
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRegisterRules(t *testing.T) {
	r := router.NewRouter()
	require.NoError(t, Register(r, &Balloons{}, nil))

	rules := rulesByEndpoint(r)
	require.Len(t, rules, 4)

	tests := []struct {
		endpoint string
		pattern  string
		method   string
	}{
		{"Balloons:index", "/balloons/", http.MethodGet},
		{"Balloons:get", "/balloons/<int:id>", http.MethodGet},
		{"Balloons:post", "/balloons/<balloon>/<label>/<color>/<helium>", http.MethodPost},
		{"Balloons:delete", "/balloons/<int:arg0>", http.MethodDelete},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			rule, ok := rules[tt.endpoint]
			require.True(t, ok)
			assert.Equal(t, tt.pattern, rule.Pattern())
			assert.Contains(t, rule.GetMethods(), tt.method)
			assert.NoError(t, rule.GetError())
		})
	}
}

func TestRegisterConventions(t *testing.T) {
	t.Run("custom handler and value receiver", func(t *testing.T) {
		r := router.NewRouter()
		require.NoError(t, Register(r, &Kites{}, nil))

		rules := rulesByEndpoint(r)
		assert.Equal(t, "/kites/", rules["Kites:index"].Pattern())
		assert.Equal(t, "/kites/<uuid:ref>", rules["Kites:get"].Pattern())
		assert.Equal(t, "/kites/show_color/<color>/<float:ratio>", rules["Kites:show_color"].Pattern())
		assert.Contains(t, rules["Kites:show_color"].GetMethods(), http.MethodGet)
	})

	t.Run("route base with placeholder", func(t *testing.T) {
		r := router.NewRouter()
		require.NoError(t, Register(r, &Tethers{}, nil))

		rule := r.Rule("Tethers:put")
		require.NotNil(t, rule)
		assert.Equal(t, "/<int:id>/balloon/<color>", rule.Pattern())
		assert.Equal(t, []string{http.MethodPut, http.MethodOptions}, rule.GetMethods())
	})

	t.Run("config overrides", func(t *testing.T) {
		r := router.NewRouter()
		require.NoError(t, Register(r, &Tethers{}, &Config{RoutePrefix: "/api/", RouteBase: "tethers"}))
		assert.Equal(t, "/api/tethers/<int:id>/<color>", r.Rule("Tethers:put").Pattern())
	})

	t.Run("registering twice fails", func(t *testing.T) {
		r := router.NewRouter()
		require.NoError(t, Register(r, &Kites{}, nil))
		assert.ErrorIs(t, Register(r, &Kites{}, nil), ErrEndpointTaken)
	})

	t.Run("failed registration leaves no rules behind", func(t *testing.T) {
		r := router.NewRouter()
		require.NoError(t, Register(r, &Kites{}, nil))
		before := len(r.Rules())

		err := Register(r, &Kites{}, &Config{RouteBase: "/other"})
		require.ErrorIs(t, err, ErrEndpointTaken)
		assert.Len(t, r.Rules(), before)
		for _, rule := range r.Rules() {
			assert.NotContains(t, rule.Pattern(), "/other")
		}

		err = Register(r, &Tethers{}, &Config{RouteBase: "/<bogus:id>"})
		require.Error(t, err)
		assert.Nil(t, r.Rule("Tethers:put"))
		assert.Len(t, r.Rules(), before)
	})
}

func TestRegisterErrors(t *testing.T) {
	r := router.NewRouter()

	assert.ErrorIs(t, Register(r, nil, nil), ErrNotPointer)
	assert.ErrorIs(t, Register(r, Kites{}, nil), ErrNotPointer)
	assert.ErrorIs(t, Register(r, (*Kites)(nil), nil), ErrNotPointer)
	assert.ErrorIs(t, Register(r, &Empty{}, nil), ErrNoHandlers)

	err := Register(r, &Unsupported{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported argument type []string")

	assert.Empty(t, r.Rules())
}

func TestMethodIntrospection(t *testing.T) {
	r := router.NewRouter()
	require.NoError(t, Register(r, &Balloons{}, nil))

	t.Run("signature", func(t *testing.T) {
		m := mustMethod(t, r, "Balloons:post")
		assert.Equal(t, "post", m.Name())
		assert.Equal(t, "Balloons:post", m.Endpoint())
		assert.Equal(t, swagger.Signature{
			Args:     []string{"self", "balloon", "label", "color", "helium"},
			Defaults: []string{"red", "true"},
		}, m.Signature())
	})

	t.Run("doc", func(t *testing.T) {
		m := mustMethod(t, r, "Balloons:index")
		assert.Equal(t, "Index gets all the balloons.\n\nDetailed instructions for what to do with balloons.\n", m.Doc())
	})

	t.Run("source", func(t *testing.T) {
		m := mustMethod(t, r, "Balloons:index")
		src, err := m.Source()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(src, "func (b *Balloons) Index("), src)
		assert.True(t, strings.HasSuffix(src, "}"), src)
		assert.Contains(t, src, "return JSON(w, b.items)")
	})

	t.Run("owner", func(t *testing.T) {
		m := mustMethod(t, r, "Balloons:get")
		owner := m.Owner()
		require.NotNil(t, owner)
		assert.Equal(t, "Balloons", owner.Name)
		assert.Equal(t, "Balloons are fun.", owner.Doc)
		assert.Equal(t, Balloon{}, owner.Model)
	})

	t.Run("undocumented type", func(t *testing.T) {
		kr := router.NewRouter()
		require.NoError(t, Register(kr, &Kites{}, nil))

		m := mustMethod(t, kr, "Kites:index")
		assert.Empty(t, m.Owner().Doc)
		assert.Equal(t, "Index lists kites.\n", m.Doc())

		src, err := m.Source()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(src, "func (Kites) Index("), src)
	})

	t.Run("blank argument", func(t *testing.T) {
		m := mustMethod(t, r, "Balloons:delete")
		assert.Equal(t, []string{"self", "arg0"}, m.Signature().Args)
	})
}

func TestMethodServeHTTP(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	r := router.NewRouter()
	b := &Balloons{items: []Balloon{{Color: "red"}}}
	require.NoError(t, Register(r, b, &Config{Logger: zap.New(core)}))
	require.NoError(t, Register(r, &Kites{}, nil))

	t.Run("index", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/balloons/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"color":"red","helium":false}]`, w.Body.String())
	})

	t.Run("converted argument", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/balloons/0")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"color":"red","helium":false}`, w.Body.String())
	})

	t.Run("abort", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/balloons/7")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"code":404,"message":"no such balloon"}`, w.Body.String())
	})

	t.Run("post", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/balloons/big/party/blue/true")
		assert.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, 2, b.Count())
		assert.Equal(t, Balloon{Color: "big/party/blue", Helium: true}, b.items[1])
	})

	t.Run("unconvertible argument", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/balloons/big/party/blue/maybe")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("handler error", func(t *testing.T) {
		w := serve(r, http.MethodDelete, "/balloons/0")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"code":500,"message":"Internal Server Error"}`, w.Body.String())
		assert.Equal(t, 1, logs.FilterMessage("view: handler failed").Len())
	})

	t.Run("uuid argument", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/kites/6ba7b810-9dad-11d1-80b4-00c04fd430c8")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`, w.Body.String())

		assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/kites/not-a-uuid").Code)
	})

	t.Run("float argument", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/kites/show_color/green/0.5")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		w := serve(r, http.MethodPut, "/balloons/")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestMethodLogsRequestID(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	r := router.NewRouter()
	r.Use(router.RequestIDs(true))
	require.NoError(t, Register(r, &Balloons{}, &Config{Logger: zap.New(core)}))

	req := httptest.NewRequest(http.MethodDelete, "/balloons/0", nil)
	req.Header.Set(router.RequestIDHeader, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("view: handler failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
}

func TestConvertArg(t *testing.T) {
	t.Run("integer overflow", func(t *testing.T) {
		_, err := convertArg("300", reflect.TypeFor[int8]())
		assert.Error(t, err)
	})

	t.Run("unsigned", func(t *testing.T) {
		v, err := convertArg("42", reflect.TypeFor[uint16]())
		require.NoError(t, err)
		assert.Equal(t, uint16(42), v.Interface())
	})

	t.Run("named string", func(t *testing.T) {
		type color string
		v, err := convertArg("red", reflect.TypeFor[color]())
		require.NoError(t, err)
		assert.Equal(t, color("red"), v.Interface())
	})
}

func TestNaming(t *testing.T) {
	t.Run("snake case", func(t *testing.T) {
		tests := map[string]string{
			"Index":      "index",
			"ShowColor":  "show_color",
			"GetByID":    "get_by_id",
			"HTTPStatus": "http_status",
			"Inflate2":   "inflate2",
		}
		for in, want := range tests {
			assert.Equal(t, want, snakeCase(in), in)
		}
	})

	t.Run("default route base", func(t *testing.T) {
		assert.Equal(t, "balloons", defaultRouteBase("Balloons"))
		assert.Equal(t, "balloons", defaultRouteBase("BalloonsView"))
		assert.Equal(t, "view", defaultRouteBase("View"))
	})
}
