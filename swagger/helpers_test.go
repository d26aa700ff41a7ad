package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	name      string
	sig       Signature
	doc       string
	source    string
	sourceErr error
	owner     *Owner
	panicDoc  bool
}

func (h *fakeHandler) Name() string { return h.name }
func (h *fakeHandler) Signature() Signature { return h.sig }
func (h *fakeHandler) Owner() *Owner { return h.owner }
func (h *fakeHandler) Source() (string, error) { return h.source, h.sourceErr }

func (h *fakeHandler) Doc() string {
	if h.panicDoc {
		panic("doc unavailable")
	}
	return h.doc
}

type fakeApp struct {
	rules    []Rule
	handlers map[string]Handler
}

func (a *fakeApp) Rules() []Rule {
	return a.rules
}

func (a *fakeApp) Handler(endpoint string) Handler {
	if h, ok := a.handlers[endpoint]; ok {
		return h
	}
	return nil
}

func (a *fakeApp) add(pattern, endpoint string, h Handler, methods ...string) {
	if len(methods) == 0 {
		methods = []string{"GET", "HEAD", "OPTIONS"}
	}
	a.rules = append(a.rules, Rule{Pattern: pattern, Methods: methods, Endpoint: endpoint})
	if h != nil {
		if a.handlers == nil {
			a.handlers = make(map[string]Handler)
		}
		a.handlers[endpoint] = h
	}
}

var balloonsOwner = &Owner{Name: "Balloons", Doc: "Balloons are fun."}

const jsonIndexSource = `func (b *Balloons) Index(w http.ResponseWriter, r *http.Request) error {
	return view.JSON(w, b.all())
}`

const plainIndexSource = `func (b *Balloons) Index(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}`

func mustBuild(t *testing.T, app App, opts Options) *Document {
	t.Helper()

	if opts.Title == "" {
		opts.Title = "Balloons API"
	}
	if opts.Version == "" {
		opts.Version = "1.0"
	}

	g, err := New(opts)
	require.NoError(t, err)

	doc, err := g.Build(app)
	require.NoError(t, err)
	return doc
}

func toJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
