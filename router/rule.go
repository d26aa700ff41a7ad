package router

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime"
	"slices"
	"strings"
)

// Rule binds a URL pattern and a set of methods to a handler under an
// endpoint identifier.
type Rule struct {
	router   *Router
	pattern  *pattern
	raw      string
	methods  []string
	endpoint string
	handler  http.Handler
	err      error

	// explicitOpts is set when OPTIONS was requested by the caller
	// rather than added implicitly.
	explicitOpts bool
}

// Methods replaces the methods the rule accepts. HEAD is added when GET is
// present and OPTIONS is always added, mirroring what the router answers.
func (r *Rule) Methods(methods ...string) *Rule {
	r.explicitOpts = false
	for _, m := range methods {
		if strings.EqualFold(m, http.MethodOptions) {
			r.explicitOpts = true
		}
	}
	r.methods = normalizeMethods(methods)
	return r
}

// explicitOptions reports whether the handler answers OPTIONS itself.
func (r *Rule) explicitOptions() bool {
	return r.explicitOpts
}

// Endpoint sets the endpoint identifier of the rule. Endpoint identifiers are
// unique per router; reusing one records an error on the rule.
func (r *Rule) Endpoint(name string) *Rule {
	if r.err != nil {
		return r
	}
	if name == r.endpoint {
		return r
	}
	if existing, ok := r.router.endpoints[name]; ok && existing != r {
		r.err = fmt.Errorf("router: endpoint %q already registered for %q", name, existing.raw)
		return r
	}
	if r.endpoint != "" && r.router.endpoints[r.endpoint] == r {
		delete(r.router.endpoints, r.endpoint)
	}
	r.endpoint = name
	r.router.endpoints[name] = r
	return r
}

// Pattern returns the raw pattern exactly as registered.
func (r *Rule) Pattern() string {
	return r.raw
}

// GetMethods returns a copy of the methods the rule accepts.
func (r *Rule) GetMethods() []string {
	return slices.Clone(r.methods)
}

// GetEndpoint returns the endpoint identifier of the rule.
func (r *Rule) GetEndpoint() string {
	return r.endpoint
}

// GetHandler returns the handler as registered, without middleware.
func (r *Rule) GetHandler() http.Handler {
	return r.handler
}

// GetVars returns the placeholders declared by the pattern, in order.
func (r *Rule) GetVars() []Var {
	if r.pattern == nil {
		return nil
	}
	return slices.Clone(r.pattern.vars)
}

// GetError returns the error recorded while building the rule, if any.
func (r *Rule) GetError() error {
	return r.err
}

// Match reports whether the rule matches the request. On a path match with
// a method mismatch, match.MatchErr is set to ErrMethodMismatch.
func (r *Rule) Match(req *http.Request, match *Match) bool {
	if r.err != nil || r.pattern == nil {
		return false
	}

	vars, ok := r.pattern.match(req.URL.Path)
	if !ok {
		return false
	}

	if !slices.Contains(r.methods, req.Method) {
		match.MatchErr = ErrMethodMismatch
		return false
	}

	match.Rule = r
	match.Handler = r.handler
	match.Vars = vars
	match.MatchErr = nil
	return true
}

// matchesPath reports whether the rule pattern matches path regardless of
// the request method.
func (r *Rule) matchesPath(path string) bool {
	if r.err != nil || r.pattern == nil {
		return false
	}
	_, ok := r.pattern.match(path)
	return ok
}

// normalizeMethods upper-cases methods, removes duplicates and adds the
// implicit HEAD and OPTIONS methods.
func normalizeMethods(methods []string) []string {
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}

	out := make([]string, 0, len(methods)+2)
	for _, m := range methods {
		m = strings.ToUpper(m)
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	if slices.Contains(out, http.MethodGet) && !slices.Contains(out, http.MethodHead) {
		out = append(out, http.MethodHead)
	}
	if !slices.Contains(out, http.MethodOptions) {
		out = append(out, http.MethodOptions)
	}
	return out
}

// handlerName derives a default endpoint identifier from the handler: the
// function name for plain functions, the type name otherwise.
func handlerName(h http.Handler) string {
	if h == nil {
		return ""
	}
	if hf, ok := h.(http.HandlerFunc); ok {
		fn := runtime.FuncForPC(reflect.ValueOf(hf).Pointer())
		if fn == nil {
			return ""
		}
		name := fn.Name()
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		return name
	}

	t := reflect.TypeOf(h)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
