package router

import (
	"net/http"
	"path"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Router registers rules to be matched and dispatches a handler.
//
// It implements the http.Handler interface, so it can be registered to serve
// requests:
//
//	r := router.NewRouter()
//	r.HandleFunc("/", handler)
//	http.ListenAndServe(":8080", r)
type Router struct {
	// NotFoundHandler is called when no rule matches.
	// If nil, http.NotFoundHandler() is used.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler is called when a rule matches the path
	// but not the method. If nil, a default 405 handler is used.
	// The Allow header is always set before this handler is invoked.
	MethodNotAllowedHandler http.Handler

	rules       []*Rule
	endpoints   map[string]*Rule
	middlewares []MiddlewareFunc

	// handlerCache caches the middleware-wrapped handler per rule
	// to avoid re-wrapping on every request.
	handlerCache sync.Map // map[*Rule]http.Handler
}

// NewRouter returns a new router instance.
func NewRouter() *Router {
	return &Router{
		endpoints: make(map[string]*Rule),
	}
}

// Handle registers a new rule for the pattern and handler. The endpoint
// defaults to the handler's function or type name.
func (r *Router) Handle(pattern string, handler http.Handler) *Rule {
	rule := &Rule{
		router:  r,
		raw:     pattern,
		methods: normalizeMethods(nil),
		handler: handler,
	}
	rule.pattern, rule.err = parsePattern(pattern)
	r.rules = append(r.rules, rule)

	if rule.err == nil {
		rule.Endpoint(r.uniqueEndpoint(handlerName(handler)))
	}
	return rule
}

// HandleFunc registers a new rule for the pattern and handler function.
func (r *Router) HandleFunc(pattern string, f func(http.ResponseWriter, *http.Request)) *Rule {
	return r.Handle(pattern, http.HandlerFunc(f))
}

// Rules returns the registered rules in registration order.
func (r *Router) Rules() []*Rule {
	return slices.Clone(r.rules)
}

// Lookup returns the handler registered under the endpoint identifier,
// without middleware applied.
func (r *Router) Lookup(endpoint string) (http.Handler, bool) {
	rule, ok := r.endpoints[endpoint]
	if !ok || rule.handler == nil {
		return nil, false
	}
	return rule.handler, true
}

// Rule returns the rule registered under the endpoint identifier.
func (r *Router) Rule(endpoint string) *Rule {
	return r.endpoints[endpoint]
}

// Use appends a MiddlewareFunc to the chain. Middleware is applied to
// matched handlers only.
func (r *Router) Use(mwf ...MiddlewareFunc) {
	r.middlewares = append(r.middlewares, mwf...)
}

// ServeHTTP dispatches the handler registered in the matched rule.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if cleaned := cleanPath(req.URL.Path); cleaned != req.URL.Path {
		u := *req.URL
		u.Path = cleaned
		u.RawPath = ""
		req = req.Clone(req.Context())
		req.URL = &u
	}

	var match Match
	if r.Match(req, &match) {
		handler := match.Handler
		if handler == nil {
			handler = http.NotFoundHandler()
		}
		handler.ServeHTTP(w, setRuleContext(req, match.Rule, match.Vars))
		return
	}

	if match.MatchErr == ErrMethodMismatch {
		w.Header().Set("Allow", strings.Join(r.allowedMethods(req.URL.Path), ", "))

		if req.Method == http.MethodOptions {
			w.Header().Set("Content-Length", strconv.Itoa(0))
			w.WriteHeader(http.StatusOK)
			return
		}

		handler := r.MethodNotAllowedHandler
		if handler == nil {
			handler = http.HandlerFunc(methodNotAllowed)
		}
		handler.ServeHTTP(w, req)
		return
	}

	handler := r.NotFoundHandler
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	handler.ServeHTTP(w, req)
}

// Match attempts to match the request against the router's rules.
// It distinguishes 404 Not Found from 405 Method Not Allowed by tracking
// method mismatches across rules.
func (r *Router) Match(req *http.Request, match *Match) bool {
	var methodMismatch bool

	for _, rule := range r.rules {
		if rule.Match(req, match) {
			// OPTIONS is answered by the router unless the handler
			// registered it explicitly.
			if req.Method == http.MethodOptions && !rule.explicitOptions() {
				methodMismatch = true
				continue
			}
			if match.Handler != nil && len(r.middlewares) > 0 {
				if cached, ok := r.handlerCache.Load(rule); ok {
					match.Handler = cached.(http.Handler)
				} else {
					wrapped := r.applyMiddleware(match.Handler)
					r.handlerCache.Store(rule, wrapped)
					match.Handler = wrapped
				}
			}
			return true
		}
		if match.MatchErr == ErrMethodMismatch {
			methodMismatch = true
		}
	}

	if methodMismatch {
		match.MatchErr = ErrMethodMismatch
		return false
	}

	match.MatchErr = ErrNotFound
	return false
}

// allowedMethods returns the sorted union of methods of all rules matching
// the path.
func (r *Router) allowedMethods(p string) []string {
	var allowed []string
	for _, rule := range r.rules {
		if !rule.matchesPath(p) {
			continue
		}
		for _, m := range rule.methods {
			if !slices.Contains(allowed, m) {
				allowed = append(allowed, m)
			}
		}
	}
	sort.Strings(allowed)
	return allowed
}

// uniqueEndpoint returns name, suffixed with a counter when it is already
// taken by another rule.
func (r *Router) uniqueEndpoint(name string) string {
	if name == "" {
		name = "endpoint"
	}
	if _, ok := r.endpoints[name]; !ok {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if _, ok := r.endpoints[candidate]; !ok {
			return candidate
		}
	}
}

// applyMiddleware wraps the handler with all registered middleware.
func (r *Router) applyMiddleware(handler http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i].Middleware(handler)
	}
	return handler
}

// cleanPath returns the canonical path for p, eliminating . and .. elements.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

// methodNotAllowed replies to the request with an HTTP 405 method not allowed.
func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}
