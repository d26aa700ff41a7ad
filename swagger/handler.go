package swagger

import (
	"github.com/vitalvas/classyswagger/router"
)

// Rule is a registered URL pattern as seen by the generator.
type Rule struct {
	// Pattern uses the host placeholder syntax, e.g. "/balloons/<int:id>".
	Pattern string
	// Methods is the set of HTTP methods the rule accepts.
	Methods []string
	// Endpoint is the namespace-qualified endpoint identifier,
	// e.g. "Balloons:index".
	Endpoint string
}

// Signature is the call signature of a handler. Args are ordered; the
// trailing len(Defaults) args have default values.
type Signature struct {
	Args     []string
	Defaults []string
}

// Owner describes the type a handler method belongs to.
type Owner struct {
	Name string
	Doc  string
	// Model is a value of the data model associated with the type, or nil.
	Model any
}

// Handler is the introspection surface of a registered handler. Adapters
// (see package view) populate it; decorators and middleware are already
// stripped.
type Handler interface {
	// Name is the handler's conventional name, e.g. "index" or "get".
	Name() string
	Signature() Signature
	Doc() string
	// Source returns the handler's own source text.
	Source() (string, error)
	// Owner returns nil when the handler cannot be traced to a type.
	Owner() *Owner
}

// App is the read-only view of the host application used by the generator.
type App interface {
	Rules() []Rule
	// Handler returns nil when the endpoint has no introspectable handler.
	Handler(endpoint string) Handler
}

// RouterApp adapts a router.Router to App.
type RouterApp struct {
	router *router.Router
}

// NewRouterApp returns an App reading the rule table of r.
func NewRouterApp(r *router.Router) *RouterApp {
	return &RouterApp{router: r}
}

// Rules returns the router's rules in registration order. Rules the router
// rejected never match a request and are left out.
func (a *RouterApp) Rules() []Rule {
	rules := a.router.Rules()
	out := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.GetError() != nil {
			continue
		}
		out = append(out, Rule{
			Pattern:  rule.Pattern(),
			Methods:  rule.GetMethods(),
			Endpoint: rule.GetEndpoint(),
		})
	}
	return out
}

// Handler returns the handler registered for endpoint if it implements
// Handler.
func (a *RouterApp) Handler(endpoint string) Handler {
	h, ok := a.router.Lookup(endpoint)
	if !ok {
		return nil
	}
	if sh, ok := h.(Handler); ok {
		return sh
	}
	return nil
}
