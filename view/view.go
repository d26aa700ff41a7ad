package view

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/vitalvas/classyswagger/router"
	"github.com/vitalvas/classyswagger/swagger"
	"go.uber.org/zap"
)

var (
	responseWriterType = reflect.TypeOf((*http.ResponseWriter)(nil)).Elem()
	requestType        = reflect.TypeOf((*http.Request)(nil))
	errorType          = reflect.TypeOf((*error)(nil)).Elem()
	uuidType           = reflect.TypeOf(uuid.UUID{})
)

// ErrNotPointer is returned by Register for values that are not non-nil
// pointers to a named type.
var ErrNotPointer = errors.New("view: value must be a non-nil pointer to a named type")

// ErrNoHandlers is returned by Register when the type has no handler
// methods.
var ErrNoHandlers = errors.New("view: type has no handler methods")

// ErrEndpointTaken is returned by Register when one of the view's endpoints
// is already registered on the router.
var ErrEndpointTaken = errors.New("view: endpoint already registered")

// specialMethods maps method names to the HTTP method they answer. These
// methods are routed at the base itself; other handlers get a sub-path
// named after them and answer GET.
var specialMethods = map[string]string{
	"Index":  http.MethodGet,
	"Get":    http.MethodGet,
	"Post":   http.MethodPost,
	"Put":    http.MethodPut,
	"Patch":  http.MethodPatch,
	"Delete": http.MethodDelete,
}

// placeholderRegexp matches <name> and <converter:name> placeholders.
var placeholderRegexp = regexp.MustCompile(`<(?:[^<>:]+:)?([^<>:]+)>`)

var duplicateSlashes = regexp.MustCompile(`/{2,}`)

// Config configures Register.
type Config struct {
	// RoutePrefix is prepended to every rule, e.g. "/api".
	RoutePrefix string
	// RouteBase overrides the base of the rules. It may contain
	// placeholders, e.g. "/<int:balloon_id>/balloon".
	RouteBase string
	Logger    *zap.Logger
}

// RouteBaser can be implemented by views to choose their route base.
// Config.RouteBase takes precedence.
type RouteBaser interface {
	RouteBase() string
}

// Defaulter can be implemented by views to declare default values for the
// trailing arguments of their handlers, keyed by method name. Arguments
// with defaults are documented as optional.
//
//	func (b *Balloons) Defaults() map[string][]string {
//	    return map[string][]string{"Post": {"red", "true"}}
//	}
type Defaulter interface {
	Defaults() map[string][]string
}

// Modeler can be implemented by views to declare the data model served by
// their Index and Get handlers.
type Modeler interface {
	Model() any
}

// Register registers a rule for every handler method of v on r.
//
// A handler method has the form
//
//	func (v *T) Name(w http.ResponseWriter, r *http.Request, args...) error
//
// where args are strings, booleans, integers, floats or uuid.UUID. Every
// argument not already part of the route base becomes a placeholder.
// Index, Get, Post, Put, Patch and Delete are routed at the base; any other
// handler is routed under its snake_case name and answers GET.
//
// The route base defaults to the lower-cased type name without a "View"
// suffix. Endpoints are named "Type:method", e.g. "Balloons:index".
func Register(r *router.Router, v any, cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Type().Elem().Name() == "" {
		return ErrNotPointer
	}

	t := rv.Type()
	typeName := t.Elem().Name()

	base := cfg.RouteBase
	if base == "" {
		if rb, ok := v.(RouteBaser); ok {
			base = rb.RouteBase()
		}
	}
	if base == "" {
		base = defaultRouteBase(typeName)
	}

	var defaults map[string][]string
	if d, ok := v.(Defaulter); ok {
		defaults = d.Defaults()
	}

	owner := &swagger.Owner{Name: typeName}
	if m, ok := v.(Modeler); ok {
		owner.Model = m.Model()
	}

	src := newSourceIndex()
	var methods []*Method

	for i := range t.NumMethod() {
		rm := t.Method(i)
		if !isHandler(rm.Type) {
			continue
		}

		args := make([]argument, 0, rm.Type.NumIn()-3)
		for j := 3; j < rm.Type.NumIn(); j++ {
			at := rm.Type.In(j)
			if !supportedArg(at) {
				return fmt.Errorf("view: %s.%s: unsupported argument type %s", typeName, rm.Name, at)
			}
			args = append(args, argument{typ: at})
		}

		name := snakeCase(rm.Name)
		m := &Method{
			receiver: rv,
			fn:       rm.Func,
			name:     name,
			endpoint: typeName + ":" + name,
			args:     args,
			defaults: defaults[rm.Name],
			owner:    owner,
			logger:   logger,
		}

		if len(m.defaults) > len(args) {
			logger.Warn("view: more defaults than arguments",
				zap.String("endpoint", m.endpoint),
				zap.Int("defaults", len(m.defaults)),
				zap.Int("args", len(args)),
			)
		}

		src.describe(m, t, rm)
		if m.sourceErr != nil {
			logger.Warn("view: handler source unavailable",
				zap.String("endpoint", m.endpoint),
				zap.Error(m.sourceErr),
			)
		}

		m.verb = http.MethodGet
		segment := "/" + name + "/"
		if verb, ok := specialMethods[rm.Name]; ok {
			m.verb = verb
			segment = "/"
		}
		m.pattern = buildPattern(cfg.RoutePrefix, base, segment, args)

		methods = append(methods, m)
	}

	if len(methods) == 0 {
		return fmt.Errorf("%w: %s", ErrNoHandlers, typeName)
	}

	owner.Doc = src.typeDoc(typeName)

	// Nothing is registered unless every rule is accepted.
	for _, m := range methods {
		if err := router.ValidatePattern(m.pattern); err != nil {
			return fmt.Errorf("view: register %s: %w", m.endpoint, err)
		}
		if r.Rule(m.endpoint) != nil {
			return fmt.Errorf("%w: %s", ErrEndpointTaken, m.endpoint)
		}
	}

	for _, m := range methods {
		rule := r.Handle(m.pattern, m).Methods(m.verb).Endpoint(m.endpoint)
		if err := rule.GetError(); err != nil {
			return fmt.Errorf("view: register %s: %w", m.endpoint, err)
		}
		logger.Debug("view: registered handler",
			zap.String("endpoint", m.endpoint),
			zap.String("rule", m.pattern),
			zap.String("method", m.verb),
		)
	}

	return nil
}

// isHandler reports whether a method type, receiver included, has the
// handler form.
func isHandler(mt reflect.Type) bool {
	return mt.NumIn() >= 3 &&
		mt.In(1) == responseWriterType &&
		mt.In(2) == requestType &&
		mt.NumOut() == 1 &&
		mt.Out(0) == errorType &&
		!mt.IsVariadic()
}

func supportedArg(t reflect.Type) bool {
	if t == uuidType {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// converterFor returns the placeholder converter for an argument type;
// strings and booleans are untyped.
func converterFor(t reflect.Type) string {
	if t == uuidType {
		return "uuid"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	}
	return ""
}

func defaultRouteBase(typeName string) string {
	name := strings.TrimSuffix(typeName, "View")
	if name == "" {
		name = typeName
	}
	return strings.ToLower(name)
}

// buildPattern joins the rule parts and appends a placeholder for every
// argument the base does not already declare.
func buildPattern(prefix, base, segment string, args []argument) string {
	declared := make(map[string]bool)
	for _, m := range placeholderRegexp.FindAllStringSubmatch(base, -1) {
		declared[m[1]] = true
	}

	parts := []string{prefix, base, segment}
	for _, arg := range args {
		if declared[arg.name] {
			continue
		}
		if conv := converterFor(arg.typ); conv != "" {
			parts = append(parts, "<"+conv+":"+arg.name+">")
		} else {
			parts = append(parts, "<"+arg.name+">")
		}
	}

	return duplicateSlashes.ReplaceAllString("/"+strings.Join(parts, "/"), "/")
}

// snakeCase converts a Go method name: "ShowColor" becomes "show_color",
// "GetByID" becomes "get_by_id".
func snakeCase(s string) string {
	runes := []rune(s)

	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
