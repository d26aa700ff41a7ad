package swagger

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

// Generator builds Swagger documents from an App.
type Generator struct {
	opts   Options
	logger *zap.Logger
}

// New returns a Generator for opts.
func New(opts Options) (*Generator, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Generator{
		opts:   opts,
		logger: opts.Logger,
	}, nil
}

// Options returns the effective options of the generator.
func (g *Generator) Options() Options {
	return g.opts
}

// BuildDocument builds a document for app with default options.
func BuildDocument(app App, title, version, basePath string) (*Document, error) {
	g, err := New(Options{Title: title, Version: version, BasePath: basePath})
	if err != nil {
		return nil, err
	}
	return g.Build(app)
}

// NewDocument returns an empty document envelope.
func NewDocument(title, version, basePath string) *Document {
	return &Document{
		Swagger:  Version,
		Info:     Info{Title: title, Version: version},
		BasePath: basePath,
		Paths:    map[string]PathItem{},
	}
}

type ruleJob struct {
	rule Rule
	path string
	verb string
}

type ruleResult struct {
	op     *Operation
	tag    Tag
	name   string
	status int
	model  any
}

// Build reads the rules of app and assembles a document. Rules are
// documented concurrently; a failure inside one rule degrades that rule's
// operation and is logged. A malformed rule pattern aborts the build with
// ErrMalformedPattern.
func (g *Generator) Build(app App) (*Document, error) {
	jobs, err := g.plan(app.Rules())
	if err != nil {
		return nil, err
	}

	results := iter.Map(jobs, func(job *ruleJob) ruleResult {
		return g.documentRule(app, job)
	})

	doc := NewDocument(g.opts.Title, g.opts.Version, g.opts.BasePath)
	defs := NewSchemaGenerator()
	tags := newTagSet()

	for i, res := range results {
		job := jobs[i]

		res.op.Responses = g.responses(res, defs)

		item, ok := doc.Paths[job.path]
		if !ok {
			item = PathItem{}
			doc.Paths[job.path] = item
		}
		if _, dup := item[job.verb]; dup {
			g.logger.Debug("swagger: operation replaced by later rule",
				zap.String("path", job.path),
				zap.String("verb", job.verb),
				zap.String("endpoint", job.rule.Endpoint),
			)
		}
		item[job.verb] = res.op

		tags.add(res.tag)
	}

	if defs := defs.Definitions(); len(defs) > 0 {
		doc.Definitions = defs
	}
	doc.Tags = tags.list()

	return doc, nil
}

// plan filters the rules and normalizes their patterns.
func (g *Generator) plan(rules []Rule) ([]ruleJob, error) {
	jobs := make([]ruleJob, 0, len(rules))
	for _, rule := range rules {
		if g.ignored(rule.Pattern) || tagName(rule.Endpoint) == EndpointNamespace {
			continue
		}

		verb := g.selectVerb(rule.Methods)
		if verb == "" {
			g.logger.Debug("swagger: rule has no documented verb",
				zap.String("rule", rule.Pattern),
				zap.Strings("methods", rule.Methods),
			)
			continue
		}

		path, err := NormalizePath(rule.Pattern)
		if err != nil {
			return nil, err
		}

		jobs = append(jobs, ruleJob{rule: rule, path: path, verb: verb})
	}
	return jobs, nil
}

func (g *Generator) ignored(pattern string) bool {
	for _, prefix := range g.opts.IgnorePrefixes {
		if strings.HasPrefix(pattern, prefix) {
			return true
		}
	}
	return false
}

func (g *Generator) selectVerb(methods []string) string {
	for _, verb := range g.opts.Verbs {
		if slices.ContainsFunc(methods, func(m string) bool { return strings.EqualFold(m, verb) }) {
			return strings.ToLower(verb)
		}
	}
	return ""
}

// documentRule builds the operation of a single rule. It touches no shared
// state and may run concurrently with other rules.
func (g *Generator) documentRule(app App, job *ruleJob) (res ruleResult) {
	name := tagName(job.rule.Endpoint)
	res = ruleResult{
		op:  newOperation(name),
		tag: Tag{Name: name},
	}

	defer func() {
		if rec := recover(); rec != nil {
			g.logger.Error("swagger: failed to document rule",
				zap.String("rule", job.rule.Pattern),
				zap.String("endpoint", job.rule.Endpoint),
				zap.String("panic", fmt.Sprint(rec)),
			)
			res.op = newOperation(name)
			res.status = StatusUnknown
			res.model = nil
		}
	}()

	h := app.Handler(job.rule.Endpoint)
	if h == nil {
		g.logger.Debug("swagger: endpoint has no introspectable handler",
			zap.String("endpoint", job.rule.Endpoint),
		)
		return res
	}

	res.op.Parameters = ResolveParameters(job.rule, h, g.opts.Converters, g.opts.SelfName)

	doc := ParseDocstring(h.Doc())
	res.op.Summary = doc.Summary
	res.op.Description = doc.Description
	res.op.Extra = doc.Extra

	if doc.Extra != "" && g.opts.ExtraHandler != nil {
		if err := g.opts.ExtraHandler(res.op, doc.Extra); err != nil {
			g.logger.Warn("swagger: extra block rejected",
				zap.String("endpoint", job.rule.Endpoint),
				zap.Error(err),
			)
		}
	}

	if owner := h.Owner(); owner != nil {
		res.tag.Description = owner.Doc
		res.model = owner.Model
	} else {
		g.logger.Warn("swagger: handler is not bound to a type",
			zap.String("endpoint", job.rule.Endpoint),
		)
	}

	res.name = h.Name()

	source, err := h.Source()
	if err != nil {
		g.logger.Debug("swagger: handler source unavailable",
			zap.String("endpoint", job.rule.Endpoint),
			zap.Error(err),
		)
		return res
	}
	res.status = g.opts.Inferer.InferSuccessStatus(source)

	return res
}

// responses documents the inferred success status and the error model.
// Nothing is documented when the status is unknown.
func (g *Generator) responses(res ruleResult, defs *SchemaGenerator) map[string]*Response {
	if res.status == StatusUnknown {
		return nil
	}

	success := &Response{Description: "Success"}
	if res.status >= http.StatusMultipleChoices || res.status < http.StatusOK {
		success.Description = http.StatusText(res.status)
	}

	if res.model != nil {
		switch res.name {
		case "index":
			success.Schema = &Schema{Type: "array", Items: defs.Generate(res.model)}
		case "get":
			success.Schema = defs.Generate(res.model)
		}
	}

	return map[string]*Response{
		strconv.Itoa(res.status): success,
		"default": {
			Description: "Unexpected error",
			Schema:      defs.Generate(g.opts.ErrorModel),
		},
	}
}

func newOperation(tag string) *Operation {
	return &Operation{
		Tags:       []string{tag},
		Parameters: []Parameter{},
	}
}
