package swagger

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"github.com/vitalvas/classyswagger/router"
	"go.uber.org/zap"
)

// DefaultJSONPath is where the Swagger document is served by default.
const DefaultJSONPath = "/swagger.json"

// EndpointNamespace is the endpoint namespace of the published routes.
// Rules in it are never documented.
const EndpointNamespace = "swagger"

// Endpoint names of the published routes.
const (
	EndpointJSON     = EndpointNamespace + ":json"
	EndpointYAML     = EndpointNamespace + ":yaml"
	EndpointOpenAPI3 = EndpointNamespace + ":openapi3"
	EndpointDocs     = EndpointNamespace + ":docs"
)

// PublishConfig selects the routes registered by Publish. Empty paths are
// not registered, except JSONPath which defaults to DefaultJSONPath; set it
// to "-" to disable.
type PublishConfig struct {
	JSONPath     string
	YAMLPath     string
	OpenAPI3Path string
	// DocsPath serves a Swagger UI page reading the JSON document.
	DocsPath string
}

func (cfg PublishConfig) jsonPath() string {
	switch cfg.JSONPath {
	case "":
		return DefaultJSONPath
	case "-":
		return ""
	}
	return cfg.JSONPath
}

// Publish builds a Generator for opts and registers its routes on r.
func Publish(r *router.Router, opts Options, cfg *PublishConfig) (*Generator, error) {
	g, err := New(opts)
	if err != nil {
		return nil, err
	}
	g.Publish(r, cfg)
	return g, nil
}

// Publish registers the document routes on r. The published paths are
// added to the generator's ignore list. The document is rebuilt from the
// live rule table on every request.
//
// The config parameter is optional; pass nil for defaults:
//
//	g.Publish(r, nil)
//	// GET /swagger.json
func (g *Generator) Publish(r *router.Router, cfg *PublishConfig) {
	if cfg == nil {
		cfg = &PublishConfig{}
	}

	jsonPath := cfg.jsonPath()
	for _, path := range []string{jsonPath, cfg.YAMLPath, cfg.OpenAPI3Path, cfg.DocsPath} {
		if path != "" {
			g.opts.IgnorePrefixes = append(g.opts.IgnorePrefixes, path)
		}
	}

	app := NewRouterApp(r)

	if jsonPath != "" {
		g.handle(r, jsonPath, EndpointJSON, "application/json", func(doc *Document) ([]byte, error) {
			return json.MarshalIndent(doc, "", "  ")
		}, app)
	}

	if cfg.YAMLPath != "" {
		g.handle(r, cfg.YAMLPath, EndpointYAML, "application/x-yaml", MarshalYAML, app)
	}

	if cfg.OpenAPI3Path != "" {
		g.handle(r, cfg.OpenAPI3Path, EndpointOpenAPI3, "application/json", func(doc *Document) ([]byte, error) {
			v3, err := ToOpenAPI3(doc)
			if err != nil {
				return nil, err
			}
			return json.MarshalIndent(v3, "", "  ")
		}, app)
	}

	if cfg.DocsPath != "" && jsonPath != "" {
		page := []byte(swaggerUITemplate(g.opts.Title, jsonPath))
		r.HandleFunc(cfg.DocsPath, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(page)
		}).Methods(http.MethodGet).Endpoint(EndpointDocs)
	}
}

type encodeFunc func(doc *Document) ([]byte, error)

func (g *Generator) handle(r *router.Router, path, endpoint, contentType string, encode encodeFunc, app App) {
	r.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		data, err := g.render(app, encode)
		if err != nil {
			g.logger.Error("swagger: failed to build document",
				zap.String("path", req.URL.Path),
				zap.String("request_id", router.RequestID(req)),
				zap.Error(err),
			)
			http.Error(w, "failed to build swagger document", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}).Methods(http.MethodGet).Endpoint(endpoint)
}

func (g *Generator) render(app App, encode encodeFunc) (data []byte, err error) {
	defer func() {
		if rv := recover(); rv != nil {
			err = fmt.Errorf("swagger: panic: %v", rv)
		}
	}()

	doc, err := g.Build(app)
	if err != nil {
		return nil, err
	}
	return encode(doc)
}

func swaggerUITemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"});
</script>
</body>
</html>`, html.EscapeString(title), specPath)
}
