// Package router implements a rule-based HTTP request router whose URL
// patterns use angle-bracket placeholders with optional type converters.
//
// The routing table is inspectable: every registered Rule exposes its raw
// pattern, its allowed methods and an endpoint identifier, and the handler
// registered for an endpoint can be looked up by name. This is what the
// swagger package reads to synthesize documentation.
//
// # Rules
//
// Register handlers with a pattern, restrict methods and name the endpoint:
//
//	r := router.NewRouter()
//	r.HandleFunc("/balloons/<int:id>", showBalloon).
//	    Methods(http.MethodGet).
//	    Endpoint("Balloons:get")
//	http.ListenAndServe(":8080", r)
//
// A rule without explicit methods accepts GET. HEAD is added automatically
// whenever GET is allowed, and OPTIONS is always answered by the router
// with the Allow header of the matched path.
//
// # Placeholders
//
// Placeholders have the form <name> or <converter:name>:
//
//	string - any text without a slash (default)
//	int    - unsigned integer (e.g. 42)
//	float  - decimal number with a fractional part (e.g. 3.14)
//	uuid   - RFC 9562 UUID (e.g. 550e8400-e29b-41d4-a716-446655440000)
//	path   - like string but also accepts slashes
//
// Matched values are available via Vars:
//
//	id := router.Vars(r)["id"]
//
// A trailing slash in the pattern is optional when matching, so
// "/balloons/" matches both "/balloons" and "/balloons/".
//
// # Introspection
//
//	for _, rule := range r.Rules() {
//	    fmt.Println(rule.Pattern(), rule.GetMethods(), rule.GetEndpoint())
//	}
//	h, ok := r.Lookup("Balloons:get")
//
// Lookup returns the handler exactly as registered, before middleware is
// applied.
//
// # Middleware
//
//	r.Use(router.Recovery(func(r *http.Request, err any) {
//	    logger.Error("panic", zap.Any("error", err))
//	}))
//
// # Static Files
//
//	r.Static("/static", os.DirFS("public"))
//
// registers "/static/<path:filename>" under the "static" endpoint.
// Directory listings are never served.
package router
