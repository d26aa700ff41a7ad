// Package swagger generates a Swagger 2.0 document by introspecting the
// rules and handlers registered on a router.
//
// Every rule becomes one operation under its normalized path template.
// Handlers that implement Handler (see package view) contribute their
// documentation, path parameters, tag and inferred success response:
//
//	r := router.NewRouter()
//	if err := view.Register(r, &Balloons{}, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := swagger.Publish(r, swagger.Options{
//	    Title:   "Balloons",
//	    Version: "1.0",
//	}, nil); err != nil {
//	    log.Fatal(err)
//	}
//	// GET /swagger.json serves the document, rebuilt per request.
//
// Handler documentation is split into a summary (first line), a
// description, and an optional structured block after a "---" line that an
// ExtraFunc such as YAMLExtensions may consume.
//
// See: https://swagger.io/specification/v2/
package swagger
