// Package view registers the methods of a type as routes, one rule per
// handler method, and exposes them to package swagger for documentation.
//
//	// Balloons are fun.
//	type Balloons struct{}
//
//	// Index gets all the balloons.
//	func (b *Balloons) Index(w http.ResponseWriter, r *http.Request) error {
//	    return view.JSON(w, b.all())
//	}
//
//	// Post inflates a balloon.
//	func (b *Balloons) Post(w http.ResponseWriter, r *http.Request, color string) error {
//	    ...
//	}
//
//	view.Register(r, &Balloons{}, nil)
//	// GET  /balloons/         Balloons:index
//	// POST /balloons/<color>  Balloons:post
//
// Argument names, doc comments and handler source are read back from the
// Go files recorded in the binary. Binaries built with -trimpath, or run
// away from their sources, register the same routes with arguments named
// arg0, arg1... and no documentation.
package view
