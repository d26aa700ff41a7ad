package view

import (
	"fmt"
	"net/http"

	"github.com/vitalvas/classyswagger/router"
)

// JSON writes v as a 200 JSON response. Handlers return its result:
//
//	func (b *Balloons) Index(w http.ResponseWriter, r *http.Request) error {
//	    return view.JSON(w, b.all())
//	}
//
// The returned error is always nil.
func JSON(w http.ResponseWriter, v any) error {
	router.ResponseJSON(w, http.StatusOK, v)
	return nil
}

// StatusError is an error answered with its own status code.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

// Abort returns a StatusError. An empty message defaults to the status
// text.
func Abort(code int, message string) error {
	if message == "" {
		message = http.StatusText(code)
	}
	return &StatusError{Code: code, Message: message}
}
