package view

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/google/uuid"
	"github.com/vitalvas/classyswagger/router"
	"github.com/vitalvas/classyswagger/swagger"
	"go.uber.org/zap"
)

// SelfArg is the name reported for the receiver in handler signatures.
const SelfArg = "self"

type argument struct {
	name string
	typ  reflect.Type
}

// Method is a registered view handler. It serves requests by converting the
// rule placeholders into the method arguments, and implements
// swagger.Handler.
type Method struct {
	receiver reflect.Value
	fn       reflect.Value

	name     string
	endpoint string
	verb     string
	pattern  string

	args     []argument
	defaults []string

	doc       string
	source    string
	sourceErr error

	owner  *swagger.Owner
	logger *zap.Logger
}

var _ swagger.Handler = (*Method)(nil)

// Name returns the snake_case method name, e.g. "index" or "show_color".
func (m *Method) Name() string {
	return m.name
}

// Endpoint returns the endpoint identifier, e.g. "Balloons:index".
func (m *Method) Endpoint() string {
	return m.endpoint
}

// Signature returns the receiver followed by the argument names.
func (m *Method) Signature() swagger.Signature {
	args := make([]string, 0, len(m.args)+1)
	args = append(args, SelfArg)
	for _, arg := range m.args {
		args = append(args, arg.name)
	}
	return swagger.Signature{Args: args, Defaults: m.defaults}
}

// Doc returns the method's doc comment.
func (m *Method) Doc() string {
	return m.doc
}

// Source returns the method declaration as written.
func (m *Method) Source() (string, error) {
	return m.source, m.sourceErr
}

// Owner describes the view type.
func (m *Method) Owner() *swagger.Owner {
	return m.owner
}

// ServeHTTP calls the method. Placeholder values that do not convert to
// the argument type answer 404. Errors returned by the method answer a JSON
// ErrorResponse; see Abort.
func (m *Method) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := router.Vars(r)

	in := make([]reflect.Value, 0, len(m.args)+3)
	in = append(in, m.receiver, reflect.ValueOf(w), reflect.ValueOf(r))

	for _, arg := range m.args {
		raw, ok := vars[arg.name]
		if !ok {
			http.NotFound(w, r)
			return
		}

		value, err := convertArg(raw, arg.typ)
		if err != nil {
			m.logger.Debug("view: argument conversion failed",
				zap.String("endpoint", m.endpoint),
				zap.String("arg", arg.name),
				zap.Error(err),
			)
			http.NotFound(w, r)
			return
		}
		in = append(in, value)
	}

	out := m.fn.Call(in)
	if err, _ := out[0].Interface().(error); err != nil {
		m.writeError(w, r, err)
	}
}

func (m *Method) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var se *StatusError
	if errors.As(err, &se) {
		router.ResponseJSON(w, se.Code, swagger.ErrorResponse{Code: se.Code, Message: se.Message})
		return
	}

	m.logger.Error("view: handler failed",
		zap.String("endpoint", m.endpoint),
		zap.String("path", r.URL.Path),
		zap.String("request_id", router.RequestID(r)),
		zap.Error(err),
	)
	router.ResponseJSON(w, http.StatusInternalServerError, swagger.ErrorResponse{
		Code:    http.StatusInternalServerError,
		Message: http.StatusText(http.StatusInternalServerError),
	})
}

func convertArg(raw string, t reflect.Type) (reflect.Value, error) {
	if t == uuidType {
		id, err := uuid.Parse(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(id), nil
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(f)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported argument type %s", t)
	}
	return v, nil
}
