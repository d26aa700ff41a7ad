package swagger

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

// DefaultStaticPrefix is the rule prefix of the router's static files.
const DefaultStaticPrefix = "/static"

// DefaultSelfName is the receiver argument name dropped from parameters.
const DefaultSelfName = "self"

// DefaultVerbs is the verb priority used to pick the documented method of
// a rule.
var DefaultVerbs = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Options configures a Generator. Zero fields take their defaults.
type Options struct {
	Title    string
	Version  string
	BasePath string

	// IgnorePrefixes lists rule pattern prefixes left out of the document.
	// Defaults to DefaultStaticPrefix.
	IgnorePrefixes []string

	// Verbs is the priority list of documented methods. A rule is
	// documented under the first verb it accepts; rules accepting none are
	// skipped. Defaults to DefaultVerbs.
	Verbs []string

	Converters Converters
	SelfName   string

	// ErrorModel is documented by the "default" response. Defaults to
	// ErrorResponse.
	ErrorModel any

	Inferer      StatusInferer
	ExtraHandler ExtraFunc
	Logger       *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.IgnorePrefixes == nil {
		o.IgnorePrefixes = []string{DefaultStaticPrefix}
	} else {
		o.IgnorePrefixes = slices.Clone(o.IgnorePrefixes)
	}
	verbs := o.Verbs
	if len(verbs) == 0 {
		verbs = DefaultVerbs
	}
	o.Verbs = make([]string, len(verbs))
	for i, verb := range verbs {
		o.Verbs[i] = strings.ToUpper(verb)
	}
	if o.Converters == nil {
		o.Converters = DefaultConverters()
	}
	if o.SelfName == "" {
		o.SelfName = DefaultSelfName
	}
	if o.ErrorModel == nil {
		o.ErrorModel = ErrorResponse{}
	}
	if o.Inferer == nil {
		o.Inferer = JSONReturnInferer{Funcs: DefaultJSONFuncs}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Validate checks the options.
func (o Options) Validate() error {
	err := validation.ValidateStruct(&o,
		validation.Field(&o.Title, validation.Required),
		validation.Field(&o.Version, validation.Required),
		validation.Field(&o.BasePath, validation.By(absolutePath)),
		validation.Field(&o.IgnorePrefixes, validation.Each(validation.Required, validation.By(absolutePath))),
		validation.Field(&o.Verbs, validation.Each(validation.In(
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		))),
	)
	if err != nil {
		return fmt.Errorf("swagger: invalid options: %w", err)
	}
	return nil
}

func absolutePath(value any) error {
	s, _ := value.(string)
	if s != "" && !strings.HasPrefix(s, "/") {
		return errors.New("must start with a slash")
	}
	return nil
}
