package swagger

// ParamType is the Swagger type and format of a path parameter.
type ParamType struct {
	Type   string
	Format string
}

// Converters maps placeholder converters to parameter types.
type Converters map[string]ParamType

// DefaultConverters returns the converter table of the router package.
func DefaultConverters() Converters {
	return Converters{
		"int":    {Type: "integer", Format: "int32"},
		"float":  {Type: "number", Format: "float"},
		"uuid":   {Type: "string", Format: "uuid"},
		"string": {Type: "string"},
		"path":   {Type: "string"},
	}
}

// lookup returns the type for conv, falling back to a plain string.
func (c Converters) lookup(conv string) ParamType {
	if pt, ok := c[conv]; ok && conv != "" {
		return pt
	}
	if pt, ok := c["string"]; ok {
		return pt
	}
	return ParamType{Type: "string"}
}

// ResolveParameters derives the path parameters of a handler bound to rule.
//
// The trailing args aligned with the signature defaults are optional, the
// others required; when there are more defaults than args, every arg is
// required. A leading required arg named self is the receiver and is
// dropped. Types come from the converters declared by the rule pattern.
// Required parameters come first, then optional ones, each in signature
// order. Args without a placeholder in the pattern are not parameters.
func ResolveParameters(rule Rule, h Handler, converters Converters, self string) []Parameter {
	params := []Parameter{}
	if h == nil {
		return params
	}
	if converters == nil {
		converters = DefaultConverters()
	}

	sig := h.Signature()
	args := sig.Args

	nRequired := len(args) - len(sig.Defaults)
	if nRequired < 0 {
		nRequired = len(args)
	}
	required, optional := args[:nRequired], args[nRequired:]

	if len(required) > 0 && required[0] == self {
		required = required[1:]
	}

	declared := placeholderConverters(rule.Pattern)
	seen := make(map[string]bool, len(args))

	add := func(names []string, isRequired bool) {
		for _, name := range names {
			conv, ok := declared[name]
			if !ok || seen[name] {
				continue
			}
			seen[name] = true

			pt := converters.lookup(conv)
			params = append(params, Parameter{
				Name:     name,
				In:       "path",
				Type:     pt.Type,
				Format:   pt.Format,
				Required: isRequired,
			})
		}
	}

	add(required, true)
	add(optional, false)

	return params
}
