package router

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// converterPatterns maps placeholder converters to the regexp that a path
// segment must satisfy.
var converterPatterns = map[string]string{
	"string": `[^/]+`,
	"int":    `[0-9]+`,
	"float":  `[0-9]+\.[0-9]+`,
	"uuid":   `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"path":   `.+`,
}

// Var is a single placeholder declared in a rule pattern.
type Var struct {
	Name string
	// Converter is empty for untyped placeholders.
	Converter string
}

// pattern is a compiled rule pattern.
type pattern struct {
	raw    string
	regexp *regexp.Regexp
	vars   []Var
}

// ValidatePattern returns the error Handle would record on a rule for raw.
func ValidatePattern(raw string) error {
	_, err := parsePattern(raw)
	return err
}

// parsePattern compiles a pattern such as "/balloons/<int:id>/" into a
// regexp. Patterns are not required to start with a slash: such rules never
// match a request, but remain visible in the rule table.
func parsePattern(raw string) (*pattern, error) {
	idxs, err := angleIndices(raw)
	if err != nil {
		return nil, err
	}

	var (
		buf  bytes.Buffer
		vars []Var
		end  int
	)

	buf.WriteByte('^')

	for i := 0; i < len(idxs); i += 2 {
		literal := raw[end:idxs[i]]
		end = idxs[i+1]

		inner := raw[idxs[i]+1 : end-1]
		name, conv := inner, ""
		if c, n, ok := strings.Cut(inner, ":"); ok {
			name, conv = n, c
		}

		if name == "" {
			return nil, fmt.Errorf("router: missing name in %q from %q", raw[idxs[i]:end], raw)
		}

		patt := converterPatterns["string"]
		if conv != "" {
			p, ok := converterPatterns[conv]
			if !ok {
				return nil, fmt.Errorf("router: unknown converter %q in %q", conv, raw)
			}
			patt = p
		}

		fmt.Fprintf(&buf, "%s(%s)", regexp.QuoteMeta(literal), patt)
		vars = append(vars, Var{Name: name, Converter: conv})
	}

	tail := raw[end:]
	if len(raw) > 1 && strings.HasSuffix(tail, "/") {
		buf.WriteString(regexp.QuoteMeta(strings.TrimSuffix(tail, "/")))
		buf.WriteString("/?")
	} else {
		buf.WriteString(regexp.QuoteMeta(tail))
		if raw != "/" {
			buf.WriteString("/?")
		}
	}
	buf.WriteByte('$')

	if err := checkDuplicateVars(vars); err != nil {
		return nil, err
	}

	re, err := regexp.Compile(buf.String())
	if err != nil {
		return nil, err
	}

	return &pattern{raw: raw, regexp: re, vars: vars}, nil
}

// match returns the placeholder values for path, or false if the pattern
// does not match.
func (p *pattern) match(path string) (map[string]string, bool) {
	m := p.regexp.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	if len(p.vars) == 0 {
		return nil, true
	}
	vars := make(map[string]string, len(p.vars))
	for i, v := range p.vars {
		vars[v.Name] = m[i+1]
	}
	return vars, true
}

// angleIndices returns the start and end+1 indices of each <...> pair in s.
// Placeholders cannot nest.
func angleIndices(s string) ([]int, error) {
	var (
		idxs []int
		open bool
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			if open {
				return nil, fmt.Errorf("router: nested placeholder in %q", s)
			}
			open = true
			idxs = append(idxs, i)
		case '>':
			if !open {
				return nil, fmt.Errorf("router: unbalanced placeholder in %q", s)
			}
			open = false
			idxs = append(idxs, i+1)
		}
	}
	if open {
		return nil, fmt.Errorf("router: unbalanced placeholder in %q", s)
	}
	return idxs, nil
}

func checkDuplicateVars(vars []Var) error {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if seen[v.Name] {
			return fmt.Errorf("router: duplicated placeholder %q", v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}
