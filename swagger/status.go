package swagger

import (
	"go/ast"
	"go/parser"
	"go/token"
	"net/http"
	"slices"
)

// StatusUnknown means no success status could be inferred.
const StatusUnknown = 0

// StatusInferer infers the success status code of a handler from its
// source text.
type StatusInferer interface {
	InferSuccessStatus(source string) int
}

// StatusInfererFunc adapts a function to StatusInferer.
type StatusInfererFunc func(source string) int

// InferSuccessStatus calls f(source).
func (f StatusInfererFunc) InferSuccessStatus(source string) int {
	return f(source)
}

// JSONReturnInferer reports http.StatusOK when the handler returns the
// result of a call to one of Funcs, e.g. `return view.JSON(w, balloons)`.
// Calls are matched by the called function name, qualified or not. Returns
// inside function literals are ignored.
type JSONReturnInferer struct {
	Funcs []string
}

// DefaultJSONFuncs lists the function names treated as JSON responses.
var DefaultJSONFuncs = []string{"JSON"}

// InferSuccessStatus parses source as a function declaration, or failing
// that as a function body, and scans its return statements.
func (i JSONReturnInferer) InferSuccessStatus(source string) int {
	body := parseSource(source)
	if body == nil {
		return StatusUnknown
	}

	status := StatusUnknown
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.ReturnStmt:
			for _, result := range n.Results {
				if i.isJSONCall(result) {
					status = http.StatusOK
				}
			}
		}
		return true
	})

	return status
}

func (i JSONReturnInferer) isJSONCall(expr ast.Expr) bool {
	for {
		paren, ok := expr.(*ast.ParenExpr)
		if !ok {
			break
		}
		expr = paren.X
	}

	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return false
	}

	funcs := i.Funcs
	if funcs == nil {
		funcs = DefaultJSONFuncs
	}

	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return slices.Contains(funcs, fun.Name)
	case *ast.SelectorExpr:
		return slices.Contains(funcs, fun.Sel.Name)
	}
	return false
}

// parseSource returns the body of the first function declared in source.
// Source that is not a declaration is parsed as a function body.
func parseSource(source string) *ast.BlockStmt {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "", "package handler\n\n"+source, parser.SkipObjectResolution)
	if err == nil {
		for _, decl := range file.Decls {
			if fd, ok := decl.(*ast.FuncDecl); ok && fd.Body != nil {
				return fd.Body
			}
		}
		return nil
	}

	file, err = parser.ParseFile(fset, "", "package handler\n\nfunc _() {\n"+source+"\n}\n", parser.SkipObjectResolution)
	if err != nil {
		return nil
	}
	if fd, ok := file.Decls[0].(*ast.FuncDecl); ok {
		return fd.Body
	}
	return nil
}
