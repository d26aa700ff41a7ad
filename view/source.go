package view

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

// ErrSourceUnavailable is reported when a handler's declaration cannot be
// read back from its source file.
var ErrSourceUnavailable = errors.New("view: source unavailable")

// sourceIndex reads handler declarations back from the files the compiler
// recorded for them. Files are parsed once per index.
type sourceIndex struct {
	fset  *token.FileSet
	files map[string]*sourceFile
	dirs  []string
}

type sourceFile struct {
	data []byte
	file *ast.File
	err  error
}

func newSourceIndex() *sourceIndex {
	return &sourceIndex{
		fset:  token.NewFileSet(),
		files: make(map[string]*sourceFile),
	}
}

func (s *sourceIndex) load(path string) (*sourceFile, error) {
	if sf, ok := s.files[path]; ok {
		return sf, sf.err
	}

	sf := &sourceFile{}
	s.files[path] = sf

	sf.data, sf.err = os.ReadFile(path)
	if sf.err != nil {
		return sf, sf.err
	}
	sf.file, sf.err = parser.ParseFile(s.fset, path, sf.data, parser.ParseComments|parser.SkipObjectResolution)
	return sf, sf.err
}

// describe fills the argument names, doc and source of m from the
// declaration of method rm of type t. Arguments are named arg0, arg1...
// when the declaration is unavailable.
func (s *sourceIndex) describe(m *Method, t reflect.Type, rm reflect.Method) {
	for i := range m.args {
		m.args[i].name = "arg" + strconv.Itoa(i)
	}

	path := funcFile(rm.Func)
	if path == "" || path == "<autogenerated>" {
		if vm, ok := t.Elem().MethodByName(rm.Name); ok {
			path = funcFile(vm.Func)
		}
	}
	if path == "" || path == "<autogenerated>" {
		m.sourceErr = fmt.Errorf("%w: no file recorded for %s", ErrSourceUnavailable, rm.Name)
		return
	}

	sf, err := s.load(path)
	if err != nil {
		m.sourceErr = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		return
	}
	s.addDir(filepath.Dir(path))

	typeName := t.Elem().Name()
	fd := findMethod(sf.file, typeName, rm.Name)
	if fd == nil {
		m.sourceErr = fmt.Errorf("%w: %s.%s not declared in %s", ErrSourceUnavailable, typeName, rm.Name, path)
		return
	}

	m.doc = fd.Doc.Text()

	start := s.fset.Position(fd.Pos()).Offset
	end := s.fset.Position(fd.End()).Offset
	m.source = string(sf.data[start:end])

	if names := paramNames(fd); len(names) == len(m.args)+2 {
		for i, name := range names[2:] {
			if name != "" && name != "_" {
				m.args[i].name = name
			}
		}
	}
}

func (s *sourceIndex) addDir(dir string) {
	for _, d := range s.dirs {
		if d == dir {
			return
		}
	}
	s.dirs = append(s.dirs, dir)
}

// typeDoc returns the doc comment of the named type, searching every Go
// file of the directories seen so far.
func (s *sourceIndex) typeDoc(typeName string) string {
	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
				continue
			}
			sf, err := s.load(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			if doc, ok := findTypeDoc(sf.file, typeName); ok {
				return doc
			}
		}
	}
	return ""
}

func funcFile(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return ""
	}
	file, _ := f.FileLine(f.Entry())
	return file
}

func findMethod(file *ast.File, typeName, method string) *ast.FuncDecl {
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || len(fd.Recv.List) != 1 || fd.Name.Name != method {
			continue
		}
		if receiverType(fd.Recv.List[0].Type) == typeName {
			return fd
		}
	}
	return nil
}

func receiverType(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverType(e.X)
	case *ast.ParenExpr:
		return receiverType(e.X)
	case *ast.IndexExpr:
		return receiverType(e.X)
	case *ast.IndexListExpr:
		return receiverType(e.X)
	case *ast.Ident:
		return e.Name
	}
	return ""
}

// paramNames flattens the parameter list; unnamed parameters yield "".
func paramNames(fd *ast.FuncDecl) []string {
	var names []string
	for _, field := range fd.Type.Params.List {
		if len(field.Names) == 0 {
			names = append(names, "")
			continue
		}
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	return names
}

func findTypeDoc(file *ast.File, typeName string) (string, bool) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.Name.Name != typeName {
				continue
			}
			doc := ts.Doc
			if doc == nil && !gd.Lparen.IsValid() {
				doc = gd.Doc
			}
			return strings.TrimSpace(doc.Text()), true
		}
	}
	return "", false
}
