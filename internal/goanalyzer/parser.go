// Package goanalyzer is the structural-only CodeParser for Go source: it
// walks go/ast and yields functions, methods, structs, interfaces, imports,
// and by-name call sites, without the data-flow fidelity the JS/TS analyzer
// gives for variables, assignments, and control flow.
package goanalyzer

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
)

// FuncInfo describes one top-level function or method declaration.
type FuncInfo struct {
	Name      string
	Receiver  string // empty for plain functions
	Line, Col int
	EndLine   int
	Calls     []string // callee names found in the body, by simple name
}

// TypeInfo describes one struct or interface declaration.
type TypeInfo struct {
	Name      string
	IsStruct  bool // false means interface
	Line, Col int
}

// ImportInfo describes one import spec.
type ImportInfo struct {
	Path      string
	Alias     string // explicit alias, or "" when the package's own name applies
	Line, Col int
}

// FileInfo is everything parser.Parse collected from one Go source file.
type FileInfo struct {
	Package string
	Funcs   []FuncInfo
	Types   []TypeInfo
	Imports []ImportInfo
}

// Parser parses Go source with the standard library's go/parser, the way
// the teacher's GoCodeParser does.
type Parser struct{}

// NewParser returns a Parser. It carries no state.
func NewParser() *Parser { return &Parser{} }

// Parse extracts a FileInfo from one Go source file's content.
func (p *Parser) Parse(path string, content []byte) (*FileInfo, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("goanalyzer: parsing %s: %w", path, err)
	}

	info := &FileInfo{Package: file.Name.Name}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			info.Funcs = append(info.Funcs, parseFuncDecl(fset, d))
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				info.Types = append(info.Types, parseTypeSpecs(fset, d)...)
			}
			if d.Tok == token.IMPORT {
				info.Imports = append(info.Imports, parseImportSpecs(fset, d)...)
			}
		}
	}

	return info, nil
}

func parseFuncDecl(fset *token.FileSet, d *ast.FuncDecl) FuncInfo {
	pos := fset.Position(d.Pos())
	fi := FuncInfo{
		Name:    d.Name.Name,
		Line:    pos.Line,
		Col:     pos.Column,
		EndLine: fset.Position(d.End()).Line,
	}
	if d.Recv != nil && len(d.Recv.List) > 0 {
		fi.Receiver, _ = receiverTypeName(d.Recv.List[0].Type)
	}
	if d.Body != nil {
		fi.Calls = collectCallNames(d.Body)
	}
	return fi
}

// receiverTypeName unwraps a pointer receiver to its underlying type name.
func receiverTypeName(expr ast.Expr) (name string, isPointer bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name, false
	case *ast.StarExpr:
		name, _ = receiverTypeName(t.X)
		return name, true
	}
	return "", false
}

func parseTypeSpecs(fset *token.FileSet, d *ast.GenDecl) []TypeInfo {
	var out []TypeInfo
	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		pos := fset.Position(ts.Pos())
		switch ts.Type.(type) {
		case *ast.StructType:
			out = append(out, TypeInfo{Name: ts.Name.Name, IsStruct: true, Line: pos.Line, Col: pos.Column})
		case *ast.InterfaceType:
			out = append(out, TypeInfo{Name: ts.Name.Name, IsStruct: false, Line: pos.Line, Col: pos.Column})
		}
	}
	return out
}

func parseImportSpecs(fset *token.FileSet, d *ast.GenDecl) []ImportInfo {
	var out []ImportInfo
	for _, spec := range d.Specs {
		is, ok := spec.(*ast.ImportSpec)
		if !ok {
			continue
		}
		pos := fset.Position(is.Pos())
		imp := ImportInfo{Line: pos.Line, Col: pos.Column}
		imp.Path = stripQuotes(is.Path.Value)
		if is.Name != nil {
			imp.Alias = is.Name.Name
		}
		out = append(out, imp)
	}
	return out
}

func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// collectCallNames walks body and returns the simple callee name of every
// call expression it finds: the identifier for a bare call, or the
// selector's field name for a method/package-qualified call. Structural
// only — it does not attempt to resolve which declaration a name binds to.
func collectCallNames(body *ast.BlockStmt) []string {
	var calls []string
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		switch fn := call.Fun.(type) {
		case *ast.Ident:
			calls = append(calls, fn.Name)
		case *ast.SelectorExpr:
			calls = append(calls, fn.Sel.Name)
		}
		return true
	})
	return calls
}
