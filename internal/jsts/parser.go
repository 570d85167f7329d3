// Package jsts drives tree-sitter over JavaScript/TypeScript source and
// produces the language-neutral info records the graph builder consumes.
package jsts

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"codekg/internal/astvisit"
	"codekg/internal/logging"
	"codekg/internal/semid"
)

// Parser walks a parsed JS/TS tree and emits an astvisit.ASTCollections for
// one file. It holds only the two loaded *sitter.Language grammars, not a
// *sitter.Parser: go-tree-sitter's Parser carries internal cursor/cgo state
// that is not safe for concurrent Parse calls, and the orchestrator's
// analysis phase runs many files through the same Analyzer/Parser in
// parallel. Each Parse call therefore builds its own *sitter.Parser —
// cheap, since the expensive part (loading the grammar itself) already
// happened once in NewParser.
type Parser struct {
	tsLang *sitter.Language
	jsLang *sitter.Language
}

// NewParser returns a Parser with both grammars loaded.
func NewParser() *Parser {
	return &Parser{tsLang: typescript.GetLanguage(), jsLang: javascript.GetLanguage()}
}

func (p *Parser) grammarFor(path string) *sitter.Language {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".js") || strings.HasSuffix(lower, ".jsx") ||
		strings.HasSuffix(lower, ".mjs") || strings.HasSuffix(lower, ".cjs") {
		return p.jsLang
	}
	return p.tsLang
}

// Parse produces the ASTCollections for one file. file is the root-relative
// path that becomes every emitted record's semantic-id file segment.
func (p *Parser) Parse(file string, source []byte) (*astvisit.ASTCollections, error) {
	timer := logging.StartTimer(logging.CategoryAnalysis, "jsts.Parse "+file)
	defer timer.Stop()

	sp := sitter.NewParser()
	sp.SetLanguage(p.grammarFor(file))
	tree, err := sp.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("jsts: parsing %s: %w", file, err)
	}
	defer tree.Close()

	w := &walker{
		file:        file,
		source:      source,
		stack:       astvisit.NewScopeStack(file),
		collections: &astvisit.ASTCollections{},
		discriminators: make(map[string]int),
	}
	w.walk(tree.RootNode())
	return w.collections, nil
}

// walker carries the mutable state of one file's traversal: the scope
// stack, the collections being filled in, and a per-(scope depth,kind,name)
// discriminator counter so repeated same-name constructs in one scope
// (two `foo()` calls, two string literals) get distinct ids.
type walker struct {
	file           string
	source         []byte
	stack          *astvisit.ScopeStack
	collections    *astvisit.ASTCollections
	discriminators map[string]int
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.source)
}

// nextDiscriminator returns a fresh discriminator for (kind, name) at the
// current scope depth, starting at "2" for the second occurrence (the
// first occurrence of a name needs no discriminator at all — builders only
// attach one when a collision is actually possible).
func (w *walker) nextDiscriminator(kind, name string) string {
	key := fmt.Sprintf("%d|%s|%s", w.stack.Depth(), kind, name)
	w.discriminators[key]++
	n := w.discriminators[key]
	if n == 1 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func (w *walker) ctx() semid.Context { return w.stack.CurrentContext() }

func (w *walker) walk(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "function_declaration", "function":
		w.visitFunction(n, false, false)
		return
	case "method_definition":
		w.visitFunction(n, true, false)
		return
	case "arrow_function":
		w.visitFunction(n, false, true)
		return
	case "generator_function_declaration":
		w.visitFunction(n, false, false)
		return
	case "class_declaration", "class":
		w.visitClass(n)
		return
	case "lexical_declaration", "variable_declaration":
		w.visitVariableDeclaration(n)
		return
	case "field_definition":
		w.visitClassField(n)
		return
	case "assignment_expression":
		w.visitAssignment(n)
		return
	case "call_expression":
		w.visitCall(n)
	case "new_expression":
		w.visitNewExpression(n)
	case "return_statement":
		w.visitReturn(n)
	case "yield_expression":
		w.visitYield(n)
	case "import_statement":
		w.visitImport(n)
		return
	case "export_statement":
		w.visitExport(n)
	case "for_statement", "for_in_statement", "while_statement", "do_statement":
		w.visitLoop(n)
	case "if_statement":
		w.visitBranch(n)
	case "switch_statement":
		w.visitSwitch(n)
	case "try_statement":
		w.visitTry(n)
	case "update_expression":
		w.visitUpdateExpression(n)
	case "string", "template_string", "number", "true", "false", "null", "undefined", "regex":
		w.visitLiteral(n)
		return
	case "object":
		w.visitObjectLiteral(n)
	case "array":
		w.visitArrayLiteral(n)
	case "statement_block":
		w.stack.Push("", astvisit.ScopeBlock)
		w.walkChildren(n)
		w.stack.Pop()
		return
	}

	w.walkChildren(n)
}

func (w *walker) walkChildren(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i))
	}
}
