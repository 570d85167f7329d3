package jsts

import (
	sitter "github.com/smacker/go-tree-sitter"

	"codekg/internal/astvisit"
)

func nodeName(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(source)
	}
	return ""
}

func (w *walker) visitFunction(n *sitter.Node, isMethod, isArrow bool) {
	name := nodeName(n, w.source)
	if name == "" && isArrow {
		name = "<anonymous>"
	}
	isAsync := false
	isGenerator := n.Type() == "generator_function_declaration"
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "async" {
			isAsync = true
		}
		if c.Type() == "*" {
			isGenerator = true
		}
	}

	info := astvisit.FunctionInfo{
		Name: name, Context: w.ctx(), IsMethod: isMethod, IsArrow: isArrow,
		IsAsync: isAsync, IsGenerator: isGenerator,
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column), EndCol: int(n.EndPoint().Column),
	}
	w.collections.Functions = append(w.collections.Functions, info)

	kind := astvisit.ScopeFunction
	if isMethod {
		kind = astvisit.ScopeMethod
	} else if isArrow {
		kind = astvisit.ScopeArrow
	}
	w.stack.Push(name, kind)

	if params := n.ChildByFieldName("parameters"); params != nil {
		w.visitParameterList(params)
	} else if p := n.ChildByFieldName("parameter"); p != nil {
		w.visitParameter(p, 0)
	}

	if body := n.ChildByFieldName("body"); body != nil {
		w.walkChildren(body)
	}
	w.stack.Pop()
}

func (w *walker) visitParameterList(list *sitter.Node) {
	pos := 0
	for i := 0; i < int(list.NamedChildCount()); i++ {
		w.visitParameter(list.NamedChild(i), pos)
		pos++
	}
}

func (w *walker) visitParameter(p *sitter.Node, pos int) {
	name := p.Content(w.source)
	if p.Type() == "required_parameter" || p.Type() == "optional_parameter" {
		if pat := p.ChildByFieldName("pattern"); pat != nil {
			name = pat.Content(w.source)
		}
	} else if id := p.ChildByFieldName("name"); id != nil {
		name = id.Content(w.source)
	}
	w.collections.Parameters = append(w.collections.Parameters, astvisit.ParameterInfo{
		Name: name, Context: w.ctx(), Position: pos,
		Line: int(p.StartPoint().Row) + 1, Col: int(p.StartPoint().Column),
	})
}

func (w *walker) visitClass(n *sitter.Node) {
	name := nodeName(n, w.source)
	var extends string
	var implements []string
	if heritage := n.ChildByFieldName("superclass"); heritage != nil {
		extends = heritage.Content(w.source)
	}
	w.collections.ClassDeclarations = append(w.collections.ClassDeclarations, astvisit.ClassDeclarationInfo{
		Name: name, Context: w.ctx(), ExtendsOf: extends, Implements: implements,
		IsExpr: n.Type() == "class",
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column), EndCol: int(n.EndPoint().Column),
	})

	w.stack.Push(name, astvisit.ScopeClass)
	if body := n.ChildByFieldName("body"); body != nil {
		w.walkChildren(body)
	}
	w.stack.Pop()
}

func (w *walker) visitClassField(n *sitter.Node) {
	name := nodeName(n, w.source)
	w.collections.VariableDeclarations = append(w.collections.VariableDeclarations, astvisit.VariableDeclarationInfo{
		Name: name, Context: w.ctx(), IsClassProperty: true,
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	if value := n.ChildByFieldName("value"); value != nil {
		rhs := w.classifyRHS(value)
		w.collections.VariableAssignments = append(w.collections.VariableAssignments, astvisit.VariableAssignmentInfo{
			VariableName: name, Context: w.ctx(), RHS: rhs,
			Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
		})
		w.walk(value)
	}
}

func (w *walker) visitVariableDeclaration(n *sitter.Node) {
	isConst := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "const" {
			isConst = true
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		name := ""
		if nameNode != nil {
			name = nameNode.Content(w.source)
		}
		w.collections.VariableDeclarations = append(w.collections.VariableDeclarations, astvisit.VariableDeclarationInfo{
			Name: name, Context: w.ctx(), IsConst: isConst,
			Line: int(decl.StartPoint().Row) + 1, Col: int(decl.StartPoint().Column),
		})
		if value := decl.ChildByFieldName("value"); value != nil {
			rhs := w.classifyRHS(value)
			w.collections.VariableAssignments = append(w.collections.VariableAssignments, astvisit.VariableAssignmentInfo{
				VariableName: name, Context: w.ctx(), RHS: rhs,
				Line: int(decl.StartPoint().Row) + 1, Col: int(decl.StartPoint().Column),
			})
			w.walk(value)
		}
	}
}

func (w *walker) visitAssignment(n *sitter.Node) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil {
		w.walkChildren(n)
		return
	}
	rhs := w.classifyRHS(right)
	w.collections.VariableAssignments = append(w.collections.VariableAssignments, astvisit.VariableAssignmentInfo{
		VariableName: left.Content(w.source), Context: w.ctx(), RHS: rhs,
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	w.walk(right)
}

// classifyRHS inspects an expression node and returns its classification
// plus, for complex shapes, the identifiers it reads from — without the
// builder needing to re-walk the source tree later.
func (w *walker) classifyRHS(n *sitter.Node) astvisit.RHS {
	switch n.Type() {
	case "string", "template_string", "number", "true", "false", "null", "undefined", "regex":
		return astvisit.RHS{Kind: astvisit.RHSLiteral}
	case "identifier":
		return astvisit.RHS{Kind: astvisit.RHSVariableRef, Name: n.Content(w.source)}
	case "call_expression":
		fn := n.ChildByFieldName("function")
		if fn != nil && fn.Type() == "member_expression" {
			return astvisit.RHS{Kind: astvisit.RHSMethodCall, Name: fn.Content(w.source)}
		}
		if fn != nil {
			return astvisit.RHS{Kind: astvisit.RHSCall, Name: fn.Content(w.source)}
		}
		return astvisit.RHS{Kind: astvisit.RHSCall}
	case "member_expression":
		return astvisit.RHS{Kind: astvisit.RHSMemberExpr, Name: n.Content(w.source), Refs: collectIdentifiers(n, w.source)}
	case "binary_expression":
		return astvisit.RHS{Kind: astvisit.RHSBinary, Refs: collectIdentifiers(n, w.source), Discriminator: w.nextDiscriminator("binary", "")}
	case "ternary_expression":
		return astvisit.RHS{Kind: astvisit.RHSConditional, Refs: collectIdentifiers(n, w.source), Discriminator: w.nextDiscriminator("ternary", "")}
	case "unary_expression":
		return astvisit.RHS{Kind: astvisit.RHSUnary, Refs: collectIdentifiers(n, w.source), Discriminator: w.nextDiscriminator("unary", "")}
	case "logical_expression":
		return astvisit.RHS{Kind: astvisit.RHSLogical, Refs: collectIdentifiers(n, w.source), Discriminator: w.nextDiscriminator("logical", "")}
	case "new_expression":
		ctor := n.ChildByFieldName("constructor")
		name := ""
		if ctor != nil {
			name = ctor.Content(w.source)
		}
		return astvisit.RHS{Kind: astvisit.RHSNewExpression, Name: name}
	default:
		return astvisit.RHS{Kind: astvisit.RHSMemberExpr, Name: n.Content(w.source), Refs: collectIdentifiers(n, w.source), Discriminator: w.nextDiscriminator("expr", "")}
	}
}

// collectIdentifiers returns every bare identifier referenced under n,
// deduped in first-seen order, for attaching DERIVES_FROM edges to a
// synthesized EXPRESSION node without a second traversal.
func collectIdentifiers(n *sitter.Node, source []byte) []string {
	seen := make(map[string]struct{})
	var out []string
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "identifier" {
			name := n.Content(source)
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				out = append(out, name)
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(n)
	return out
}

func (w *walker) visitCall(n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		w.walkChildren(n)
		return
	}
	line, col := int(n.StartPoint().Row)+1, int(n.StartPoint().Column)
	args := n.ChildByFieldName("arguments")
	var argNames []string
	if args != nil {
		argNames = collectIdentifiers(args, w.source)
	}
	if fn.Type() == "member_expression" {
		receiver := fn.ChildByFieldName("object")
		method := fn.ChildByFieldName("property")
		if receiver != nil && method != nil {
			w.collections.MethodCalls = append(w.collections.MethodCalls, astvisit.MethodCallInfo{
				ReceiverName: receiver.Content(w.source), MethodName: method.Content(w.source), Args: argNames,
				Context: w.ctx(), Discriminator: w.nextDiscriminator("method_call", method.Content(w.source)),
				Line: line, Col: col,
			})
		}
	} else {
		name := fn.Content(w.source)
		w.collections.CallSites = append(w.collections.CallSites, astvisit.CallSiteInfo{
			CalleeName: name, Args: argNames, Context: w.ctx(), Discriminator: w.nextDiscriminator("call", name),
			Line: line, Col: col,
		})
	}
	if args != nil {
		w.walkChildren(args)
	}
}

func (w *walker) visitNewExpression(n *sitter.Node) {
	ctor := n.ChildByFieldName("constructor")
	if ctor == nil {
		w.walkChildren(n)
		return
	}
	name := ctor.Content(w.source)
	w.collections.ClassInstantiations = append(w.collections.ClassInstantiations, astvisit.ClassInstantiationInfo{
		ClassName: name, Context: w.ctx(), Discriminator: w.nextDiscriminator("new", name),
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	if args := n.ChildByFieldName("arguments"); args != nil {
		w.walkChildren(args)
	}
}

func (w *walker) visitReturn(n *sitter.Node) {
	fnName, _ := w.stack.EnclosingFunction()
	var rhs astvisit.RHS
	if arg := n.NamedChild(0); arg != nil {
		rhs = w.classifyRHS(arg)
	}
	w.collections.Returns = append(w.collections.Returns, astvisit.ReturnStatementInfo{
		EnclosingFunction: fnName, Context: w.ctx(), RHS: rhs,
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	w.walkChildren(n)
}

func (w *walker) visitYield(n *sitter.Node) {
	fnName, _ := w.stack.EnclosingFunction()
	delegating := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "*" {
			delegating = true
		}
	}
	var rhs astvisit.RHS
	if arg := n.NamedChild(0); arg != nil {
		rhs = w.classifyRHS(arg)
	}
	w.collections.YieldExpressions = append(w.collections.YieldExpressions, astvisit.YieldExpressionInfo{
		EnclosingFunction: fnName, Context: w.ctx(), RHS: rhs, IsDelegating: delegating,
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	w.walkChildren(n)
}

func (w *walker) visitImport(n *sitter.Node) {
	source := ""
	if src := n.ChildByFieldName("source"); src != nil {
		s := src.Content(w.source)
		source = trimQuotes(s)
	}
	info := astvisit.ImportInfo{Source: source, Context: w.ctx(), Line: int(n.StartPoint().Row) + 1}

	clause := n.ChildByFieldName("clause")
	if clause != nil {
		for i := 0; i < int(clause.NamedChildCount()); i++ {
			c := clause.NamedChild(i)
			switch c.Type() {
			case "identifier":
				info.Specifiers = append(info.Specifiers, specifierFrom(c, source, w.source))
			case "namespace_import":
				if id := c.NamedChild(0); id != nil {
					info.Specifiers = append(info.Specifiers, specifierFrom(id, source, w.source))
				}
			case "named_imports":
				for j := 0; j < int(c.NamedChildCount()); j++ {
					spec := c.NamedChild(j)
					name := spec.ChildByFieldName("name")
					local := spec.ChildByFieldName("alias")
					target := name
					if local != nil {
						target = local
					}
					if target != nil {
						info.Specifiers = append(info.Specifiers, specifierFrom(target, source, w.source))
					}
				}
			}
		}
	}
	w.collections.Imports = append(w.collections.Imports, info)
}

func specifierFrom(n *sitter.Node, source string, src []byte) astvisit.ImportSpecifierInfo {
	return astvisit.ImportSpecifierInfo{
		LocalName: n.Content(src), Source: source,
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column), EndCol: int(n.EndPoint().Column),
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

func (w *walker) visitExport(n *sitter.Node) {
	source := ""
	if src := n.ChildByFieldName("source"); src != nil {
		source = trimQuotes(src.Content(w.source))
	}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		name := nodeName(decl, w.source)
		w.collections.Exports = append(w.collections.Exports, astvisit.ExportInfo{
			Name: name, Context: w.ctx(), Line: int(n.StartPoint().Row) + 1,
		})
		w.walk(decl)
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "export_clause" {
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				name := spec.ChildByFieldName("name")
				if name != nil {
					w.collections.Exports = append(w.collections.Exports, astvisit.ExportInfo{
						Name: name.Content(w.source), Source: source, Context: w.ctx(),
						Line: int(n.StartPoint().Row) + 1,
					})
				}
			}
		}
	}
}

func (w *walker) visitLoop(n *sitter.Node) {
	kind := n.Type()
	iteratesOver := ""
	if right := n.ChildByFieldName("right"); right != nil {
		iteratesOver = right.Content(w.source)
	}
	w.collections.Loops = append(w.collections.Loops, astvisit.LoopInfo{
		Kind: kind, Context: w.ctx(), IteratesOver: iteratesOver,
		Discriminator: w.nextDiscriminator("loop", kind),
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	w.stack.Push("", astvisit.ScopeBlock)
	w.walkChildren(n)
	w.stack.Pop()
}

func (w *walker) visitBranch(n *sitter.Node) {
	var cond astvisit.RHS
	if c := n.ChildByFieldName("condition"); c != nil {
		cond = w.classifyRHS(c)
	}
	w.collections.Branches = append(w.collections.Branches, astvisit.BranchInfo{
		Kind: "if", Context: w.ctx(), ConditionRHS: cond,
		Discriminator: w.nextDiscriminator("branch", "if"),
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	w.walkChildren(n)
}

func (w *walker) visitSwitch(n *sitter.Node) {
	w.collections.Branches = append(w.collections.Branches, astvisit.BranchInfo{
		Kind: "switch", Context: w.ctx(),
		Discriminator: w.nextDiscriminator("branch", "switch"),
		Line: int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	w.walkChildren(n)
}

func (w *walker) visitTry(n *sitter.Node) {
	hasCatch, hasFinally := false, false
	catchParam := ""
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "catch_clause":
			hasCatch = true
			if p := c.ChildByFieldName("parameter"); p != nil {
				catchParam = p.Content(w.source)
			}
		case "finally_clause":
			hasFinally = true
		}
	}
	w.collections.TryBlocks = append(w.collections.TryBlocks, astvisit.TryBlockInfo{
		Context: w.ctx(), HasCatch: hasCatch, HasFinally: hasFinally, CatchParamName: catchParam,
		Discriminator: w.nextDiscriminator("try", ""),
		Line:          int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	w.walkChildren(n)
}

func (w *walker) visitUpdateExpression(n *sitter.Node) {
	operand := ""
	if arg := n.NamedChild(0); arg != nil {
		operand = arg.Content(w.source)
	}
	w.collections.UpdateExpressions = append(w.collections.UpdateExpressions, astvisit.UpdateExpressionInfo{
		OperandName: operand, Context: w.ctx(),
		Discriminator: w.nextDiscriminator("update", operand),
		Line:          int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
}

func (w *walker) visitLiteral(n *sitter.Node) {
	value := n.Content(w.source)
	w.collections.Literals = append(w.collections.Literals, astvisit.LiteralInfo{
		Value: value, Context: w.ctx(),
		Discriminator: w.nextDiscriminator("literal", value),
		Line:          int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
}

func (w *walker) visitObjectLiteral(n *sitter.Node) {
	var props []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if name := c.ChildByFieldName("key"); name != nil {
			props = append(props, name.Content(w.source))
		}
	}
	w.collections.ObjectLiterals = append(w.collections.ObjectLiterals, astvisit.ObjectLiteralInfo{
		PropertyNames: props, Context: w.ctx(),
		Discriminator: w.nextDiscriminator("object_literal", ""),
		Line:          int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if v := n.NamedChild(i).ChildByFieldName("value"); v != nil {
			w.walk(v)
		}
	}
}

func (w *walker) visitArrayLiteral(n *sitter.Node) {
	w.collections.ArrayLiterals = append(w.collections.ArrayLiterals, astvisit.ArrayLiteralInfo{
		ElementCount: int(n.NamedChildCount()), Context: w.ctx(),
		Discriminator: w.nextDiscriminator("array_literal", ""),
		Line:          int(n.StartPoint().Row) + 1, Col: int(n.StartPoint().Column),
	})
	w.walkChildren(n)
}
