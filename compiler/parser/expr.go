package parser

import (
	"math/big"

	"neochain/compiler/ast"
)

type binaryOp struct {
	op         string
	precedence int
}

var binaryOps = []binaryOp{
	{"||", 1},
	{"&&", 2},
	{"===", 3}, {"!==", 3}, {"==", 3}, {"!=", 3},
	{"<", 4}, {">", 4}, {"<=", 4}, {">=", 4},
	{"+", 5}, {"-", 5},
	{"*", 6}, {"/", 6}, {"%", 6},
}

var reserved = map[string]bool{
	"break": true, "class": true, "const": true, "continue": true,
	"else": true, "export": true, "extends": true, "for": true,
	"function": true, "if": true, "import": true, "let": true,
	"return": true, "throw": true, "while": true,
}

// parseExpr parses an assignment expression, the loosest binding
// form.
func parseExpr(p *parser) ast.Expr {
	lhs := parseCondExpr(p)
	switch op := scanPunct(p.buf, p.pos); op {
	case "=", "+=", "-=":
		consumeTok(p, op)
		return &ast.AssignExpr{Op: op, Target: lhs, Value: parseExpr(p)}
	}
	return lhs
}

// cond ? then : else
func parseCondExpr(p *parser) ast.Expr {
	cond := parseBinaryExpr(p)
	if !peekTok(p, "?") {
		return cond
	}
	consumeTok(p, "?")
	then := parseExpr(p)
	consumeTok(p, ":")
	return &ast.CondExpr{Cond: cond, Then: then, Else: parseExpr(p)}
}

func parseBinaryExpr(p *parser) ast.Expr {
	// Uses the precedence-climbing algorithm
	// <https://en.wikipedia.org/wiki/Operator-precedence_parser#Precedence_climbing_method>
	return parseExprCont(p, parseUnaryExpr(p), 0)
}

func parseExprCont(p *parser, lhs ast.Expr, minPrecedence int) ast.Expr {
	for {
		op, pos := scanBinaryOp(p.buf, p.pos)
		if pos < 0 || op.precedence < minPrecedence {
			return lhs
		}
		p.pos = pos

		rhs := parseUnaryExpr(p)

		for {
			op2, pos2 := scanBinaryOp(p.buf, p.pos)
			if pos2 < 0 || op2.precedence <= op.precedence {
				break
			}
			rhs = parseExprCont(p, rhs, op2.precedence)
		}
		lhs = &ast.BinaryExpr{Op: op.op, X: lhs, Y: rhs}
	}
}

func parseUnaryExpr(p *parser) ast.Expr {
	at := p.here()
	switch op := scanPunct(p.buf, p.pos); op {
	case "!", "-", "+":
		consumeTok(p, op)
		x := parseUnaryExpr(p)
		if lit, ok := x.(*ast.NumberLit); ok && op == "-" {
			return &ast.NumberLit{At: at, Value: new(big.Int).Neg(lit.Value)}
		}
		return &ast.UnaryExpr{At: at, Op: op, X: x}
	}
	e := parsePostfixExpr(p)
	for peekKeyword(p) == "as" {
		consumeKeyword(p, "as")
		e = &ast.AsExpr{X: e, Type: parseType(p)}
	}
	return e
}

// parsePostfixExpr parses member access, indexing, calls and the
// increment operators. x++ is read as x += 1.
func parsePostfixExpr(p *parser) ast.Expr {
	e := parsePrimaryExpr(p)
	for {
		switch op := scanPunct(p.buf, p.pos); op {
		case ".":
			consumeTok(p, ".")
			at := p.here()
			e = &ast.SelectorExpr{X: e, Sel: consumeIdentifier(p), SelAt: at}
		case "[":
			consumeTok(p, "[")
			idx := parseExpr(p)
			consumeTok(p, "]")
			e = &ast.IndexExpr{X: e, Index: idx}
		case "(":
			e = &ast.CallExpr{Fun: e, Args: parseArgs(p)}
		case "<":
			targs, ok := tryTypeArgs(p)
			if !ok {
				return e
			}
			e = &ast.CallExpr{Fun: e, TypeArgs: targs, Args: parseArgs(p)}
		case "++", "--":
			at := p.here()
			consumeTok(p, op)
			e = &ast.AssignExpr{Op: op[:1] + "=", Target: e, Value: &ast.NumberLit{At: at, Value: big.NewInt(1)}}
		default:
			return e
		}
	}
}

func parsePrimaryExpr(p *parser) ast.Expr {
	at := p.here()
	switch scanPunct(p.buf, p.pos) {
	case "(":
		consumeTok(p, "(")
		x := parseExpr(p)
		consumeTok(p, ")")
		return &ast.ParenExpr{At: at, X: x}
	case "[":
		consumeTok(p, "[")
		lit := &ast.ArrayLit{At: at}
		for !peekTok(p, "]") {
			if len(lit.Elems) > 0 {
				consumeTok(p, ",")
				if peekTok(p, "]") {
					break
				}
			}
			lit.Elems = append(lit.Elems, parseExpr(p))
		}
		consumeTok(p, "]")
		return lit
	}
	if peekString(p) {
		return &ast.StringLit{At: at, Value: consumeString(p)}
	}
	if peekNumber(p) {
		return &ast.NumberLit{At: at, Value: consumeNumber(p)}
	}
	name, pos := scanIdentifier(p.buf, p.pos)
	if pos < 0 {
		p.errorf("expected expression, found %q", peekText(p))
	}
	switch name {
	case "new":
		return parseNew(p, at)
	case "true", "false":
		p.pos = pos
		return &ast.BoolLit{At: at, Value: name == "true"}
	case "null":
		p.pos = pos
		return &ast.NullLit{At: at}
	case "undefined":
		p.pos = pos
		return &ast.UndefinedLit{At: at}
	case "this":
		p.pos = pos
		return &ast.ThisExpr{At: at}
	case "super":
		p.pos = pos
		return &ast.SuperExpr{At: at}
	}
	if reserved[name] {
		p.errorf("unexpected keyword %s", name)
	}
	p.pos = pos
	return &ast.Ident{At: at, Name: name}
}

// new Name<T>(args)
func parseNew(p *parser, at ast.Pos) *ast.NewExpr {
	consumeKeyword(p, "new")
	n := &ast.NewExpr{At: at, Class: parseIdent(p)}
	if peekTok(p, "<") {
		n.TypeArgs = parseTypeArgs(p)
	}
	if peekTok(p, "(") {
		n.Args = parseArgs(p)
	}
	return n
}

func parseArgs(p *parser) []ast.Expr {
	var exprs []ast.Expr
	consumeTok(p, "(")
	first := true
	for !peekTok(p, ")") {
		if first {
			first = false
		} else {
			consumeTok(p, ",")
			if peekTok(p, ")") {
				break
			}
		}
		exprs = append(exprs, parseExpr(p))
	}
	consumeTok(p, ")")
	return exprs
}

func parseIdent(p *parser) *ast.Ident {
	at := p.here()
	return &ast.Ident{At: at, Name: consumeIdentifier(p)}
}
