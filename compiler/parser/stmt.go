package parser

import "neochain/compiler/ast"

// { stmts }
func parseBlock(p *parser) *ast.BlockStmt {
	b := &ast.BlockStmt{At: p.here()}
	consumeTok(p, "{")
	for !peekTok(p, "}") {
		if p.atEOF() {
			p.errorf("unterminated block")
		}
		if peekTok(p, ";") {
			consumeTok(p, ";")
			continue
		}
		b.List = append(b.List, parseStatement(p))
	}
	consumeTok(p, "}")
	return b
}

func parseStatement(p *parser) ast.Stmt {
	at := p.here()
	if peekTok(p, "{") {
		return parseBlock(p)
	}
	switch kw := peekKeyword(p); kw {
	case "const", "let":
		d := parseVarDecl(p)
		consumeOptionalSemi(p)
		return d
	case "if":
		consumeKeyword(p, kw)
		s := &ast.IfStmt{At: at, Cond: parseCondition(p)}
		s.Then = parseStatement(p)
		if peekKeyword(p) == "else" {
			consumeKeyword(p, "else")
			s.Else = parseStatement(p)
		}
		return s
	case "while":
		consumeKeyword(p, kw)
		s := &ast.WhileStmt{At: at, Cond: parseCondition(p)}
		s.Body = parseStatement(p)
		return s
	case "for":
		return parseFor(p, at)
	case "return":
		consumeKeyword(p, kw)
		s := &ast.ReturnStmt{At: at}
		if !peekTok(p, ";") && !peekTok(p, "}") {
			s.Result = parseExpr(p)
		}
		consumeOptionalSemi(p)
		return s
	case "throw":
		consumeKeyword(p, kw)
		s := &ast.ThrowStmt{At: at, X: parseExpr(p)}
		consumeOptionalSemi(p)
		return s
	case "break":
		consumeKeyword(p, kw)
		consumeOptionalSemi(p)
		return &ast.BreakStmt{At: at}
	case "continue":
		consumeKeyword(p, kw)
		consumeOptionalSemi(p)
		return &ast.ContinueStmt{At: at}
	}
	s := &ast.ExprStmt{X: parseExpr(p)}
	consumeOptionalSemi(p)
	return s
}

// ( expr )
func parseCondition(p *parser) ast.Expr {
	consumeTok(p, "(")
	e := parseExpr(p)
	consumeTok(p, ")")
	return e
}

// for (init; cond; post) body
func parseFor(p *parser, at ast.Pos) *ast.ForStmt {
	consumeKeyword(p, "for")
	consumeTok(p, "(")
	s := &ast.ForStmt{At: at}
	if !peekTok(p, ";") {
		switch peekKeyword(p) {
		case "const", "let":
			s.Init = parseVarDecl(p)
		default:
			s.Init = &ast.ExprStmt{X: parseExpr(p)}
		}
	}
	consumeTok(p, ";")
	if !peekTok(p, ";") {
		s.Cond = parseExpr(p)
	}
	consumeTok(p, ";")
	if !peekTok(p, ")") {
		s.Post = parseExpr(p)
	}
	consumeTok(p, ")")
	s.Body = parseStatement(p)
	return s
}

func consumeOptionalSemi(p *parser) {
	if peekTok(p, ";") {
		consumeTok(p, ";")
	}
}
