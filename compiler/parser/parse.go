// Package parser reads contract source files into syntax trees.
//
// The accepted language is the class-based subset contracts are
// written in: imports of library names, classes with properties,
// accessors and methods, top-level functions and constants, and
// structured statements and expressions. Anything else is a syntax
// error.
package parser

import (
	"fmt"
	"sort"

	"neochain/compiler/ast"
)

// We have some function naming conventions.
//
// For terminals:
//   scanX     takes buf and position, returns new position (and maybe a value)
//   peekX     takes *parser, returns bool or string
//   consumeX  takes *parser and maybe a required literal, maybe returns value
//             also updates the parser position
//
// For nonterminals:
//   parseX    takes *parser, returns AST node, updates parser position

// Error is a syntax error.
type Error struct {
	Pos ast.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

type parser struct {
	buf   []byte
	pos   int
	lines []int // offsets of line starts
}

func newParser(buf []byte) *parser {
	p := &parser{buf: buf, lines: []int{0}}
	for i, c := range buf {
		if c == '\n' {
			p.lines = append(p.lines, i+1)
		}
	}
	return p
}

func (p *parser) errorf(format string, args ...interface{}) {
	pos := p.posAt(skipWsAndComments(p.buf, p.pos))
	panic(&Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// posAt converts a byte offset to a line and column.
func (p *parser) posAt(offset int) ast.Pos {
	i := sort.Search(len(p.lines), func(i int) bool { return p.lines[i] > offset }) - 1
	return ast.Pos{Line: i + 1, Col: offset - p.lines[i]}
}

// here skips to the next token and returns its position.
func (p *parser) here() ast.Pos {
	p.pos = skipWsAndComments(p.buf, p.pos)
	return p.posAt(p.pos)
}

func (p *parser) atEOF() bool {
	return skipWsAndComments(p.buf, p.pos) >= len(p.buf)
}

// Parse parses the source file name with contents buf.
func Parse(name string, buf []byte) (f *ast.File, err error) {
	defer func() {
		if val := recover(); val != nil {
			if e, ok := val.(*Error); ok {
				err = e
			} else {
				panic(val)
			}
		}
	}()
	f = parseFile(newParser(buf), name)
	return
}

// ParseExpr parses a single expression. It is used by tests and
// tools that work on fragments.
func ParseExpr(src string) (e ast.Expr, err error) {
	defer func() {
		if val := recover(); val != nil {
			if perr, ok := val.(*Error); ok {
				err = perr
			} else {
				panic(val)
			}
		}
	}()
	p := newParser([]byte(src))
	e = parseExpr(p)
	if !p.atEOF() {
		p.errorf("unexpected %q after expression", peekText(p))
	}
	return
}

// parse functions

func parseFile(p *parser, name string) *ast.File {
	f := &ast.File{Name: name}
	for !p.atEOF() {
		if peekKeyword(p) == "import" {
			f.Imports = append(f.Imports, parseImport(p))
			continue
		}
		f.Decls = append(f.Decls, parseDecl(p))
	}
	return f
}

// import { a, b } from 'path';
func parseImport(p *parser) *ast.ImportDecl {
	d := &ast.ImportDecl{At: p.here()}
	consumeKeyword(p, "import")
	consumeTok(p, "{")
	for !peekTok(p, "}") {
		if len(d.Names) > 0 {
			consumeTok(p, ",")
			if peekTok(p, "}") {
				break
			}
		}
		d.Names = append(d.Names, parseIdent(p))
	}
	consumeTok(p, "}")
	consumeKeyword(p, "from")
	d.From = consumeString(p)
	consumeOptionalSemi(p)
	return d
}

func parseDecl(p *parser) ast.Node {
	at := p.here()
	decos := parseDecorators(p)
	mods := parseModifiers(p, declModifiers)
	switch kw := peekKeyword(p); kw {
	case "class":
		return parseClass(p, at, mods, decos)
	case "function":
		return parseFunc(p, at, mods)
	case "const", "let":
		d := parseVarDecl(p)
		d.At, d.Mods = at, mods
		consumeOptionalSemi(p)
		return d
	default:
		p.errorf("expected declaration, found %q", peekText(p))
	}
	return nil
}

func parseDecorators(p *parser) []*ast.Decorator {
	var decos []*ast.Decorator
	for peekTok(p, "@") {
		at := p.here()
		consumeTok(p, "@")
		decos = append(decos, &ast.Decorator{At: at, Name: consumeIdentifier(p)})
	}
	return decos
}

// class Name extends Base { members }
func parseClass(p *parser, at ast.Pos, mods ast.Modifier, decos []*ast.Decorator) *ast.ClassDecl {
	consumeKeyword(p, "class")
	c := &ast.ClassDecl{At: at, Mods: mods, Decorators: decos, Name: consumeIdentifier(p)}
	if peekKeyword(p) == "extends" {
		consumeKeyword(p, "extends")
		c.Extends = parseIdent(p)
	}
	consumeTok(p, "{")
	for !peekTok(p, "}") {
		if peekTok(p, ";") {
			consumeTok(p, ";")
			continue
		}
		c.Members = append(c.Members, parseMember(p, c)...)
	}
	consumeTok(p, "}")
	return c
}

var declModifiers = map[string]ast.Modifier{
	"export":   ast.ModExport,
	"abstract": ast.ModAbstract,
}

var memberModifiers = map[string]ast.Modifier{
	"public":    ast.ModPublic,
	"private":   ast.ModPrivate,
	"protected": ast.ModProtected,
	"readonly":  ast.ModReadonly,
	"static":    ast.ModStatic,
	"abstract":  ast.ModAbstract,
}

// parseModifiers consumes modifier keywords. A keyword directly
// followed by ( : = ; or ? is a member name, not a modifier.
func parseModifiers(p *parser, allowed map[string]ast.Modifier) ast.Modifier {
	var mods ast.Modifier
	for {
		kw, pos := scanIdentifier(p.buf, p.pos)
		m, ok := allowed[kw]
		if !ok {
			return mods
		}
		if next := scanPunct(p.buf, pos); next == "(" || next == ":" || next == "=" || next == ";" || next == "?" {
			return mods
		}
		p.pos = pos
		mods |= m
	}
}

// parseMember parses one class member. A constructor with parameter
// properties yields the constructor followed by one property per
// parameter property.
func parseMember(p *parser, c *ast.ClassDecl) []ast.Member {
	at := p.here()
	decos := parseDecorators(p)
	mods := parseModifiers(p, memberModifiers)

	kind := ast.Method
	name := consumeIdentifier(p)
	if name == "get" || name == "set" {
		if next, pos := scanIdentifier(p.buf, p.pos); pos >= 0 {
			if name == "get" {
				kind = ast.Getter
			} else {
				kind = ast.Setter
			}
			name, p.pos = next, pos
		}
	} else if name == "constructor" && peekTok(p, "(") {
		kind = ast.Constructor
	}
	if peekTok(p, "?") {
		p.errorf("optional members are not supported")
	}

	if kind == ast.Method && !peekTok(p, "(") {
		prop := &ast.PropertyDecl{At: at, Name: name, Mods: mods, Decorators: decos, Class: c}
		if peekTok(p, ":") {
			consumeTok(p, ":")
			prop.Type = parseType(p)
		}
		if peekTok(p, "=") {
			consumeTok(p, "=")
			prop.Init = parseExpr(p)
		}
		consumeOptionalSemi(p)
		return []ast.Member{prop}
	}

	m := &ast.MethodDecl{At: at, Name: name, MethodKind: kind, Mods: mods, Decorators: decos, Class: c}
	m.Params = parseParams(p, kind == ast.Constructor)
	if peekTok(p, ":") {
		consumeTok(p, ":")
		m.Result = parseType(p)
	}
	if mods.Has(ast.ModAbstract) {
		consumeOptionalSemi(p)
	} else {
		m.Body = parseBlock(p)
	}
	members := []ast.Member{m}
	for _, param := range m.Params {
		if param.Mods != 0 {
			members = append(members, &ast.PropertyDecl{
				At:    param.At,
				Name:  param.Name,
				Mods:  param.Mods,
				Type:  param.Type,
				Class: c,
				Param: param,
			})
		}
	}
	return members
}

var paramModifiers = map[string]ast.Modifier{
	"public":    ast.ModPublic,
	"private":   ast.ModPrivate,
	"protected": ast.ModProtected,
	"readonly":  ast.ModReadonly,
}

// (p1: t1, public p2: t2)
func parseParams(p *parser, ctor bool) []*ast.Param {
	var params []*ast.Param
	consumeTok(p, "(")
	first := true
	for !peekTok(p, ")") {
		if first {
			first = false
		} else {
			consumeTok(p, ",")
		}
		param := &ast.Param{At: p.here()}
		if ctor {
			param.Mods = parseModifiers(p, paramModifiers)
		}
		param.Name = consumeIdentifier(p)
		if peekTok(p, "?") {
			p.errorf("optional parameters are not supported")
		}
		if peekTok(p, ":") {
			consumeTok(p, ":")
			param.Type = parseType(p)
		}
		params = append(params, param)
	}
	consumeTok(p, ")")
	return params
}

// function name(params): T { body }
func parseFunc(p *parser, at ast.Pos, mods ast.Modifier) *ast.FuncDecl {
	consumeKeyword(p, "function")
	f := &ast.FuncDecl{At: at, Mods: mods, Name: consumeIdentifier(p)}
	f.Params = parseParams(p, false)
	if peekTok(p, ":") {
		consumeTok(p, ":")
		f.Result = parseType(p)
	}
	f.Body = parseBlock(p)
	return f
}

// const name: T = init
func parseVarDecl(p *parser) *ast.VarDecl {
	d := &ast.VarDecl{At: p.here()}
	switch kw := peekKeyword(p); kw {
	case "const":
		d.Const = true
		consumeKeyword(p, kw)
	case "let":
		consumeKeyword(p, kw)
	default:
		p.errorf("expected const or let")
	}
	d.Name = consumeIdentifier(p)
	if peekTok(p, ":") {
		consumeTok(p, ":")
		d.Type = parseType(p)
	}
	if peekTok(p, "=") {
		consumeTok(p, "=")
		d.Init = parseExpr(p)
	} else if d.Const {
		p.errorf("const %s has no initializer", d.Name)
	}
	return d
}

// types

// A | B[] | [C, D] | Name<Args>
func parseType(p *parser) *ast.TypeExpr {
	at := p.here()
	if peekTok(p, "|") {
		consumeTok(p, "|")
	}
	t := parsePostfixType(p)
	if !peekTok(p, "|") {
		return t
	}
	u := &ast.TypeExpr{At: at, Union: []*ast.TypeExpr{t}}
	for peekTok(p, "|") {
		consumeTok(p, "|")
		u.Union = append(u.Union, parsePostfixType(p))
	}
	return u
}

func parsePostfixType(p *parser) *ast.TypeExpr {
	t := parsePrimaryType(p)
	for peekTok(p, "[") && scanTok(p.buf, scanTok(p.buf, p.pos, "["), "]") >= 0 {
		consumeTok(p, "[")
		consumeTok(p, "]")
		t = &ast.TypeExpr{At: t.At, Elem: t}
	}
	return t
}

func parsePrimaryType(p *parser) *ast.TypeExpr {
	at := p.here()
	switch {
	case peekTok(p, "("):
		consumeTok(p, "(")
		t := parseType(p)
		consumeTok(p, ")")
		return t
	case peekTok(p, "["):
		consumeTok(p, "[")
		t := &ast.TypeExpr{At: at, Tuple: []*ast.TypeExpr{}}
		for !peekTok(p, "]") {
			if len(t.Tuple) > 0 {
				consumeTok(p, ",")
			}
			t.Tuple = append(t.Tuple, parseType(p))
		}
		consumeTok(p, "]")
		return t
	}
	t := &ast.TypeExpr{At: at, Name: consumeIdentifier(p)}
	if peekTok(p, "<") {
		t.Args = parseTypeArgs(p)
	}
	return t
}

// <A, B>
func parseTypeArgs(p *parser) []*ast.TypeExpr {
	var args []*ast.TypeExpr
	consumeTok(p, "<")
	for !peekTok(p, ">") {
		if len(args) > 0 {
			consumeTok(p, ",")
		}
		args = append(args, parseType(p))
	}
	consumeTok(p, ">")
	return args
}

// tryTypeArgs parses explicit type arguments of a call. The text is
// taken as a comparison instead when it does not parse as type
// arguments followed by an argument list.
func tryTypeArgs(p *parser) (args []*ast.TypeExpr, ok bool) {
	save := p.pos
	defer func() {
		if val := recover(); val != nil {
			if _, isErr := val.(*Error); !isErr {
				panic(val)
			}
			p.pos, args, ok = save, nil, false
		}
	}()
	args = parseTypeArgs(p)
	if !peekTok(p, "(") {
		p.pos = save
		return nil, false
	}
	return args, true
}
