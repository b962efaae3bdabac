// Package codegen compiles a checked and planned contract file to a
// NEO VM script.
//
// Each syntax tree node kind has a compile function. Compile
// functions honor the visit options they are given: with PushValue
// they leave exactly one boxed value on the stack, without it they
// leave the stack as they found it, and with SetValue they store the
// value on top of the stack into the target they name.
//
// The script starts with the contract entry point. The functions it
// reaches are emitted after it, each once, in the order they are
// first referenced.
package codegen

import (
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/sb"
	"neochain/compiler/transpile"
	"neochain/compiler/types"
	"neochain/errors"
	"neochain/protocol/vm"
)

// ErrNoContract is returned by Compile for a plan without a contract
// class.
var ErrNoContract = errors.New("no contract to compile")

type compileFunc func(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions)

// compilers is filled in init: its functions refer back to the
// table through Visit.
var compilers [ast.NumKinds]compileFunc

func init() {
	compilers = [ast.NumKinds]compileFunc{
		ast.KindVar:      compileVarDecl,
		ast.KindBlock:    compileBlock,
		ast.KindExprStmt: compileExprStmt,
		ast.KindIf:       compileIf,
		ast.KindWhile:    compileWhile,
		ast.KindFor:      compileFor,
		ast.KindReturn:   compileReturn,
		ast.KindThrow:    compileThrow,
		ast.KindBreak:    compileBranch,
		ast.KindContinue: compileBranch,

		ast.KindIdent:     compileIdent,
		ast.KindThis:      compileThis,
		ast.KindSuper:     compileThis,
		ast.KindNumber:    compileNumber,
		ast.KindString:    compileString,
		ast.KindBool:      compileBool,
		ast.KindNull:      compileNull,
		ast.KindUndefined: compileUndefined,
		ast.KindArray:     compileArray,
		ast.KindSelector:  compileSelector,
		ast.KindIndex:     compileIndex,
		ast.KindCall:      compileCall,
		ast.KindNew:       compileNew,
		ast.KindUnary:     compileUnary,
		ast.KindBinary:    compileBinary,
		ast.KindAssign:    compileAssign,
		ast.KindCond:      compileCond,
		ast.KindAs:        compileAs,
		ast.KindParen:     compileParen,
	}
}

type compiler struct {
	facts transpile.Facts
	plan  *transpile.Plan
	diags *diag.Sink

	fns     map[fnKey]*function
	pending []*function

	// cur is the function being emitted.
	cur *function
}

// Visit implements sb.Visitor.
func (c *compiler) Visit(b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	if n == nil {
		return
	}
	if fn := compilers[n.Kind()]; fn != nil {
		fn(c, b, n, c.scoped(opts))
		return
	}
	b.Unsupported(n)
}

// scoped fills in the class options of the function being emitted.
func (c *compiler) scoped(opts sb.VisitOptions) sb.VisitOptions {
	if c.cur == nil {
		return opts
	}
	if opts.SuperClass == nil && c.cur.scope.SuperClass != nil {
		opts = opts.WithSuperClass(c.cur.scope.SuperClass)
	}
	if !opts.IsSmartContract && c.cur.scope.IsSmartContract {
		opts = opts.WithSmartContract()
	}
	return opts
}

// Compile generates the script of f following plan. Problems in the
// source are reported to diags; the returned error is for programs
// that cannot be assembled at all.
func Compile(facts transpile.Facts, f *ast.File, plan *transpile.Plan, diags *diag.Sink) (*sb.Program, error) {
	if plan.Contract == nil {
		return nil, ErrNoContract
	}
	c := &compiler{
		facts: facts,
		plan:  plan,
		diags: diags,
		fns:   map[fnKey]*function{},
	}
	b := sb.New(facts, diags)
	b.SetVisitor(c)
	c.entryPoint(b)
	for len(c.pending) > 0 {
		fn := c.pending[0]
		c.pending = c.pending[1:]
		c.emitFunction(b, fn)
	}
	prog, err := b.Build()
	return prog, errors.Wrap(err, "assembling contract")
}

// push compiles e leaving its value, cast to t when t is set.
func (c *compiler) push(b *sb.ScriptBuilder, e ast.Expr, t *types.Type) {
	b.Visit(e, sb.VisitOptions{PushValue: true, Cast: t})
}

// discard drops a value a compile function always pushes when the
// caller did not ask for it.
func discard(b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	if !opts.PushValue {
		b.EmitOp(n, vm.OP_DROP)
	}
}
