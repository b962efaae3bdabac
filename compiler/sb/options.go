package sb

import (
	"neochain/compiler/ast"
	"neochain/compiler/types"
)

// VisitOptions is threaded by value through every node compiler and
// helper. Callees derive options for their children with the With
// and No methods and never modify the caller's copy.
type VisitOptions struct {
	// PushValue requires the emitted code to leave exactly one new
	// value on the stack. Without it the emitted code must leave the
	// stack depth unchanged.
	PushValue bool

	// SetValue switches a load of the target to a store. The value
	// to store is on top of the stack when the store is emitted.
	SetValue bool

	// Cast is the expected type of an expression whose own type is
	// ambiguous, such as a syscall returning a union.
	Cast *types.Type

	// SuperClass is the base class of the class whose body is being
	// compiled. super may only be compiled when it is set or
	// IsSmartContract is.
	SuperClass *ast.ClassDecl

	// IsSmartContract is set in the body of a class extending the
	// contract library class directly.
	IsSmartContract bool
}

func (o VisitOptions) WithPushValue() VisitOptions { o.PushValue = true; return o }
func (o VisitOptions) NoPushValue() VisitOptions   { o.PushValue = false; return o }
func (o VisitOptions) WithSetValue() VisitOptions  { o.SetValue = true; return o }
func (o VisitOptions) NoSetValue() VisitOptions    { o.SetValue = false; return o }
func (o VisitOptions) NoCast() VisitOptions        { o.Cast = nil; return o }

func (o VisitOptions) WithCast(t *types.Type) VisitOptions {
	o.Cast = t
	return o
}

func (o VisitOptions) WithSuperClass(c *ast.ClassDecl) VisitOptions {
	o.SuperClass = c
	return o
}

func (o VisitOptions) WithSmartContract() VisitOptions {
	o.IsSmartContract = true
	return o
}
