package transpile

import (
	"neochain/compiler/abi"
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/frontend"
	"neochain/compiler/syscall"
	"neochain/compiler/types"
)

func (p *Plan) classifyFields(cls *ast.ClassDecl) {
	contract := p.IsContract(cls)
	for _, m := range cls.Members {
		f, ok := m.(*ast.PropertyDecl)
		if !ok {
			continue
		}
		t := p.facts.TypeOf(f)
		structured := types.IsOnlyLib(t, frontend.MapStorage) || types.IsOnlyLib(t, frontend.SetStorage)
		switch {
		case !contract:
			if structured {
				p.diags.Errorf(f, diag.UnsupportedSyntax, "%s: structured storage is only available to contracts", f.Name)
			}
			p.fields[f] = ObjectField
		case structured:
			kind := MapField
			if types.IsOnlyLib(t, frontend.SetStorage) {
				kind = SetField
			}
			if _, ok := ast.Unparen(f.Init).(*ast.NewExpr); !ok || f.Param != nil {
				p.diags.Errorf(f, diag.InvalidContractType, "%s must be initialized with new %s()", f.Name, t.Name)
			}
			p.fields[f] = kind
		case f.Mods.Has(ast.ModReadonly) && f.Param == nil && isLiteral(f.Init) && !p.assignedInConstructor(f):
			p.fields[f] = ConstantField
		default:
			if !storable(t) {
				p.diags.Errorf(f, diag.InvalidContractType, "%s has type %s which cannot be kept in storage", f.Name, t)
			}
			p.fields[f] = StorageField
		}
	}
}

func (p *Plan) assignedInConstructor(f *ast.PropertyDecl) bool {
	ctor := Constructor(f.Class)
	if ctor == nil || ctor.Body == nil {
		return false
	}
	found := false
	ast.Inspect(ctor.Body, func(n ast.Node) bool {
		if a, ok := n.(*ast.AssignExpr); ok && p.fieldOf(a.Target) == f {
			found = true
		}
		return !found
	})
	return found
}

// fieldOf returns the field a member access resolves to, or nil.
func (p *Plan) fieldOf(e ast.Expr) *ast.PropertyDecl {
	sel, ok := ast.Unparen(e).(*ast.SelectorExpr)
	if !ok {
		return nil
	}
	sym := p.facts.SymbolOf(sel)
	if sym == nil || sym.Kind != types.SymMember {
		return nil
	}
	f, _ := sym.Decl.(*ast.PropertyDecl)
	return f
}

func isLiteral(e ast.Expr) bool {
	switch e := ast.Unparen(e).(type) {
	case *ast.NumberLit, *ast.StringLit, *ast.BoolLit, *ast.NullLit, *ast.UndefinedLit:
		return true
	case *ast.ArrayLit:
		for _, x := range e.Elems {
			if !isLiteral(x) {
				return false
			}
		}
		return true
	}
	return false
}

// storable reports whether values of t survive a storage round trip.
// Undefined reads back as a missing key.
func storable(t *types.Type) bool {
	if t == nil || t.Kind == types.Any {
		return true
	}
	for _, m := range types.Members(t) {
		if m.Kind == types.Undefined {
			continue
		}
		if !syscall.Serializable.IsOnlyType(m) {
			return false
		}
	}
	return true
}

// abiType maps a source type to its ABI type and the marshalling
// between raw invocation items and boxed values. Results may be
// optional, as T | undefined; parameters may not.
func abiType(t *types.Type, result bool) (abi.ParamType, syscall.Type, bool) {
	switch {
	case t == nil:
		return "", nil, false
	case t.Kind == types.Void:
		return abi.Void, nil, result
	case types.IsUnion(t) && types.HasUndefined(t):
		if !result {
			return "", nil, false
		}
		inner := types.Without(t, func(m *types.Type) bool { return m.Kind == types.Undefined })
		pt, m, ok := abiType(inner, true)
		if !ok || m == nil || types.IsUnion(inner) {
			return "", nil, false
		}
		return pt, syscall.Union(m, syscall.Undefined), true
	case types.IsOnlyBoolean(t):
		return abi.Boolean, syscall.Boolean, true
	case types.IsOnlyNumber(t):
		return abi.Integer, syscall.Number, true
	case types.IsOnlyString(t):
		return abi.String, syscall.String, true
	case types.IsOnlyBrand(t, frontend.Address):
		return abi.Hash160, syscall.Buffer, true
	case types.IsOnlyBrand(t, frontend.Hash256):
		return abi.Hash256, syscall.Buffer, true
	case types.IsOnlyBrand(t, frontend.PublicKey):
		return abi.PublicKey, syscall.Buffer, true
	case types.IsOnlyBrand(t, frontend.Signature):
		return abi.Signature, syscall.Buffer, true
	case types.IsOnlyBuffer(t):
		return abi.ByteArray, syscall.Buffer, true
	case t.Kind == types.Array:
		_, m, ok := abiType(t.Elem, false)
		if !ok {
			return "", nil, false
		}
		return abi.Array, syscall.Array(m), true
	}
	return "", nil, false
}
