package transpile

import (
	"neochain/compiler/abi"
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/frontend"
	"neochain/compiler/syscall"
	"neochain/compiler/types"
)

// collectEvents finds the module level consts initialized with
// createEventHandler<T...>('name', 'param', ...).
func (p *Plan) collectEvents(f *ast.File) {
	decls := map[*ast.CallExpr]*ast.VarDecl{}
	for _, d := range f.Decls {
		if v, ok := d.(*ast.VarDecl); ok {
			if call, ok := ast.Unparen(v.Init).(*ast.CallExpr); ok {
				decls[call] = v
			}
		}
	}
	names := map[string]bool{}
	for _, d := range f.Decls {
		ast.Inspect(d, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || !p.isCreateEventHandler(call) {
				return true
			}
			decl := decls[call]
			if decl == nil {
				p.diags.Errorf(call, diag.InvalidContractEvent, "createEventHandler must initialize a module level const")
				return true
			}
			ev := p.event(decl, call)
			if ev == nil {
				return true
			}
			if names[ev.ABI.Name] {
				p.diags.Errorf(decl, diag.InvalidContractEvent, "duplicate event %s", ev.ABI.Name)
				return true
			}
			names[ev.ABI.Name] = true
			p.Events = append(p.Events, ev)
			p.events[decl] = ev
			return true
		})
	}
}

func (p *Plan) isCreateEventHandler(call *ast.CallExpr) bool {
	id, ok := ast.Unparen(call.Fun).(*ast.Ident)
	return ok && p.facts.SymbolOf(id).IsLib(frontend.CreateEventHandler)
}

func (p *Plan) event(decl *ast.VarDecl, call *ast.CallExpr) *Event {
	var strs []string
	for _, a := range call.Args {
		lit, ok := a.(*ast.StringLit)
		if !ok {
			p.diags.Errorf(a, diag.InvalidContractEvent, "event name and parameter names must be string literals")
			return nil
		}
		strs = append(strs, lit.Value)
	}
	if len(strs) == 0 {
		p.diags.Errorf(call, diag.InvalidContractEvent, "event %s has no name", decl.Name)
		return nil
	}
	t := p.facts.TypeOf(decl)
	if !frontend.IsEventHandler(t) {
		return nil
	}
	params := strs[1:]
	if len(params) != len(t.Elems) {
		p.diags.Errorf(call, diag.InvalidContractEvent, "event %s has %d parameter names for %d parameter types", strs[0], len(params), len(t.Elems))
		return nil
	}
	ev := &Event{Decl: decl, ABI: abi.Event{Name: strs[0], Parameters: []abi.Parameter{}}, Types: t.Elems}
	for i, name := range params {
		pt, m, ok := abiType(t.Elems[i], false)
		if !ok || !notifiable(t.Elems[i]) {
			p.diags.Errorf(call, diag.InvalidContractEvent, "event parameter %s has type %s which cannot be notified", name, t.Elems[i])
			return nil
		}
		ev.ABI.Parameters = append(ev.ABI.Parameters, abi.Parameter{Name: name, Type: pt})
		ev.Marshal = append(ev.Marshal, m)
	}
	return ev
}

// notifiable reports whether values of t can be passed to
// Neo.Runtime.Notify.
func notifiable(t *types.Type) bool {
	s, _ := syscall.Lookup("Neo.Runtime.Notify")
	return s.Rest.Type.IsOnlyType(t)
}
