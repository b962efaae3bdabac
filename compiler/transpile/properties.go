package transpile

import (
	"neochain/compiler/ast"
	"neochain/compiler/frontend"
)

// Syscalls whose presence decides a contract property.
var (
	storageWrites = map[string]bool{"Neo.Storage.Put": true, "Neo.Storage.Delete": true}
	payableReads  = map[string]bool{"Neo.Transaction.GetOutputs": true}
)

// Mutating methods of the structured storage classes.
var structuredWrites = map[string]bool{"set": true, "add": true, "delete": true}

// deriveProperties decides the contract properties syntactically:
// storage when anything may write storage, payable when the
// transaction outputs are inspected. Dynamic invocation is never
// needed because every contract call has a literal target.
func (p *Plan) deriveProperties(f *ast.File) {
	props := &p.Properties
	props.Storage = p.Deploy != nil
	for _, e := range p.Entries {
		if e.Kind == EntryFieldSetter {
			props.Storage = true
		}
	}
	for _, d := range f.Decls {
		ast.Inspect(d, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.AssignExpr:
				if fd := p.fieldOf(n.Target); fd != nil && p.fields[fd] == StorageField {
					props.Storage = true
				}
			case *ast.CallExpr:
				if name, ok := p.sysCallName(n); ok {
					props.Storage = props.Storage || storageWrites[name]
					props.Payable = props.Payable || payableReads[name]
				}
				if sel, ok := ast.Unparen(n.Fun).(*ast.SelectorExpr); ok && structuredWrites[sel.Sel] {
					if fd := p.fieldOf(sel.X); fd != nil && (p.fields[fd] == MapField || p.fields[fd] == SetField) {
						props.Storage = true
					}
				}
			}
			return true
		})
	}
}

// sysCallName returns the literal syscall name of syscall('name', ...).
func (p *Plan) sysCallName(call *ast.CallExpr) (string, bool) {
	id, ok := ast.Unparen(call.Fun).(*ast.Ident)
	if !ok || !p.facts.SymbolOf(id).IsLib(frontend.SysCall) || len(call.Args) == 0 {
		return "", false
	}
	lit, ok := call.Args[0].(*ast.StringLit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}
