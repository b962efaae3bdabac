package transpile

import (
	"strings"

	"neochain/compiler/abi"
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/frontend"
	"neochain/compiler/types"
)

// DeployName is the ABI name of the synthesized deploy function.
const DeployName = "deploy"

// SetterName returns the ABI name of the setter of field or accessor
// name.
func SetterName(name string) string {
	if name == "" {
		return "set"
	}
	return "set" + strings.ToUpper(name[:1]) + name[1:]
}

// collectEntries derives the entry point functions of the contract
// from the public instance members of its class chain. A member
// overridden in a derived class is taken from the derived class.
func (p *Plan) collectEntries() {
	type slot struct {
		name string
		kind ast.MethodKind
	}
	seen := map[slot]bool{}
	claim := func(name string, kind ast.MethodKind) bool {
		s := slot{name, kind}
		if seen[s] {
			return false
		}
		seen[s] = true
		return true
	}

	if p.NeedsInit(p.Contract) {
		p.Deploy = p.deployEntry()
		p.Entries = append(p.Entries, p.Deploy)
	}
	for cls := p.Contract; cls != nil; cls = p.facts.BaseOf(cls) {
		for _, m := range cls.Members {
			if !m.Modifiers().IsPublic() || m.Modifiers().Has(ast.ModStatic) {
				continue
			}
			switch m := m.(type) {
			case *ast.PropertyDecl:
				if !claim(m.Name, ast.Getter) {
					continue
				}
				writable := !m.Mods.Has(ast.ModReadonly) && claim(m.Name, ast.Setter)
				p.fieldEntries(m, writable)
			case *ast.MethodDecl:
				if m.MethodKind == ast.Constructor || m.Name == DeployName || !claim(m.Name, m.MethodKind) {
					continue
				}
				if e := p.methodEntry(m); e != nil {
					p.Entries = append(p.Entries, e)
				}
			}
		}
	}

	byName := map[string]*Entry{}
	for _, e := range p.Entries {
		if prev := byName[e.ABI.Name]; prev != nil {
			p.diags.Errorf(e.node(p.Contract), diag.InvalidContractMethod,
				"duplicate contract method %s", e.ABI.Name)
			continue
		}
		byName[e.ABI.Name] = e
	}
}

// node returns the declaration an entry stems from.
func (e *Entry) node(contract *ast.ClassDecl) ast.Node {
	switch {
	case e.Method != nil:
		return e.Method
	case e.Field != nil:
		return e.Field
	}
	return contract
}

func (p *Plan) fieldEntries(f *ast.PropertyDecl, writable bool) {
	kind := p.fields[f]
	if kind == MapField || kind == SetField {
		p.diags.Errorf(f, diag.InvalidContractType, "structured storage %s cannot be public", f.Name)
		return
	}
	t := p.facts.TypeOf(f)
	pt, marshal, ok := abiType(t, true)
	if !ok || pt == abi.Void {
		p.diags.Errorf(f, diag.InvalidContractType, "public field %s has type %s which cannot cross the contract boundary", f.Name, t)
		return
	}
	verify := p.facts.HasDecorator(f, frontend.Verify)
	p.Entries = append(p.Entries, &Entry{
		ABI:     abi.Function{Name: f.Name, Constant: true, Verify: verify, Parameters: []abi.Parameter{}, ReturnType: pt},
		Kind:    EntryFieldGetter,
		Field:   f,
		Params:  []Param{},
		Result:  t,
		Marshal: marshal,
	})
	if !writable || kind != StorageField {
		return
	}
	_, in, ok := abiType(t, false)
	if !ok {
		p.diags.Errorf(f, diag.InvalidContractType, "public field %s has type %s which cannot be set from outside", f.Name, t)
		return
	}
	p.Entries = append(p.Entries, &Entry{
		ABI: abi.Function{
			Name:       SetterName(f.Name),
			Parameters: []abi.Parameter{{Name: "value", Type: pt}},
			ReturnType: abi.Void,
			Verify:     verify,
		},
		Kind:   EntryFieldSetter,
		Field:  f,
		Params: []Param{{Name: "value", Type: t, Marshal: in}},
		Result: types.VoidType,
	})
}

func (p *Plan) methodEntry(m *ast.MethodDecl) *Entry {
	e := &Entry{Method: m}
	name := m.Name
	switch m.MethodKind {
	case ast.Getter:
		e.Kind = EntryGetter
		e.ABI.Constant = true
	case ast.Setter:
		e.Kind = EntrySetter
		name = SetterName(m.Name)
	default:
		e.Kind = EntryMethod
		e.ABI.Constant = p.facts.HasDecorator(m, frontend.Constant)
	}
	e.ABI.Verify = p.facts.HasDecorator(m, frontend.Verify)
	e.ABI.Name = name
	params, ok := p.params(m.Params)
	if !ok {
		return nil
	}
	e.Params = params
	e.ABI.Parameters = abiParams(params)

	e.Result = types.VoidType
	if m.MethodKind != ast.Setter {
		e.Result = p.facts.TypeOf(m)
	}
	pt, marshal, ok := abiType(e.Result, true)
	if !ok {
		p.diags.Errorf(m, diag.InvalidContractType, "%s returns %s which cannot cross the contract boundary", m.Name, e.Result)
		return nil
	}
	e.ABI.ReturnType = pt
	e.Marshal = marshal
	return e
}

func (p *Plan) deployEntry() *Entry {
	params, _ := p.params(p.InitParams(p.Contract))
	_, marshal, _ := abiType(types.BooleanType, true)
	return &Entry{
		ABI: abi.Function{
			Name:       DeployName,
			Parameters: abiParams(params),
			ReturnType: abi.Boolean,
		},
		Kind:    EntryDeploy,
		Params:  params,
		Result:  types.BooleanType,
		Marshal: marshal,
	}
}

func (p *Plan) params(ps []*ast.Param) ([]Param, bool) {
	res := []Param{}
	ok := true
	for _, param := range ps {
		t := p.facts.TypeOf(param)
		_, marshal, valid := abiType(t, false)
		if !valid || marshal == nil {
			p.diags.Errorf(param, diag.InvalidContractType, "parameter %s has type %s which cannot cross the contract boundary", param.Name, t)
			ok = false
			continue
		}
		res = append(res, Param{Name: param.Name, Type: t, Marshal: marshal})
	}
	return res, ok
}

func abiParams(ps []Param) []abi.Parameter {
	res := []abi.Parameter{}
	for _, param := range ps {
		pt, _, _ := abiType(param.Type, false)
		res = append(res, abi.Parameter{Name: param.Name, Type: pt})
	}
	return res
}

// findOwner looks for the field named owner holding an address.
func (p *Plan) findOwner() {
	for cls := p.Contract; cls != nil; cls = p.facts.BaseOf(cls) {
		for _, m := range cls.Lookup("owner") {
			f, ok := m.(*ast.PropertyDecl)
			if !ok {
				continue
			}
			kind := p.fields[f]
			if (kind == StorageField || kind == ConstantField) && types.IsOnlyBuffer(p.facts.TypeOf(f)) {
				p.Owner = f
			}
			return
		}
	}
}
