// Package transpile plans the lowering of a contract: how every class
// field is stored, which members the entry point dispatches to,
// whether a deploy function is synthesized, which events exist and
// which contract properties the source needs.
//
// Build only inspects the checked syntax tree. Code generation follows
// the resulting Plan.
package transpile

import (
	"fmt"

	"neochain/compiler/abi"
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/sb"
	"neochain/compiler/syscall"
	"neochain/compiler/types"
)

// Facts is what lowering needs to know about the checked file.
type Facts interface {
	sb.Facts

	// BaseOf returns the user class cls extends, or nil.
	BaseOf(cls *ast.ClassDecl) *ast.ClassDecl

	// ExtendsSmartContract reports whether cls is a contract class.
	ExtendsSmartContract(cls *ast.ClassDecl) bool
}

// FieldKind says how a class field is stored.
type FieldKind int

const (
	// ObjectField is a property of a plain object.
	ObjectField FieldKind = iota

	// StorageField is kept in contract storage under the field name.
	StorageField

	// ConstantField is a readonly contract field with a literal
	// initializer. Reading it evaluates the initializer.
	ConstantField

	// MapField and SetField are structured storage handles. Their
	// entries live in contract storage under a prefix derived from
	// the field name.
	MapField
	SetField
)

var fieldKindNames = [...]string{"object", "storage", "constant", "map", "set"}

func (k FieldKind) String() string { return fieldKindNames[k] }

// EntryKind says what an entry point function does.
type EntryKind int

const (
	EntryMethod EntryKind = iota
	EntryGetter
	EntrySetter
	EntryFieldGetter
	EntryFieldSetter
	EntryDeploy
)

// Param is a parameter of an entry point function.
type Param struct {
	Name string
	Type *types.Type

	// Marshal converts between the raw invocation argument and the
	// boxed value.
	Marshal syscall.Type
}

// Entry is a function the entry point dispatches to by name.
type Entry struct {
	ABI  abi.Function
	Kind EntryKind

	// Method is set for EntryMethod, EntryGetter and EntrySetter.
	Method *ast.MethodDecl

	// Field is set for EntryFieldGetter and EntryFieldSetter.
	Field *ast.PropertyDecl

	Params []Param
	Result *types.Type

	// Marshal converts the boxed result for the invoker. It is nil
	// for void results.
	Marshal syscall.Type
}

// Event is an event handler declared with createEventHandler.
type Event struct {
	Decl  *ast.VarDecl
	ABI   abi.Event
	Types []*types.Type

	// Marshal holds, per parameter, the marshalling an argument must
	// satisfy statically.
	Marshal []syscall.Type
}

// Plan is the lowering plan of one file.
type Plan struct {
	// Contract is the class compiled to the contract entry point. It
	// is nil when the file has none.
	Contract *ast.ClassDecl

	// Entries are the dispatch targets of the application trigger in
	// ABI order.
	Entries []*Entry

	// Deploy is the synthesized deploy entry, or nil.
	Deploy *Entry

	Events     []*Event
	Properties abi.Properties

	// Owner is the field checked with CheckWitness when a
	// verification invocation names no @verify method.
	Owner *ast.PropertyDecl

	facts  Facts
	diags  *diag.Sink
	fields map[*ast.PropertyDecl]FieldKind
	events map[*ast.VarDecl]*Event
}

// Build plans file f. Problems are reported to diags.
func Build(facts Facts, f *ast.File, diags *diag.Sink) *Plan {
	p := &Plan{
		facts:  facts,
		diags:  diags,
		fields: map[*ast.PropertyDecl]FieldKind{},
		events: map[*ast.VarDecl]*Event{},
	}
	var classes []*ast.ClassDecl
	for _, d := range f.Decls {
		if cls, ok := d.(*ast.ClassDecl); ok {
			classes = append(classes, cls)
		}
	}
	for _, cls := range classes {
		p.classifyFields(cls)
	}
	p.findContract(classes)
	p.check(f)
	p.collectEvents(f)
	if p.Contract != nil {
		p.collectEntries()
		p.findOwner()
	}
	p.deriveProperties(f)
	return p
}

// Field returns the storage kind of a field.
func (p *Plan) Field(d *ast.PropertyDecl) FieldKind { return p.fields[d] }

// Event returns the event declared by d, or nil.
func (p *Plan) Event(d *ast.VarDecl) *Event { return p.events[d] }

// IsContract reports whether instances of cls are the contract.
func (p *Plan) IsContract(cls *ast.ClassDecl) bool {
	return cls != nil && p.facts.ExtendsSmartContract(cls)
}

// Verify returns the entries marked @verify.
func (p *Plan) Verify() []*Entry {
	var res []*Entry
	for _, e := range p.Entries {
		if e.ABI.Verify {
			res = append(res, e)
		}
	}
	return res
}

// Functions returns the ABI functions in dispatch order.
func (p *Plan) Functions() []abi.Function {
	res := make([]abi.Function, len(p.Entries))
	for i, e := range p.Entries {
		res[i] = e.ABI
	}
	return res
}

// ABIEvents returns the ABI events in declaration order.
func (p *Plan) ABIEvents() []abi.Event {
	res := make([]abi.Event, len(p.Events))
	for i, e := range p.Events {
		res[i] = e.ABI
	}
	return res
}

// Constructor returns the constructor declared by cls itself.
func Constructor(cls *ast.ClassDecl) *ast.MethodDecl {
	for _, m := range cls.Members {
		if md, ok := m.(*ast.MethodDecl); ok && md.MethodKind == ast.Constructor {
			return md
		}
	}
	return nil
}

// InitParams returns the parameters of the nearest constructor of
// cls or its bases. A class without a constructor takes the
// parameters of its base.
func (p *Plan) InitParams(cls *ast.ClassDecl) []*ast.Param {
	for c := cls; c != nil; c = p.facts.BaseOf(c) {
		if ctor := Constructor(c); ctor != nil {
			return ctor.Params
		}
	}
	return nil
}

// NeedsInit reports whether constructing cls runs any code: a
// constructor, a parameter property or a field initializer anywhere
// in its class chain.
func (p *Plan) NeedsInit(cls *ast.ClassDecl) bool {
	for c := cls; c != nil; c = p.facts.BaseOf(c) {
		if p.ownInit(c) {
			return true
		}
	}
	return false
}

func (p *Plan) ownInit(cls *ast.ClassDecl) bool {
	if Constructor(cls) != nil {
		return true
	}
	for _, m := range cls.Members {
		if f, ok := m.(*ast.PropertyDecl); ok && p.Initialized(f) {
			return true
		}
	}
	return false
}

// Initialized reports whether construction stores a value into f.
func (p *Plan) Initialized(f *ast.PropertyDecl) bool {
	if f.Mods.Has(ast.ModStatic) {
		return false
	}
	switch p.fields[f] {
	case ObjectField, StorageField:
		return f.Param != nil || f.Init != nil
	}
	return false
}

// Override applies the property settings of contract metadata. A
// property the source needs cannot be switched off.
func (p *Plan) Override(o abi.PropertyOverrides) {
	pos := ast.Pos{Line: 1}
	if p.Contract != nil {
		pos = p.Contract.Pos()
	}
	set := func(name string, derived *bool, v *bool) {
		if v == nil {
			return
		}
		if *derived && !*v {
			p.diags.ReportAt(pos, diag.Error, diag.InvalidContractProperties,
				fmt.Sprintf("contract needs the %s property, metadata disables it", name))
			return
		}
		*derived = *v
	}
	set("storage", &p.Properties.Storage, o.Storage)
	set("dynamicInvoke", &p.Properties.DynamicInvoke, o.DynamicInvoke)
	set("payable", &p.Properties.Payable, o.Payable)
}

// findContract picks the contract class: the contract class no other
// class extends. Of several such classes the exported ones count.
func (p *Plan) findContract(classes []*ast.ClassDecl) {
	extended := map[*ast.ClassDecl]bool{}
	for _, cls := range classes {
		if base := p.facts.BaseOf(cls); base != nil {
			extended[base] = true
		}
	}
	var leaves, exported []*ast.ClassDecl
	for _, cls := range classes {
		if !p.IsContract(cls) || extended[cls] || cls.Mods.Has(ast.ModAbstract) {
			continue
		}
		leaves = append(leaves, cls)
		if cls.Mods.Has(ast.ModExport) {
			exported = append(exported, cls)
		}
	}
	if len(leaves) > 1 && len(exported) > 0 {
		leaves = exported
	}
	switch len(leaves) {
	case 0:
		p.diags.ReportAt(ast.Pos{Line: 1}, diag.Error, diag.InvalidContract, "no class extends SmartContract")
	case 1:
		p.Contract = leaves[0]
	default:
		p.diags.Errorf(leaves[1], diag.InvalidContract, "more than one contract class: %s and %s", leaves[0].Name, leaves[1].Name)
	}
}
