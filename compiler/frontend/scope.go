package frontend

import "neochain/compiler/types"

type scope struct {
	parent *scope
	syms   map[string]*types.Symbol
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, syms: map[string]*types.Symbol{}}
}

func (s *scope) declare(sym *types.Symbol) {
	s.syms[sym.Name] = sym
}

func (s *scope) lookup(name string) *types.Symbol {
	for ; s != nil; s = s.parent {
		if sym, ok := s.syms[name]; ok {
			return sym
		}
	}
	return nil
}
