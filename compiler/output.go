package compiler

import (
	"fmt"
	"sort"
	"strings"

	"neochain/compiler/sb"
	"neochain/encoding/json"
	"neochain/errors"
	"neochain/protocol/vm"
)

// SourceMap is the debugging companion of a compiled script. Each
// mapping gives the source position of the instruction starting at
// Offset.
type SourceMap struct {
	File     string        `json:"file"`
	Hash     string        `json:"hash"`
	Script   json.HexBytes `json:"script"`
	Mappings []sb.Mapping  `json:"mappings"`
}

// SourceMapFor returns the source map of a successful compilation of
// file.
func (r *Result) SourceMapFor(file string) *SourceMap {
	m := &SourceMap{File: file, Script: r.Script, Mappings: r.SourceMap}
	if r.Manifest != nil {
		m.Hash = r.Manifest.Hash
	}
	if m.Mappings == nil {
		m.Mappings = []sb.Mapping{}
	}
	return m
}

// Listing disassembles the script one instruction per line, each
// annotated with the source position it was compiled from.
//
//	0012  3:5   PUSH2
func (r *Result) Listing() (string, error) {
	insts, err := vm.ParseProgram(r.Script)
	if err != nil {
		return "", errors.Wrap(err, "disassembling")
	}
	maps := append([]sb.Mapping(nil), r.SourceMap...)
	sort.SliceStable(maps, func(i, j int) bool { return maps[i].Offset < maps[j].Offset })

	var b strings.Builder
	pc, mi := 0, 0
	var pos string
	for _, inst := range insts {
		for mi < len(maps) && maps[mi].Offset <= pc {
			pos = fmt.Sprintf("%d:%d", maps[mi].Line, maps[mi].Col)
			mi++
		}
		fmt.Fprintf(&b, "%04x  %-6s  %s\n", pc, pos, describe(inst, pc))
		pc += int(inst.Len)
	}
	return b.String(), nil
}

func describe(inst vm.Instruction, pc int) string {
	switch {
	case inst.Op == vm.OP_PUSH0, inst.Op == vm.OP_PUSHM1, inst.Op >= vm.OP_PUSH1 && inst.Op <= vm.OP_PUSH16:
		return inst.Op.String()
	case inst.IsPushdata():
		return fmt.Sprintf("PUSH 0x%x", inst.Data)
	case inst.Op.IsJump():
		return fmt.Sprintf("%s %04x", inst.Op, pc+inst.Offset())
	case inst.Op == vm.OP_SYSCALL:
		return "SYSCALL " + string(inst.Data)
	case inst.Op == vm.OP_APPCALL || inst.Op == vm.OP_TAILCALL:
		return fmt.Sprintf("%s 0x%x", inst.Op, inst.Data)
	}
	return inst.Op.String()
}
