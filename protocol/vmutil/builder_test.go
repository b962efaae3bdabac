package vmutil

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"

	"neochain/errors"
	"neochain/protocol/vm"
)

func TestAddInt64(t *testing.T) {
	cases := []struct {
		num     int64
		wantHex string
	}{
		{0, "00"},
		{1, "51"},
		{15, "5f"},
		{16, "60"},
		{17, "0111"},
		{127, "017f"},
		{128, "028000"},
		{255, "02ff00"},
		{256, "020001"},
		{65535, "03ffff00"},
		{-1, "4f"},
		{-2, "01fe"},
		{-65536, "030000ff"},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("adding %d", c.num), func(t *testing.T) {
			b := NewBuilder()
			b.AddInt64(c.num)
			prog, err := b.Build()
			if err != nil {
				t.Fatal(err)
			}
			want, err := hex.DecodeString(c.wantHex)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(prog, want) {
				t.Errorf("got %x, want %x", prog, want)
			}
		})
	}
}

func TestAddJump(t *testing.T) {
	cases := []struct {
		name    string
		wantHex string
		fn      func(t *testing.T, b *Builder)
	}{
		{
			"single jump single target not yet defined",
			"62040061",
			func(t *testing.T, b *Builder) {
				target := b.NewJumpTarget()
				b.AddJump(vm.OP_JMP, target)
				b.AddOp(vm.OP_NOP)
				b.SetJumpTarget(target)
			},
		},
		{
			"single jump single target already defined",
			"6162ffff",
			func(t *testing.T, b *Builder) {
				target := b.NewJumpTarget()
				b.SetJumpTarget(target)
				b.AddOp(vm.OP_NOP)
				b.AddJump(vm.OP_JMP, target)
			},
		},
		{
			"two jumps single target not yet defined",
			"630900616305006161",
			func(t *testing.T, b *Builder) {
				target := b.NewJumpTarget()
				b.AddJump(vm.OP_JMPIF, target)
				b.AddOp(vm.OP_NOP)
				b.AddJump(vm.OP_JMPIF, target)
				b.AddOp(vm.OP_NOP)
				b.AddOp(vm.OP_NOP)
				b.SetJumpTarget(target)
			},
		},
		{
			"call and jump to two targets",
			"650800640400616161",
			func(t *testing.T, b *Builder) {
				target1 := b.NewJumpTarget()
				target2 := b.NewJumpTarget()
				b.AddJump(vm.OP_CALL, target1)
				b.AddJump(vm.OP_JMPIFNOT, target2)
				b.AddOp(vm.OP_NOP)
				b.SetJumpTarget(target2)
				b.AddOp(vm.OP_NOP)
				b.SetJumpTarget(target1)
				b.AddOp(vm.OP_NOP)
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := NewBuilder()
			c.fn(t, b)
			prog, err := b.Build()
			if err != nil {
				t.Fatal(err)
			}
			want, err := hex.DecodeString(c.wantHex)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(prog, want) {
				t.Errorf("got %x, want %x", prog, want)
			}
		})
	}
}

func TestUnresolvedJump(t *testing.T) {
	b := NewBuilder()
	b.AddJump(vm.OP_JMP, b.NewJumpTarget())
	_, err := b.Build()
	if errors.Root(err) != ErrUnresolvedJump {
		t.Errorf("got error %v, want %v", err, ErrUnresolvedJump)
	}
}

func TestAddSysCall(t *testing.T) {
	b := NewBuilder()
	if err := b.AddSysCall("Neo.Runtime.Log"); err != nil {
		t.Fatal(err)
	}
	err := b.AddSysCall("Neo.Runtime.Nope")
	if errors.Root(err) != vm.ErrUnknownSysCall {
		t.Errorf("got error %v, want %v", err, vm.ErrUnknownSysCall)
	}
	prog, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	want := append([]byte{byte(vm.OP_SYSCALL), 15}, "Neo.Runtime.Log"...)
	if !bytes.Equal(prog, want) {
		t.Errorf("got %x, want %x", prog, want)
	}
}
