package vmtest

import (
	"testing"

	"neochain/errors"
	"neochain/protocol/vm"
)

func TestStorage(t *testing.T) {
	prog, err := vm.Assemble(`
		'v' 'k' SYSCALL:Neo.Storage.GetContext SYSCALL:Neo.Storage.Put
		'k' SYSCALL:Neo.Storage.GetContext SYSCALL:Neo.Storage.Get
		'missing' SYSCALL:Neo.Storage.GetReadOnlyContext SYSCALL:Neo.Storage.Get
	`)
	if err != nil {
		t.Fatal(err)
	}
	h := New()
	m, err := vm.Execute(prog, h)
	if err != nil {
		t.Fatal(err)
	}
	stack := m.Stack()
	if len(stack) != 2 {
		t.Fatalf("got %d stack items, want 2", len(stack))
	}
	if got := string(vm.Bytes(stack[0])); got != "v" {
		t.Errorf("got %q, want %q", got, "v")
	}
	if got := vm.Bytes(stack[1]); len(got) != 0 {
		t.Errorf("got %x for missing key, want empty", got)
	}
	if v, ok := h.Get(m.ScriptHash(), []byte("k")); !ok || string(v) != "v" {
		t.Errorf("stored value = %q, %v", v, ok)
	}
}

func TestReadOnlyPut(t *testing.T) {
	prog, err := vm.Assemble("'v' 'k' SYSCALL:Neo.Storage.GetReadOnlyContext SYSCALL:Neo.Storage.Put")
	if err != nil {
		t.Fatal(err)
	}
	_, err = vm.Execute(prog, New())
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("got error %v, want %v", err, ErrReadOnly)
	}
}

func TestFind(t *testing.T) {
	prog, err := vm.Assemble(`
		2 'a2' SYSCALL:Neo.Storage.GetContext SYSCALL:Neo.Storage.Put
		1 'a1' SYSCALL:Neo.Storage.GetContext SYSCALL:Neo.Storage.Put
		3 'b1' SYSCALL:Neo.Storage.GetContext SYSCALL:Neo.Storage.Put
		'a' SYSCALL:Neo.Storage.GetContext SYSCALL:Neo.Storage.Find
		$loop
		DUP SYSCALL:Neo.Enumerator.Next JMPIFNOT:$done
		DUP SYSCALL:Neo.Iterator.Key TOALTSTACK
		DUP SYSCALL:Neo.Enumerator.Value TOALTSTACK
		JMP:$loop
		$done DROP
		FROMALTSTACK FROMALTSTACK FROMALTSTACK FROMALTSTACK
	`)
	if err != nil {
		t.Fatal(err)
	}
	m, err := vm.Execute(prog, New())
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, it := range m.Stack() {
		got = append(got, vm.Format(it))
	}
	want := []string{"0x02", "0x6132", "0x01", "0x6131"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNotifyAndWitness(t *testing.T) {
	h := New()
	var owner [20]byte
	owner[0] = 1
	h.Witnesses[owner] = true

	prog, err := vm.Assemble("'transfer' 1 PACK SYSCALL:Neo.Runtime.Notify 0x0100000000000000000000000000000000000000 SYSCALL:Neo.Runtime.CheckWitness")
	if err != nil {
		t.Fatal(err)
	}
	m, err := vm.Execute(prog, h)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Notifications) != 1 || vm.Format(h.Notifications[0].State) != "[0x7472616e73666572]" {
		t.Errorf("got notifications %v", h.Notifications)
	}
	if res, _ := m.Result(); res != vm.Boolean(true) {
		t.Errorf("CheckWitness = %v, want true", res)
	}
}

func TestAppCall(t *testing.T) {
	h := New()
	callee, err := vm.Assemble("DROP DROP 42 RET")
	if err != nil {
		t.Fatal(err)
	}
	hash := h.Deploy(callee)
	b := []byte{byte(vm.OP_PUSH0), byte(vm.OP_PUSH0), byte(vm.OP_APPCALL)}
	b = append(b, hash[:]...)
	b = append(b, byte(vm.OP_INC))
	m, err := vm.Execute(b, h)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Result(); vm.Format(got) != "43" {
		t.Errorf("got %s, want 43", vm.Format(got))
	}
}
