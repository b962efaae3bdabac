// Package vmtest provides an in-memory Host for running compiled
// contracts in tests.
package vmtest

import (
	"bytes"
	"sort"

	"neochain/crypto/hash160"
	"neochain/errors"
	"neochain/protocol/vm"
)

// Trigger values passed to contracts by Neo.Runtime.GetTrigger.
const (
	TriggerVerification int64 = 0x00
	TriggerApplication  int64 = 0x10
)

const maxStorageKey = 1024

var (
	ErrReadOnly     = errors.New("storage context is read only")
	ErrKeyTooLong   = errors.New("storage key too long")
	ErrBadInterface = errors.New("wrong interop interface")
	ErrUnsupported  = errors.New("syscall not supported by test host")
)

// Notification is one Neo.Runtime.Notify call.
type Notification struct {
	ScriptHash hash160.Uint160
	State      vm.Item
}

// Output is a transaction output visible through the script container.
type Output struct {
	AssetID    []byte
	Value      int64
	ScriptHash hash160.Uint160
}

// Host is an in-memory vm.Host. The zero value is not ready for use;
// call New.
type Host struct {
	Trigger   int64
	Time      int64
	Height    int64
	Witnesses map[hash160.Uint160]bool
	Outputs   []Output

	// Storage maps a contract script hash to its key-value store.
	Storage map[hash160.Uint160]map[string][]byte

	Notifications []Notification
	Logs          []string

	scripts map[hash160.Uint160][]byte
}

type storageContext struct {
	hash     hash160.Uint160
	readOnly bool
}

type transaction struct{ outputs []Output }

type iterator struct {
	keys []string
	vals [][]byte
	pos  int
}

// New returns a host running under the application trigger.
func New() *Host {
	return &Host{
		Trigger:   TriggerApplication,
		Witnesses: make(map[hash160.Uint160]bool),
		Storage:   make(map[hash160.Uint160]map[string][]byte),
		scripts:   make(map[hash160.Uint160][]byte),
	}
}

// Deploy registers script so that APPCALL can reach it and returns
// its script hash.
func (h *Host) Deploy(script []byte) hash160.Uint160 {
	hash := hash160.Sum(script)
	h.scripts[hash] = script
	return hash
}

// Script implements vm.ScriptLoader.
func (h *Host) Script(hash hash160.Uint160) ([]byte, error) {
	s, ok := h.scripts[hash]
	if !ok {
		return nil, errors.WithDetailf(vm.ErrUnknownScript, "%s", hash)
	}
	return s, nil
}

// Get returns the stored value of key for the contract with the given hash.
func (h *Host) Get(hash hash160.Uint160, key []byte) ([]byte, bool) {
	v, ok := h.Storage[hash][string(key)]
	return v, ok
}

func (h *Host) SysCall(m *vm.Machine, name string, args []vm.Item) ([]vm.Item, error) {
	switch name {
	case "Neo.Runtime.GetTrigger":
		return one(vm.NewInt(h.Trigger))
	case "Neo.Runtime.GetTime":
		return one(vm.NewInt(h.Time))
	case "Neo.Blockchain.GetHeight":
		return one(vm.NewInt(h.Height))
	case "Neo.Runtime.CheckWitness":
		var u hash160.Uint160
		b := vm.Bytes(args[0])
		if len(b) != hash160.Size {
			return nil, errors.WithDetailf(vm.ErrBadValue, "witness of %d bytes", len(b))
		}
		copy(u[:], b)
		return one(vm.Boolean(h.Witnesses[u]))
	case "Neo.Runtime.Log":
		h.Logs = append(h.Logs, string(vm.Bytes(args[0])))
		return nil, nil
	case "Neo.Runtime.Notify":
		h.Notifications = append(h.Notifications, Notification{ScriptHash: m.ScriptHash(), State: args[0]})
		return nil, nil

	case "System.ExecutionEngine.GetExecutingScriptHash":
		u := m.ScriptHash()
		return one(vm.ByteArray(u[:]))
	case "System.ExecutionEngine.GetCallingScriptHash":
		u := m.CallingScriptHash()
		return one(vm.ByteArray(u[:]))
	case "System.ExecutionEngine.GetEntryScriptHash":
		u := m.EntryScriptHash()
		return one(vm.ByteArray(u[:]))
	case "System.ExecutionEngine.GetScriptContainer":
		return one(vm.Interop{Value: &transaction{outputs: h.Outputs}})
	case "Neo.Transaction.GetOutputs":
		tx, ok := interop(args[0]).(*transaction)
		if !ok {
			return nil, ErrBadInterface
		}
		var outs []vm.Item
		for i := range tx.outputs {
			outs = append(outs, vm.Interop{Value: &tx.outputs[i]})
		}
		return one(vm.NewArray(outs...))
	case "Neo.Output.GetValue", "Neo.Output.GetAssetId", "Neo.Output.GetScriptHash":
		out, ok := interop(args[0]).(*Output)
		if !ok {
			return nil, ErrBadInterface
		}
		switch name {
		case "Neo.Output.GetValue":
			return one(vm.NewInt(out.Value))
		case "Neo.Output.GetAssetId":
			return one(vm.ByteArray(out.AssetID))
		}
		return one(vm.ByteArray(out.ScriptHash[:]))

	case "Neo.Storage.GetContext":
		return one(vm.Interop{Value: storageContext{hash: m.ScriptHash()}})
	case "Neo.Storage.GetReadOnlyContext":
		return one(vm.Interop{Value: storageContext{hash: m.ScriptHash(), readOnly: true}})
	case "Neo.StorageContext.AsReadOnly":
		ctx, err := storageCtx(args[0])
		if err != nil {
			return nil, err
		}
		ctx.readOnly = true
		return one(vm.Interop{Value: ctx})
	case "Neo.Storage.Get":
		ctx, err := storageCtx(args[0])
		if err != nil {
			return nil, err
		}
		v, _ := h.Get(ctx.hash, vm.Bytes(args[1]))
		return one(vm.ByteArray(append([]byte{}, v...)))
	case "Neo.Storage.Put":
		ctx, key, err := writable(args)
		if err != nil {
			return nil, err
		}
		store := h.Storage[ctx.hash]
		if store == nil {
			store = make(map[string][]byte)
			h.Storage[ctx.hash] = store
		}
		store[string(key)] = append([]byte{}, vm.Bytes(args[2])...)
		return nil, nil
	case "Neo.Storage.Delete":
		ctx, key, err := writable(args)
		if err != nil {
			return nil, err
		}
		delete(h.Storage[ctx.hash], string(key))
		return nil, nil
	case "Neo.Storage.Find":
		ctx, err := storageCtx(args[0])
		if err != nil {
			return nil, err
		}
		prefix := vm.Bytes(args[1])
		it := &iterator{pos: -1}
		for k := range h.Storage[ctx.hash] {
			if bytes.HasPrefix([]byte(k), prefix) {
				it.keys = append(it.keys, k)
			}
		}
		sort.Strings(it.keys)
		for _, k := range it.keys {
			it.vals = append(it.vals, h.Storage[ctx.hash][k])
		}
		return one(vm.Interop{Value: it})
	case "Neo.Enumerator.Next", "Neo.Iterator.Key", "Neo.Enumerator.Value":
		it, ok := interop(args[0]).(*iterator)
		if !ok {
			return nil, ErrBadInterface
		}
		switch name {
		case "Neo.Enumerator.Next":
			it.pos++
			return one(vm.Boolean(it.pos < len(it.keys)))
		}
		if it.pos < 0 || it.pos >= len(it.keys) {
			return nil, errors.WithDetail(vm.ErrRange, "iterator is not positioned")
		}
		if name == "Neo.Iterator.Key" {
			return one(vm.ByteArray(it.keys[it.pos]))
		}
		return one(vm.ByteArray(it.vals[it.pos]))
	}
	return nil, errors.WithDetailf(ErrUnsupported, "%s", name)
}

func one(it vm.Item) ([]vm.Item, error) { return []vm.Item{it}, nil }

func interop(it vm.Item) interface{} {
	if i, ok := it.(vm.Interop); ok {
		return i.Value
	}
	return nil
}

func storageCtx(it vm.Item) (storageContext, error) {
	ctx, ok := interop(it).(storageContext)
	if !ok {
		return ctx, errors.WithDetailf(ErrBadInterface, "want storage context, got %s", vm.Format(it))
	}
	return ctx, nil
}

func writable(args []vm.Item) (storageContext, []byte, error) {
	ctx, err := storageCtx(args[0])
	if err != nil {
		return ctx, nil, err
	}
	if ctx.readOnly {
		return ctx, nil, ErrReadOnly
	}
	key := vm.Bytes(args[1])
	if len(key) > maxStorageKey {
		return ctx, nil, errors.WithDetailf(ErrKeyTooLong, "%d bytes", len(key))
	}
	return ctx, key, nil
}
