// Package abi describes the interface of a compiled contract: the
// functions its entry point dispatches to, the events it notifies and
// the manifest written next to the script.
package abi

import (
	"neochain/crypto/hash160"
)

// ParamType is the type of a parameter or result as seen by callers
// of the contract.
type ParamType string

const (
	Boolean   ParamType = "Boolean"
	Integer   ParamType = "Integer"
	String    ParamType = "String"
	ByteArray ParamType = "ByteArray"
	Hash160   ParamType = "Hash160"
	Hash256   ParamType = "Hash256"
	PublicKey ParamType = "PublicKey"
	Signature ParamType = "Signature"
	Array     ParamType = "Array"
	Void      ParamType = "Void"
)

// EntryPoint is the name of the single entry point of every
// contract.
const EntryPoint = "Main"

type Parameter struct {
	Name string    `json:"name"`
	Type ParamType `json:"type"`
}

// Function is a method callable through the entry point.
type Function struct {
	Name       string      `json:"name"`
	Constant   bool        `json:"constant,omitempty"`
	Verify     bool        `json:"verify,omitempty"`
	Parameters []Parameter `json:"parameters"`
	ReturnType ParamType   `json:"returnType"`
}

// Event is a notification the contract may emit. The event name is
// the first notified item; Parameters describe the rest.
type Event struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
}

type ABI struct {
	Hash       string     `json:"hash"`
	EntryPoint string     `json:"entryPoint"`
	Functions  []Function `json:"functions"`
	Events     []Event    `json:"events"`
}

// Properties are the deployment flags of a contract.
type Properties struct {
	Storage       bool `json:"storage"`
	DynamicInvoke bool `json:"dynamicInvoke"`
	Payable       bool `json:"payable"`
}

// Manifest is everything needed to deploy and call a contract
// besides its script.
type Manifest struct {
	Name        string      `json:"name"`
	Hash        string      `json:"hash"`
	Address     string      `json:"address"`
	Parameters  []ParamType `json:"parameters"`
	ReturnType  ParamType   `json:"returnType"`
	Author      string      `json:"author,omitempty"`
	Email       string      `json:"email,omitempty"`
	Version     string      `json:"version,omitempty"`
	Description string      `json:"description,omitempty"`
	Properties  Properties  `json:"properties"`
	ABI         ABI         `json:"abi"`
}

// NewManifest describes script. The contract name defaults to name
// and is overridden by meta when it has one.
func NewManifest(name string, script []byte, meta *Metadata, fns []Function, events []Event, props Properties) *Manifest {
	hash := hash160.Sum(script)
	if fns == nil {
		fns = []Function{}
	}
	if events == nil {
		events = []Event{}
	}
	m := &Manifest{
		Name:       name,
		Hash:       hash.String(),
		Address:    hash.Address(),
		Parameters: []ParamType{String, Array},
		ReturnType: ByteArray,
		Properties: props,
		ABI: ABI{
			Hash:       hash.String(),
			EntryPoint: EntryPoint,
			Functions:  fns,
			Events:     events,
		},
	}
	if meta != nil {
		if meta.Name != "" {
			m.Name = meta.Name
		}
		m.Author = meta.Author
		m.Email = meta.Email
		m.Version = meta.Version
		m.Description = meta.Description
	}
	return m
}

// Function returns the function called name.
func (m *Manifest) Function(name string) (Function, bool) {
	for _, f := range m.ABI.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return Function{}, false
}
