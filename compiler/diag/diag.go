// Package diag collects compiler diagnostics.
//
// A Sink is created fresh for every compilation. Reporting never
// stops the compiler; the caller checks HasErrors once traversal is
// complete.
package diag

import (
	"fmt"
	"sort"

	"neochain/compiler/ast"
)

// Code is a stable diagnostic identifier.
type Code string

const (
	InvalidSysCall            Code = "INVALID_SYS_CALL"
	UnknownType               Code = "UNKNOWN_TYPE"
	InvalidContract           Code = "INVALID_CONTRACT"
	InvalidContractMethod     Code = "INVALID_CONTRACT_METHOD"
	InvalidContractEvent      Code = "INVALID_CONTRACT_EVENT"
	InvalidContractProperties Code = "INVALID_CONTRACT_PROPERTIES"
	InvalidContractType       Code = "INVALID_CONTRACT_TYPE"
	InvalidReadonlyAssignment Code = "INVALID_READONLY_ASSIGNMENT"
	UnsupportedSyntax         Code = "UNSUPPORTED_SYNTAX"
	UnknownSymbol             Code = "UNKNOWN_SYMBOL"
	SyntaxError               Code = "SYNTAX_ERROR"
)

// Severity ranks diagnostics. Only errors fail a compilation.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	File     string
	Pos      ast.Pos
	Severity Severity
	Code     Code
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s: %s", d.File, d.Pos.Line, d.Pos.Col, d.Severity, d.Code, d.Message)
}

// Sink accumulates diagnostics for one compilation.
type Sink struct {
	File  string
	diags []Diagnostic
}

// NewSink returns an empty sink for diagnostics in file.
func NewSink(file string) *Sink {
	return &Sink{File: file}
}

// Errorf reports an error at node.
func (s *Sink) Errorf(node ast.Node, code Code, format string, args ...interface{}) {
	s.report(node, Error, code, fmt.Sprintf(format, args...))
}

// Warnf reports a warning at node.
func (s *Sink) Warnf(node ast.Node, code Code, format string, args ...interface{}) {
	s.report(node, Warning, code, fmt.Sprintf(format, args...))
}

// Unsupported reports that the syntax of node cannot be compiled.
func (s *Sink) Unsupported(node ast.Node) {
	s.report(node, Error, UnsupportedSyntax, fmt.Sprintf("unsupported syntax: %s", node.Kind()))
}

func (s *Sink) report(node ast.Node, sev Severity, code Code, msg string) {
	var pos ast.Pos
	if node != nil {
		pos = node.Pos()
	}
	s.ReportAt(pos, sev, code, msg)
}

// ReportAt reports a diagnostic at an explicit position. A diagnostic
// identical to one already reported is dropped, since later stages
// revisit nodes an earlier stage rejected.
func (s *Sink) ReportAt(pos ast.Pos, sev Severity, code Code, msg string) {
	d := Diagnostic{File: s.File, Pos: pos, Severity: sev, Code: code, Message: msg}
	for _, old := range s.diags {
		if old == d {
			return
		}
	}
	s.diags = append(s.diags, d)
}

// Diagnostics returns everything reported so far, ordered by
// position and then by report order.
func (s *Sink) Diagnostics() []Diagnostic {
	res := append([]Diagnostic(nil), s.diags...)
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i].Pos, res[j].Pos
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	return res
}

// HasErrors reports whether an error-severity diagnostic was
// reported.
func (s *Sink) HasErrors() bool {
	return s.ErrorCount() > 0
}

// ErrorCount returns the number of error-severity diagnostics.
func (s *Sink) ErrorCount() int {
	n := 0
	for _, d := range s.diags {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// Has reports whether a diagnostic with code was reported.
func (s *Sink) Has(code Code) bool {
	for _, d := range s.diags {
		if d.Code == code {
			return true
		}
	}
	return false
}
