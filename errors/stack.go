package errors

import (
	"fmt"
	"runtime"
)

const stackTraceSize = 16

// StackFrame is one entry of a captured call stack.
type StackFrame struct {
	Func string
	File string
	Line int
}

func (f StackFrame) String() string {
	return fmt.Sprintf("%s:%d - %s", f.File, f.Line, f.Func)
}

// Stack returns the stack captured when err was first wrapped,
// or nil if err carries no stack.
func Stack(err error) []StackFrame {
	if w, ok := err.(wrapperError); ok {
		return w.stack
	}
	return nil
}

func getStack(skip, size int) []StackFrame {
	pc := make([]uintptr, size)
	n := runtime.Callers(skip+1, pc)
	frames := runtime.CallersFrames(pc[:n])
	var trace []StackFrame
	for {
		f, more := frames.Next()
		trace = append(trace, StackFrame{Func: f.Function, File: f.File, Line: f.Line})
		if !more {
			break
		}
	}
	return trace
}
