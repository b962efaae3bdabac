package log

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

var skipFunc = map[string]bool{
	"neochain/log.Write":    true,
	"neochain/log.Fatal":    true,
	"neochain/log.Messagef": true,
	"neochain/log.Error":    true,
}

// SkipFunc removes the named function from at=[file:line] entries.
// The name is the fully-qualified function name, for example
// neochain/log.Messagef. It must not be called concurrently with
// any other function in this package.
func SkipFunc(name string) {
	skipFunc[name] = true
}

// caller returns file:line of the deepest frame on the calling
// goroutine's stack that is not a logging function.
func caller() string {
	pc := make([]uintptr, 32)
	n := runtime.Callers(2, pc)
	frames := runtime.CallersFrames(pc[:n])
	for {
		f, more := frames.Next()
		if !skipFunc[f.Function] && !strings.HasPrefix(f.Function, "neochain/log.caller") {
			return filepath.Base(f.File) + ":" + strconv.Itoa(f.Line)
		}
		if !more {
			return "?:?"
		}
	}
}
