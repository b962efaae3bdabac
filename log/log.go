// Package log writes structured K=V log entries.
// By default, output is written to stderr; this can be changed with SetOutput.
// Every entry carries the compile run ID found in its context.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"neochain/errors"
)

const rfc3339NanoFixed = "2006-01-02T15:04:05.000000000Z07:00"

var (
	logWriterMu sync.Mutex // protects the following
	logWriter   io.Writer  = os.Stderr
	prefix      []byte

	// pairDelims are the characters that may separate key-value pairs.
	// Keys and values containing them are quoted or rewritten so that
	// extraction stays unambiguous.
	pairDelims      = " ,;|&\t\n\r"
	illegalKeyChars = pairDelims + `="`
)

// Conventional key names for log entries
const (
	KeyCaller  = "at"    // location of caller
	KeyTime    = "t"     // time of call
	KeyRunID   = "run"   // compile run ID from context
	KeyMessage = "message"
	KeyError   = "error"
	KeyStack   = "stack" // printed on the lines after the entry

	keyLogError = "log-error" // for errors produced by the log package itself
)

type runIDKey struct{}

// unknownRunID is reported for contexts without a run ID.
const unknownRunID = "unknown_run_id"

// NewRunID returns a fresh random run ID.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID returns a context carrying id as its run ID.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run ID stored in ctx, or a placeholder.
func RunID(ctx context.Context) string {
	if ctx != nil {
		if id, ok := ctx.Value(runIDKey{}).(string); ok {
			return id
		}
	}
	return unknownRunID
}

// SetOutput sets the log output to w.
func SetOutput(w io.Writer) {
	logWriterMu.Lock()
	logWriter = w
	logWriterMu.Unlock()
}

// SetPrefix sets key-value pairs written at the start of every entry.
func SetPrefix(keyval ...interface{}) {
	if len(keyval)%2 != 0 {
		panic(fmt.Sprintf("odd-length prefix args: %v", keyval))
	}
	var b []byte
	for i := 0; i < len(keyval); i += 2 {
		b = append(b, formatKey(keyval[i])...)
		b = append(b, '=')
		b = append(b, formatValue(keyval[i+1])...)
		b = append(b, ' ')
	}
	logWriterMu.Lock()
	prefix = b
	logWriterMu.Unlock()
}

// Write writes a structured log entry. Fields are given as
// alternating keys and values; duplicate keys are preserved.
//
// The run ID, the caller's file and line, and a timestamp are
// added automatically. The caller may be overridden by passing
// KeyCaller as the first key.
//
// If keyvals contain a KeyStack value of type []byte or
// []errors.StackFrame, or a KeyError value carrying a stack,
// the stack is printed on the lines following the entry.
func Write(ctx context.Context, keyvals ...interface{}) {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "", keyLogError, "odd number of log params")
	}

	var vcaller string
	if len(keyvals) >= 2 && keyvals[0] == KeyCaller {
		vcaller = formatValue(keyvals[1])
		keyvals = keyvals[2:]
	} else {
		vcaller = caller()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s %s=%s %s=%s",
		KeyRunID, formatValue(RunID(ctx)),
		KeyCaller, vcaller,
		KeyTime, formatValue(time.Now().UTC().Format(rfc3339NanoFixed)),
	)

	var stack interface{}
	for i := 0; i < len(keyvals); i += 2 {
		k, v := keyvals[i], keyvals[i+1]
		if k == KeyStack && isStackVal(v) {
			stack = v
			continue
		}
		if k == KeyError {
			if e, ok := v.(error); ok && stack == nil {
				if s := errors.Stack(e); len(s) > 0 {
					stack = s
				}
			}
		}
		b.WriteString(" " + formatKey(k) + "=" + formatValue(v))
	}
	b.WriteByte('\n')

	logWriterMu.Lock()
	logWriter.Write(prefix)
	io.WriteString(logWriter, b.String()) // ignore errors
	writeRawStack(logWriter, stack)
	logWriterMu.Unlock()
}

// Fatal is equivalent to Write() followed by a call to os.Exit(1).
func Fatal(ctx context.Context, keyvals ...interface{}) {
	Write(ctx, append([]interface{}{KeyCaller, caller()}, keyvals...)...)
	os.Exit(1)
}

func writeRawStack(w io.Writer, v interface{}) {
	switch v := v.(type) {
	case []byte:
		if len(v) > 0 {
			w.Write(v)
			w.Write([]byte{'\n'})
		}
	case []errors.StackFrame:
		for _, s := range v {
			io.WriteString(w, s.String()+"\n")
		}
	}
}

func isStackVal(v interface{}) bool {
	switch v.(type) {
	case []byte, []errors.StackFrame:
		return true
	}
	return false
}

// Messagef writes an entry with a formatted "message" field.
func Messagef(ctx context.Context, format string, a ...interface{}) {
	Write(ctx, KeyCaller, caller(), KeyMessage, fmt.Sprintf(format, a...))
}

// Error writes an entry with an "error" field. Prefix arguments,
// if any, are handled as in fmt.Print.
func Error(ctx context.Context, err error, a ...interface{}) {
	if len(a) > 0 && len(errors.Stack(err)) > 0 {
		err = errors.Wrap(err, a...) // keep err's stack
	} else if len(a) > 0 {
		err = fmt.Errorf("%s: %s", fmt.Sprint(a...), err)
	}
	Write(ctx, KeyCaller, caller(), KeyError, err)
}

// formatKey stubs out delimiter and quote characters in the key.
func formatKey(k interface{}) string {
	s := fmt.Sprint(k)
	if s == "" {
		return "?"
	}
	for _, c := range illegalKeyChars {
		s = strings.Replace(s, string(c), "-", -1)
	}
	return s
}

// formatValue quotes the value if it contains delimiter characters.
func formatValue(v interface{}) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, pairDelims) {
		return strconv.Quote(s)
	}
	return s
}
