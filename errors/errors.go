// Package errors annotates errors with context messages, stack traces,
// user-facing detail and structured data, while keeping the original
// error reachable through Root.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }

type wrapperError struct {
	msg    string
	detail []string
	data   map[string]interface{}
	stack  []StackFrame
	root   error
}

func (e wrapperError) Error() string { return e.msg }

// Unwrap returns the root error so that Is and As see through
// any number of Wrap calls.
func (e wrapperError) Unwrap() error { return e.root }

// Root returns the original error that was wrapped by one or more
// calls to Wrap. If e does not wrap other errors, it will be returned
// as-is.
func Root(e error) error {
	if w, ok := e.(wrapperError); ok {
		return w.root
	}
	return e
}

// wrap adds msg and, on first wrap, a stack trace to err.
// stackSkip is the number of frames to ascend, where 0 is the caller of wrap.
func wrap(err error, msg string, stackSkip int) error {
	if err == nil {
		return nil
	}
	w, ok := err.(wrapperError)
	if !ok {
		w = wrapperError{
			root:  err,
			msg:   err.Error(),
			stack: getStack(stackSkip+2, stackTraceSize),
		}
	}
	if msg != "" {
		w.msg = msg + ": " + w.msg
	}
	return w
}

// Wrap adds a context message and stack trace to err and returns a new error
// with the new context. Arguments are handled as in fmt.Print.
// Wrap returns nil if err is nil.
func Wrap(err error, a ...interface{}) error {
	return wrap(err, fmt.Sprint(a...), 1)
}

// Wrapf is like Wrap, but arguments are handled as in fmt.Printf.
func Wrapf(err error, format string, a ...interface{}) error {
	return wrap(err, fmt.Sprintf(format, a...), 1)
}

// Sub returns an error whose root is new but whose message and
// stack come from err. It returns nil if err is nil.
func Sub(root, err error) error {
	if err == nil {
		return nil
	}
	w, ok := wrap(err, "", 1).(wrapperError)
	if !ok {
		return err
	}
	w.msg = root.Error() + ": " + w.msg
	w.root = root
	return w
}

// WithDetail returns a new error that wraps err and carries text as
// detail for the end user. Detail returns the accumulated text.
func WithDetail(err error, text string) error {
	if err == nil {
		return nil
	}
	if text == "" {
		return err
	}
	w := wrap(err, text, 1).(wrapperError)
	w.detail = append(w.detail[:len(w.detail):len(w.detail)], text)
	return w
}

// WithDetailf is like WithDetail, except it formats
// the detail message as in fmt.Printf.
func WithDetailf(err error, format string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	text := fmt.Sprintf(format, v...)
	w := wrap(err, text, 1).(wrapperError)
	w.detail = append(w.detail[:len(w.detail):len(w.detail)], text)
	return w
}

// Detail returns the detail message contained in err, if any.
func Detail(err error) string {
	w, _ := err.(wrapperError)
	return strings.Join(w.detail, "; ")
}

// WithData returns a new error that wraps err and carries the
// key-value pairs in keyval merged over any data already in err.
// Keys must be strings.
func WithData(err error, keyval ...interface{}) error {
	if err == nil {
		return nil
	}
	if len(keyval)%2 != 0 {
		panic(fmt.Sprintf("errors: odd-length keyval %v", keyval))
	}
	data := make(map[string]interface{})
	for k, v := range Data(err) {
		data[k] = v
	}
	for i := 0; i < len(keyval); i += 2 {
		data[keyval[i].(string)] = keyval[i+1]
	}
	w := wrap(err, "", 1).(wrapperError)
	w.data = data
	return w
}

// Data returns the data item in err, if any.
func Data(err error) map[string]interface{} {
	w, _ := err.(wrapperError)
	return w.data
}
