// Package env reads configuration from environment variables. It is
// similar in design to package flag: variables are declared first and
// filled in by Parse.
package env

import (
	"os"
	"strconv"

	"neochain/errors"
)

var funcs []func() error

// Bool returns a new bool pointer.
// When Parse is called,
// env var name will be parsed with strconv.ParseBool
// and the resulting value
// will be assigned to the returned location.
func Bool(name string, value bool) *bool {
	p := new(bool)
	BoolVar(p, name, value)
	return p
}

// BoolVar defines a bool var with the specified
// name and default value.
func BoolVar(p *bool, name string, value bool) {
	*p = value
	funcs = append(funcs, func() error {
		if s := os.Getenv(name); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return errors.Wrap(err, name)
			}
			*p = v
		}
		return nil
	})
}

// String returns a new string pointer.
// When Parse is called,
// env var name will be assigned
// to the returned location.
func String(name string, value string) *string {
	p := new(string)
	StringVar(p, name, value)
	return p
}

// StringVar defines a string var with the specified
// name and default value.
func StringVar(p *string, name string, value string) {
	*p = value
	funcs = append(funcs, func() error {
		if s := os.Getenv(name); s != "" {
			*p = s
		}
		return nil
	})
}

// Parse assigns every declared variable from the environment. It
// returns the first error, after trying all of them.
func Parse() error {
	var first error
	for _, f := range funcs {
		if err := f(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
