// Package options holds helpers shared by the functional-option APIs.
package options

import "github.com/erraggy/smithygen/shapeerrors"

// SingleSource checks that exactly one of the named input sources is set.
// pkg prefixes the error message and names lists the option names in the
// same order as set.
func SingleSource(pkg string, names []string, set ...bool) error {
	count := 0
	for _, ok := range set {
		if ok {
			count++
		}
	}
	switch {
	case count == 0:
		return &shapeerrors.ConfigError{
			Option:  "input",
			Message: pkg + ": must specify an input source (use " + joinOr(names) + ")",
		}
	case count > 1:
		return &shapeerrors.ConfigError{
			Option:  "input",
			Message: pkg + ": must specify exactly one input source",
		}
	}
	return nil
}

func joinOr(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	out := ""
	for i, n := range names[:len(names)-1] {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out + " or " + names[len(names)-1]
}
