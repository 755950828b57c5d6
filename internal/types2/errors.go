// Package types2 resolves declaration files into symbols and types of the
// type algebra: classes with their type parameters and parents, and
// members with their signatures.
package types2

import (
	"fmt"

	"github.com/you-not-fish/erasure/internal/syntax"
)

// TypeError represents an error found while resolving declarations.
type TypeError struct {
	Pos syntax.Pos
	Msg string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorHandler is a function called for each error.
type ErrorHandler func(pos syntax.Pos, msg string)

// errorf reports an error at the given position.
func (c *Checker) errorf(pos syntax.Pos, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	if c.errors == 0 {
		c.first = &TypeError{Pos: pos, Msg: msg}
	}
	c.errors++

	if c.conf.Error != nil {
		c.conf.Error(pos, msg)
	}
}
