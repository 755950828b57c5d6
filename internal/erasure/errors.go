package erasure

import "fmt"

// InternalError is an invariant violation inside the erasure stage. It is
// raised as a panic and never caused by user input.
type InternalError struct {
	Op  string // operation that detected the violation
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: erasure.%s: %s", e.Op, e.Msg)
}

func internalErrorf(op, format string, args ...interface{}) {
	panic(&InternalError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// Recover converts a panicking *InternalError into an error stored in
// *errp. Other panics propagate. It must be called directly by a deferred
// statement:
//
//	defer erasure.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if ie, ok := r.(*InternalError); ok {
		*errp = ie
		return
	}
	panic(r)
}
