package beans

import (
	stderrors "errors"
	"fmt"
)

// FieldOp names the step of a best-effort operation that failed.
type FieldOp string

const (
	OpRead      FieldOp = "read"
	OpWrite     FieldOp = "write"
	OpConvert   FieldOp = "convert"
	OpConstruct FieldOp = "construct"
	OpCopy      FieldOp = "copy" // a slice element failed structurally
)

// FieldIssue is a non-fatal failure on a single field or slice element.
// Index is the slice position for element issues and -1 otherwise.
type FieldIssue struct {
	Field string
	Index int
	Op    FieldOp
	Err   error
}

func (i FieldIssue) Error() string {
	if i.Index >= 0 {
		return fmt.Sprintf("element %d: %s: %v", i.Index, i.Op, i.Err)
	}
	return fmt.Sprintf("field %s: %s: %v", i.Field, i.Op, i.Err)
}

func (i FieldIssue) Unwrap() error { return i.Err }

// Report collects the non-fatal issues of a best-effort operation.
// An empty Report means every field was processed.
type Report struct {
	Issues []FieldIssue
}

// Partial reports whether some fields or elements were skipped because of a failure.
func (r Report) Partial() bool { return len(r.Issues) > 0 }

// Err joins every issue into one error, or returns nil.
func (r Report) Err() error {
	if len(r.Issues) == 0 {
		return nil
	}
	errs := make([]error, len(r.Issues))
	for i := range r.Issues {
		errs[i] = r.Issues[i]
	}
	return stderrors.Join(errs...)
}

func (r *Report) merge(o Report) {
	r.Issues = append(r.Issues, o.Issues...)
}
