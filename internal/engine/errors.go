package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidQuerySpec is matched by every error raised while validating a
// query against a schema.
var ErrInvalidQuerySpec = errors.New("invalid query spec")

// SpecError describes a query step that references an absent field or
// applies an operation to an incompatible column.
type SpecError struct {
	Step   string
	Field  string
	Reason string
}

func (e *SpecError) Error() string {
	var b string
	if e.Step != "" {
		b = fmt.Sprintf("invalid query spec: %s", e.Step)
	} else {
		b = "invalid query spec"
	}
	if e.Field != "" {
		b += fmt.Sprintf(": field %q", e.Field)
	}
	return b + ": " + e.Reason
}

func (e *SpecError) Is(target error) bool { return target == ErrInvalidQuerySpec }

func specErr(step, field, format string, args ...any) *SpecError {
	return &SpecError{Step: step, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// inStep relabels a SpecError with its position in a pipeline.
func inStep(err error, step string) error {
	var se *SpecError
	if errors.As(err, &se) {
		cp := *se
		cp.Step = step
		return &cp
	}
	return err
}
