package table

import (
	"errors"
	"fmt"
)

// ErrSchema is matched by every load-time validation failure.
var ErrSchema = errors.New("schema error")

// SchemaError reports a raw row that does not conform to the titles schema.
// Row is 0-based; -1 means the failure is not tied to a row.
type SchemaError struct {
	Row   int
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("schema error: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("schema error: row %d: field %q: %v", e.Row, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }
