package dataset

import (
	"fmt"
	"strings"
)

// SchemaError indicates the input file is structurally unusable: one or more
// required columns are missing from the header. It is fatal to the load.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset: missing required columns: %s", strings.Join(e.Missing, ", "))
}

// RowError describes a single row that violates a data-model invariant.
type RowError struct {
	Line   int    // 1-based line number in the source file (header = line 1)
	Key    string // company_id|year when parseable, otherwise empty
	Reason string
}

func (e RowError) String() string {
	if e.Key != "" {
		return fmt.Sprintf("line %d (%s): %s", e.Line, e.Key, e.Reason)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ValidationError carries every offending row of a strict load. It is only
// returned when LoadOptions.Strict is set; the default policy drops bad rows
// and reports them through the LoadReport instead.
type ValidationError struct {
	Rows []RowError
}

func (e *ValidationError) Error() string {
	if len(e.Rows) == 1 {
		return fmt.Sprintf("dataset: 1 invalid row: %s", e.Rows[0])
	}
	return fmt.Sprintf("dataset: %d invalid rows (first: %s)", len(e.Rows), e.Rows[0])
}
