package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyFeatureName is returned when adding a covariate without a name.
	ErrEmptyFeatureName = errors.New("dataset: empty feature name")
	// ErrFeatureLengthMismatch is returned when a covariate column does not
	// align with the readings.
	ErrFeatureLengthMismatch = errors.New("dataset: feature length mismatch")
	// ErrEmptyTable is returned when normalizing a table without columns.
	ErrEmptyTable = errors.New("dataset: empty table")
)

// SchemaDetectionError reports that no input column matched a semantic role.
type SchemaDetectionError struct {
	Role    string
	Columns []string
}

func (e *SchemaDetectionError) Error() string {
	return fmt.Sprintf("dataset: no column matches the %s role (columns: %s)",
		e.Role, strings.Join(e.Columns, ", "))
}

// TimestampParseError reports an unparseable timestamp cell. Any such cell
// fails the whole table, not just the row.
type TimestampParseError struct {
	Row  int
	Cell string
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("dataset: cannot parse timestamp %q at row %d", e.Cell, e.Row)
}
