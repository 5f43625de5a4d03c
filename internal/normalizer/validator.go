package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/table"
)

// Validation errors.
var (
	ErrNilTable       = errors.New("nil table")
	ErrMissingColumns = errors.New("missing required columns")
)

// SchemaError is the structural failure of a table: one or more required
// columns are absent from its header.
type SchemaError struct {
	Kind    dataset.Kind
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder

	if e.Kind != "" {
		sb.WriteString(string(e.Kind))
		sb.WriteString(": ")
	}

	fmt.Fprintf(&sb, "%s %s; found columns %s",
		ErrMissingColumns.Error(), quoteList(e.Missing), quoteList(e.Found))

	return sb.String()
}

// Unwrap lets callers match with errors.Is(err, ErrMissingColumns).
func (e *SchemaError) Unwrap() error { return ErrMissingColumns }

func quoteList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = fmt.Sprintf("%q", c)
	}

	return "[" + strings.Join(quoted, ", ") + "]"
}

// Validator checks table headers against a schema.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that t carries every column of schema.
func (v *Validator) Validate(t *table.Table, schema dataset.Schema) error {
	err := ValidateSchema(t, schema.Columns)

	var se *SchemaError
	if errors.As(err, &se) {
		se.Kind = schema.Kind
	}

	return err
}

// ValidateSchema succeeds iff every expected name is present in the header.
// Matching is exact and case-sensitive. Extra columns are allowed. On failure
// every missing column is reported, in expected order.
func ValidateSchema(t *table.Table, expected []string) error {
	if t == nil {
		return ErrNilTable
	}

	present := make(map[string]struct{}, len(t.Header))
	for _, h := range t.Header {
		present[h] = struct{}{}
	}

	var missing []string

	for _, col := range expected {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return &SchemaError{
		Missing: missing,
		Found:   append([]string(nil), t.Header...),
	}
}
