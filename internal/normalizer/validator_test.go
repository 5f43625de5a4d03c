package normalizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/table"
)

func TestNewValidator(t *testing.T) {
	v := NewValidator()
	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
}

func TestValidateSchema(t *testing.T) {
	expected := []string{"campaign_name", "#0 All Sent", "#1 All Delivered", "#2 All Clicked"}

	tests := []struct {
		name    string
		header  []string
		missing []string
	}{
		{
			name:   "exact columns",
			header: expected,
		},
		{
			name:   "extra columns and different order",
			header: []string{"#2 All Clicked", "notes", "#1 All Delivered", "campaign_name", "#0 All Sent"},
		},
		{
			name:    "one missing",
			header:  []string{"campaign_name", "#0 All Sent", "#1 All Delivered"},
			missing: []string{"#2 All Clicked"},
		},
		{
			name:    "all missing reported in expected order",
			header:  []string{"other"},
			missing: expected,
		},
		{
			name:    "case-sensitive",
			header:  []string{"Campaign_Name", "#0 All Sent", "#1 All Delivered", "#2 All Clicked"},
			missing: []string{"campaign_name"},
		},
		{
			name:    "no trimming",
			header:  []string{" campaign_name", "#0 All Sent", "#1 All Delivered", "#2 All Clicked"},
			missing: []string{"campaign_name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchema(table.New(tt.header), expected)
			if tt.missing == nil {
				if err != nil {
					t.Fatalf("ValidateSchema returned unexpected error: %v", err)
				}

				return
			}

			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *SchemaError", err)
			}

			if diff := cmp.Diff(tt.missing, se.Missing); diff != "" {
				t.Errorf("Missing mismatch (-want +got):\n%s", diff)
			}

			if !errors.Is(err, ErrMissingColumns) {
				t.Error("SchemaError does not match ErrMissingColumns")
			}
		})
	}
}

func TestValidateSchema_NilTable(t *testing.T) {
	if err := ValidateSchema(nil, []string{"a"}); !errors.Is(err, ErrNilTable) {
		t.Errorf("err = %v, want ErrNilTable", err)
	}
}

func TestValidator_Validate_SetsKind(t *testing.T) {
	schema, err := dataset.Default().Lookup(dataset.Revenue)
	if err != nil {
		t.Fatal(err)
	}

	err = NewValidator().Validate(table.New([]string{"timestamp"}), schema)

	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}

	if se.Kind != dataset.Revenue {
		t.Errorf("Kind = %q, want revenue", se.Kind)
	}

	msg := err.Error()
	for _, want := range []string{"revenue", `"Revenue from Mobile Push"`, `found columns ["timestamp"]`} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not contain %q", msg, want)
		}
	}
}
