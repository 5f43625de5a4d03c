// Package normalizer validates raw export tables against their dataset schema
// and coerces timestamp, percentage and numeric columns.
package normalizer

import (
	"fmt"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/table"
)

// Processor routes every dataset kind through validation then coercion.
type Processor struct {
	registry    *dataset.Registry
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a processor bound to registry. A nil registry means
// dataset.Default().
func NewProcessor(registry *dataset.Registry) *Processor {
	if registry == nil {
		registry = dataset.Default()
	}

	return &Processor{
		registry:    registry,
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

// Registry returns the schema registry the processor uses.
func (p *Processor) Registry() *dataset.Registry {
	return p.registry
}

// Normalize validates t against the schema of kind and returns a new,
// coerced table. Structural failures are returned as *SchemaError; cell
// failures become Missing values and never fail the call.
func (p *Processor) Normalize(t *table.Table, kind dataset.Kind) (*table.Table, error) {
	schema, err := p.registry.Lookup(kind)
	if err != nil {
		return nil, err
	}

	if err := p.validator.Validate(t, schema); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return p.transformer.Transform(t, schema), nil
}

var defaultProcessor = NewProcessor(nil)

// Normalize runs t through the built-in schema of kind.
func Normalize(t *table.Table, kind dataset.Kind) (*table.Table, error) {
	return defaultProcessor.Normalize(t, kind)
}
