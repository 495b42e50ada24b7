package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/abdidvp/storediag/internal/domain"
)

//go:embed schema/config.cue
var schemaSource []byte

// SchemaValidator checks raw config documents against the embedded CUE schema.
type SchemaValidator struct {
	ctx    *cue.Context
	config cue.Value
}

// NewSchemaValidator compiles the embedded schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	ctx := cuecontext.New()
	inst := ctx.CompileBytes(schemaSource, cue.Filename("config.cue"))
	if err := inst.Err(); err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}
	def := inst.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return nil, fmt.Errorf("config schema has no #Config definition")
	}
	return &SchemaValidator{ctx: ctx, config: def}, nil
}

// Validate unifies data with #Config and requires the result to be concrete.
func (v *SchemaValidator) Validate(data map[string]any) error {
	value := v.ctx.Encode(data)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	unified := v.config.Unify(value)
	if err := unified.Err(); err != nil {
		return &domain.ConfigError{Field: "schema", Reason: err.Error()}
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &domain.ConfigError{Field: "schema", Reason: err.Error()}
	}
	return nil
}
