// Package store persists diagnostic results. Every backend writes the same
// canonical (RFC 8785) JSON document, so identical results are byte-identical.
package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/gowebpki/jcs"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/result.schema.json
var resultSchema string

const resultSchemaURL = "https://storediag.local/schemas/result.schema.json"

// Marshal encodes a result as canonical JSON.
func Marshal(res *domain.DiagnosticResult) ([]byte, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing result: %w", err)
	}
	return out, nil
}

// Unmarshal decodes a stored result document.
func Unmarshal(data []byte) (*domain.DiagnosticResult, error) {
	var res domain.DiagnosticResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return &res, nil
}

// Validator checks results against the published result schema.
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(resultSchemaURL, strings.NewReader(resultSchema)); err != nil {
		return nil, fmt.Errorf("loading result schema: %w", err)
	}
	compiled, err := c.Compile(resultSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling result schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// ValidateResult implements domain.ResultValidator.
func (v *Validator) ValidateResult(res *domain.DiagnosticResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return v.ValidateJSON(raw)
}

// ValidateJSON validates an encoded result document.
func (v *Validator) ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("result does not match schema: %w", err)
	}
	return nil
}

// checkCode rejects store codes that cannot be used as a file or object name.
func checkCode(code string) error {
	if code == "" || code == "." || code == ".." || strings.ContainsAny(code, `/\`) {
		return fmt.Errorf("invalid store code %q", code)
	}
	return nil
}
