package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

var (
	specOnce sync.Once
	specDoc  *openapi3.T
	specErr  error
)

// GetSwagger parses and validates the embedded OpenAPI document once.
func GetSwagger() (*openapi3.T, error) {
	specOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(rawSpec)
		if err != nil {
			specErr = fmt.Errorf("failed to load OpenAPI spec: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			specErr = fmt.Errorf("invalid OpenAPI spec: %w", err)
			return
		}
		specDoc = doc
	})
	return specDoc, specErr
}

// bodyValidator checks raw JSON bodies against a named component schema.
type bodyValidator struct {
	schema *openapi3.Schema
}

func newBodyValidator(name string) (*bodyValidator, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("schema %q not found in OpenAPI spec", name)
	}
	return &bodyValidator{schema: ref.Value}, nil
}

func (v *bodyValidator) Validate(body []byte) error {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := v.schema.VisitJSON(value); err != nil {
		return fmt.Errorf("request does not match schema: %w", err)
	}
	return nil
}
