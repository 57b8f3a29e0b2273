package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed resource.schema.json
var resourceSchema []byte

const resourceSchemaURL = "resource.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(resourceSchemaURL, bytes.NewReader(resourceSchema)); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(resourceSchemaURL)
	})
	return schema, schemaErr
}

// checkSchema validates a decoded document and returns one problem per
// failing location. doc must hold plain JSON values.
func checkSchema(doc any) ([]string, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	err = s.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}
	var problems []string
	collectSchemaErrors(verr, &problems)
	return problems, nil
}

func collectSchemaErrors(err *jsonschema.ValidationError, problems *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*problems = append(*problems, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, problems)
	}
}
