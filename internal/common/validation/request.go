// internal/common/validation/request.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// processQuerySchema validates the body of POST /api/process-nlq.
const processQuerySchema = `{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"minLength": 1,
			"maxLength": 4096
		}
	},
	"required": ["query"],
	"additionalProperties": true
}`

// ValidateProcessQuery checks a raw request body against the process-nlq
// schema and returns a descriptive error on failure.
func ValidateProcessQuery(body []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(processQuerySchema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("request validation failed: %w", err)
	}

	if !result.Valid() {
		var reasons []string
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return fmt.Errorf("invalid request: %s", strings.Join(reasons, "; "))
	}

	return nil
}
