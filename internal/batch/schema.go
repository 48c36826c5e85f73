// internal/batch/schema.go
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultsSchema describes the shape of a results file: an ordered array of
// row outcomes. Participants exchange these files, so a cheap shape check
// catches hand-edited or truncated output before analysis.
var resultsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []string{"row_number", "input_text", "response"},
		"properties": map[string]any{
			"row_number": map[string]any{"type": "integer", "minimum": 1},
			"input_text": map[string]any{"type": "string"},
			"response":   map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	},
}

// ValidateResultsFile checks a results file against resultsSchema and that
// row numbers form the contiguous sequence 1..N in order.
func ValidateResultsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read results file %q: %w", path, err)
	}

	schemaLoader := gojsonschema.NewGoLoader(resultsSchema)
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("results failed validation: %s", strings.Join(details, "; "))
	}

	var results []Result
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("could not parse results file %q: %w", path, err)
	}
	for i, r := range results {
		if r.RowNumber != i+1 {
			return fmt.Errorf("results failed validation: row %d has row_number %d", i+1, r.RowNumber)
		}
	}
	return nil
}
