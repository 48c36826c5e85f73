// internal/batch/csv.go
package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// headerCell is the literal first-row cell that marks a header row.
const headerCell = "text"

// Prompt is one valid input row: its 1-based ordinal among valid rows and
// the prompt text.
type Prompt struct {
	RowNumber int
	Text      string
}

// LoadPrompts reads the single prompt column from a CSV file. The whole file
// is loaded before any request is issued. A first row whose first cell is the
// literal "text" is treated as a header and skipped, as are empty rows;
// neither produces a Prompt. Ordinals are assigned 1..N over the rows that
// remain, in input order.
func LoadPrompts(path string) ([]Prompt, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open input file %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse input file %q: %w", path, err)
	}

	var prompts []Prompt
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		text := strings.TrimSpace(row[0])
		if text == "" {
			continue
		}
		if i == 0 && strings.EqualFold(text, headerCell) {
			continue
		}
		prompts = append(prompts, Prompt{
			RowNumber: len(prompts) + 1,
			Text:      text,
		})
	}
	return prompts, nil
}
