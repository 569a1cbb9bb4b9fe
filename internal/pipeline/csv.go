package pipeline

import (
	"encoding/csv"
	"os"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
)

// ReadProjectIDs reads project ids from the first column of a CSV file.
// A header row is dropped when its first token looks like a label rather
// than an id. Blank rows are skipped.
func ReadProjectIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: open csv %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: parse csv %s", path)
	}

	ids := make([]string, 0, len(records))
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		id := strings.TrimSpace(record[0])
		if id == "" {
			continue
		}
		if i == 0 && looksLikeHeader(id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// looksLikeHeader reports whether a first-row token is a column label.
// Numeric ids and "PROJ"-prefixed ids are data; anything else in row zero
// is treated as a header. The prefix check is case-sensitive on purpose,
// so a lowercase "project_id" label still reads as a header.
func looksLikeHeader(token string) bool {
	if strings.HasPrefix(token, "PROJ") {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
