// Package tabulate renders flattened records as CSV with a deterministic
// column order and a per-row capture timestamp.
//
// The column set is the lexicographically sorted union of every key across
// all input records, so the header is independent of record arrival order.
// Fields are quoted per RFC 4180 by encoding/csv; the original ingestion
// job's unescaped concatenation corrupted values containing commas.
package tabulate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avsdata/aviationstack-export/pkg/flatten"
)

// TimestampColumn is the fixed trailing column holding the UTC capture
// timestamp of each row.
const TimestampColumn = "row_ts"

// timestampLayout matches the original job's output format.
const timestampLayout = "2006-01-02 15:04:05"

// Columns returns the sorted union of all keys across the input records.
func Columns(records []flatten.FlatRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for key := range rec {
			seen[key] = struct{}{}
		}
	}

	cols := make([]string, 0, len(seen))
	for key := range seen {
		cols = append(cols, key)
	}
	sort.Strings(cols)
	return cols
}

// Writer renders flattened records as CSV.
type Writer struct {
	// now is injected so tests get fixed timestamps.
	now func() time.Time
}

// NewWriter creates a CSV writer using the wall clock.
func NewWriter() *Writer {
	return &Writer{now: time.Now}
}

// WriteCSV writes a header line and one line per record to out. For each
// column, a record's value is written if the key is present, otherwise the
// field is left empty; nil values also render empty. The trailing row_ts
// field is captured per row at serialization time.
func (w *Writer) WriteCSV(out io.Writer, records []flatten.FlatRecord) error {
	cols := Columns(records)

	cw := csv.NewWriter(out)

	header := append(append(make([]string, 0, len(cols)+1), cols...), TimestampColumn)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(cols)+1)
	for _, rec := range records {
		for i, col := range cols {
			if value, ok := rec[col]; ok {
				row[i] = formatValue(value)
			} else {
				row[i] = ""
			}
		}
		row[len(cols)] = w.now().UTC().Format(timestampLayout)

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Render returns the CSV text for the given records.
func (w *Writer) Render(records []flatten.FlatRecord) (string, error) {
	var sb strings.Builder
	if err := w.WriteCSV(&sb, records); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// formatValue renders a scalar for one CSV field. JSON null renders empty,
// indistinguishable from a missing key, matching the original output.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
