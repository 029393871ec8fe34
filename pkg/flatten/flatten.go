// Package flatten converts arbitrarily nested API records into single-level
// key→scalar maps suitable for tabulation.
//
// Object keys are joined with an underscore and array elements are indexed
// into the path, so {"departure":{"iata":"MKE"},"codeshared":[{"code":"X"}]}
// becomes {"departure_iata":"MKE", "codeshared_0_code":"X"}. Records with
// different nesting shapes flatten independently; no cross-record schema is
// assumed.
package flatten

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/avsdata/aviationstack-export/pkg/pagination"
)

// Separator joins path segments in flattened keys.
const Separator = "_"

// FlatRecord is a single-level mapping from a flattened key to a scalar
// value: string, json.Number, bool, or nil. It never holds nested maps or
// slices.
type FlatRecord map[string]any

// Record flattens one decoded record. Already-flat input passes through
// unchanged, so flattening is idempotent.
func Record(rec map[string]any) FlatRecord {
	out := make(FlatRecord, len(rec))
	for key, value := range rec {
		walk(key, value, out)
	}
	return out
}

// walk descends into nested structure, accumulating scalars keyed by their
// joined path. Empty objects and arrays contribute no keys.
func walk(path string, value any, out FlatRecord) {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			walk(path+Separator+key, child, out)
		}
	case []any:
		for i, child := range v {
			walk(path+Separator+strconv.Itoa(i), child, out)
		}
	default:
		out[path] = v
	}
}

// Pages flattens every record in an ordered page sequence, preserving the
// original cross-page record order. A record that is not a JSON object is a
// fatal input contract violation and aborts with *Error.
func Pages(pages []pagination.Page) ([]FlatRecord, error) {
	records := []FlatRecord{}
	for pageIdx, page := range pages {
		for recIdx, raw := range page.Data {
			rec, err := decodeRecord(raw)
			if err != nil {
				return nil, &Error{Page: pageIdx, Index: recIdx, Err: err}
			}
			records = append(records, Record(rec))
		}
	}
	return records, nil
}

// decodeRecord parses one raw record. Numbers are kept as json.Number so
// flight numbers and codes survive serialization without float mangling.
func decodeRecord(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("record is not a JSON object: %w", err)
	}
	// Decoding "null" into a map is a no-op, not an error.
	if rec == nil {
		return nil, errors.New("record is null")
	}
	return rec, nil
}

// Error reports a record that violated the input contract. Page and Index
// locate the offending record in the fetched sequence.
type Error struct {
	Page  int
	Index int
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("flatten error at page %d record %d: %v", e.Page, e.Index, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
