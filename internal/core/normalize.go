// Package core holds the derived-state engine: the pure computations that
// turn entity snapshots into display-ready values. Every function here takes
// its input by value or slice, holds no state between calls, and is safe to
// re-run with a fresh snapshot at any time.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when an API payload is neither a JSON array
// nor a pagination envelope wrapping one.
var ErrMalformedPayload = errors.New("malformed payload")

// Normalize decodes a list payload from the data service. The backend may
// return either a bare JSON array or a paginated `{"results": [...]}`
// envelope; both shapes yield the same flat slice.
func Normalize[T any](payload []byte) ([]T, error) {
	raw := json.RawMessage(payload)

	var env struct {
		Results json.RawMessage `json:"results"`
	}
	// A literal null results field counts as absent, not as an empty list.
	if err := json.Unmarshal(payload, &env); err == nil && env.Results != nil &&
		!bytes.Equal(env.Results, []byte("null")) {
		raw = env.Results
	}

	var entities []T
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of entities: %v", ErrMalformedPayload, err)
	}
	return entities, nil
}
