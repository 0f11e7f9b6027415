package hierarchy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Bucket is one top-level entry of the input document: a level key and the
// raw, not yet validated, entity candidates under it.
type Bucket struct {
	Key      string
	Level    uint64
	Elements []json.RawMessage
}

// ValidateShape checks that raw is an object whose keys are non-negative
// integers and whose values are arrays. Buckets are returned in document
// order. The elements themselves are not inspected.
func ValidateShape(raw json.RawMessage) ([]Bucket, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &ShapeError{Msg: "malformed JSON", Err: err}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &ShapeError{Msg: "top level must be an object"}
	}

	buckets := []Bucket{}
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &ShapeError{Msg: "malformed JSON", Err: err}
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &ShapeError{Msg: "malformed JSON"}
		}

		level, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, &ShapeError{Key: key, Msg: "top level keys must be non-negative integers"}
		}
		if seen[key] {
			return nil, &ShapeError{Key: key, Msg: "duplicate top level key"}
		}
		seen[key] = true

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, &ShapeError{Key: key, Msg: "malformed JSON", Err: err}
		}
		value = bytes.TrimSpace(value)
		if len(value) == 0 || value[0] != '[' {
			return nil, &ShapeError{Key: key, Msg: "value must be an array"}
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(value, &elems); err != nil {
			return nil, &ShapeError{Key: key, Msg: "value must be an array", Err: err}
		}
		buckets = append(buckets, Bucket{Key: key, Level: level, Elements: elems})
	}

	if _, err := dec.Token(); err != nil {
		return nil, &ShapeError{Msg: "malformed JSON", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ShapeError{Msg: fmt.Sprintf("unexpected data after document at offset %d", dec.InputOffset())}
	}
	return buckets, nil
}
