package hierarchy

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Entity is a node of the assembled forest.
type Entity struct {
	ID       int64     `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Level    int64     `json:"level" yaml:"level"`
	Children []*Entity `json:"children" yaml:"children"`
	ParentID *int64    `json:"parent_id" yaml:"parent_id"`
}

// IsRoot reports whether the entity has no parent.
func (e *Entity) IsRoot() bool { return e.ParentID == nil }

var entityFields = map[string]bool{
	"id":        true,
	"title":     true,
	"level":     true,
	"children":  true,
	"parent_id": true,
}

// ValidateEntity checks one raw bucket element against the entity schema.
// The returned entity always has an empty, non-nil Children slice.
func ValidateEntity(raw json.RawMessage) (*Entity, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &EntityValidationError{Reason: "must be an object"}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &EntityValidationError{Reason: "must be an object"}
	}

	e := &Entity{Children: []*Entity{}}

	id, err := requiredIndex(fields, "id")
	if err != nil {
		return nil, err
	}
	e.ID = id

	rawTitle, ok := fields["title"]
	if !ok {
		return nil, &EntityValidationError{Field: "title", Reason: "is required"}
	}
	var title any
	if err := decodeValue(rawTitle, &title); err != nil {
		return nil, &EntityValidationError{Field: "title", Reason: "must be a string"}
	}
	s, ok := title.(string)
	if !ok {
		return nil, &EntityValidationError{Field: "title", Reason: "must be a string"}
	}
	if s == "" {
		return nil, &EntityValidationError{Field: "title", Reason: "must not be empty"}
	}
	e.Title = s

	level, err := requiredIndex(fields, "level")
	if err != nil {
		return nil, err
	}
	e.Level = level

	if rawChildren, ok := fields["children"]; ok {
		var children any
		if err := decodeValue(rawChildren, &children); err != nil {
			return nil, &EntityValidationError{Field: "children", Reason: "must be an array"}
		}
		arr, ok := children.([]any)
		if !ok {
			return nil, &EntityValidationError{Field: "children", Reason: "must be an array"}
		}
		if len(arr) != 0 {
			return nil, &EntityValidationError{Field: "children", Reason: "must be empty"}
		}
	}

	rawParent, ok := fields["parent_id"]
	if !ok {
		return nil, &EntityValidationError{Field: "parent_id", Reason: "is required"}
	}
	if !bytes.Equal(bytes.TrimSpace(rawParent), []byte("null")) {
		pid, reason := parseIndex(rawParent)
		if reason != "" {
			return nil, &EntityValidationError{Field: "parent_id", Reason: reason}
		}
		e.ParentID = &pid
	}

	var unknown []string
	for k := range fields {
		if !entityFields[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &EntityValidationError{Field: unknown[0], Reason: "is not allowed"}
	}

	return e, nil
}

func requiredIndex(fields map[string]json.RawMessage, name string) (int64, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, &EntityValidationError{Field: name, Reason: "is required"}
	}
	n, reason := parseIndex(raw)
	if reason != "" {
		return 0, &EntityValidationError{Field: name, Reason: reason}
	}
	return n, nil
}

// parseIndex decodes a non-negative integer. Integral floats such as 2.0 are
// accepted. A non-empty reason describes the violation.
func parseIndex(raw json.RawMessage) (int64, string) {
	var v any
	if err := decodeValue(raw, &v); err != nil {
		return 0, "must be a number"
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, "must be a number"
	}
	n, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(num.String(), 64)
		if ferr != nil || math.IsInf(f, 0) {
			return 0, "must be a safe number"
		}
		if f != math.Trunc(f) {
			return 0, "must be an integer"
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, "must be a safe number"
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, "must be greater than or equal to 0"
	}
	return n, ""
}

func decodeValue(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
