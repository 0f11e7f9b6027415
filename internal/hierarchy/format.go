// Package hierarchy validates level-bucketed entity documents and assembles
// them into a forest.
package hierarchy

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Format turns a level-bucketed document into a forest of entities.
//
// The pipeline is shape validation, per-entity validation and registration
// (buckets in document order, elements in array order), then assembly. The
// first failure at any stage is returned as-is and nothing else is produced.
// Use Classify to map the error to a Kind.
//
// Every call builds its own registry; Format is safe for concurrent use.
func Format(raw json.RawMessage) ([]*Entity, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrMissingInput
	}

	buckets, err := ValidateShape(trimmed)
	if err != nil {
		return nil, err
	}

	size := 0
	for _, b := range buckets {
		size += len(b.Elements)
	}
	reg := NewRegistry(size)

	for _, b := range buckets {
		for i, elem := range b.Elements {
			e, err := ValidateEntity(elem)
			if err == nil {
				err = reg.Register(e)
			}
			if err != nil {
				var ve *EntityValidationError
				if errors.As(err, &ve) {
					ve.Bucket, ve.Index = b.Key, i
				}
				return nil, err
			}
		}
	}

	return Assemble(reg)
}

// Flatten returns the ids of the forest in pre-order.
func Flatten(roots []*Entity) []int64 {
	var ids []int64
	var visit func([]*Entity)
	visit = func(es []*Entity) {
		for _, e := range es {
			ids = append(ids, e.ID)
			visit(e.Children)
		}
	}
	visit(roots)
	return ids
}
