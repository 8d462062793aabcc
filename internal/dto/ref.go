package dto

import (
	"encoding/json"
	"fmt"
)

// Ref accepts API payload fields that arrive either as a bare identifier
// (string or number) or as an embedded object carrying an "id". The union is
// resolved once at the API boundary; everything past the DTO layer works with
// the normalized numeric id.
type Ref[T any] struct {
	ID       uint
	Embedded *T
}

type idCarrier struct {
	ID uint `json:"id"`
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	var asNumber uint
	if err := json.Unmarshal(data, &asNumber); err == nil {
		r.ID = asNumber
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		var id uint
		if _, err := fmt.Sscanf(asString, "%d", &id); err != nil {
			return fmt.Errorf("ref: %q is not a numeric identifier", asString)
		}
		r.ID = id
		return nil
	}

	var embedded T
	if err := json.Unmarshal(data, &embedded); err != nil {
		return fmt.Errorf("ref: payload is neither an id nor an embedded object: %w", err)
	}
	r.Embedded = &embedded

	var carrier idCarrier
	if err := json.Unmarshal(data, &carrier); err == nil {
		r.ID = carrier.ID
	}
	if r.ID == 0 {
		return fmt.Errorf("ref: embedded object is missing an id")
	}
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Embedded != nil {
		return json.Marshal(r.Embedded)
	}
	return json.Marshal(r.ID)
}

// RefIDs normalizes a slice of refs into plain identifiers.
func RefIDs[T any](refs []Ref[T]) []uint {
	ids := make([]uint, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}
