package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a relational reference as the POS platform serializes it: a
// two-element [id, name] array. Some producers send an {id, name} object
// instead, and an empty reference arrives as false or null. All three
// forms decode; an empty reference decodes to the zero Ref.
type Ref struct {
	ID   int64
	Name string
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("false")) {
		*r = Ref{}
		return nil
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) > 0 {
			if err := json.Unmarshal(pair[0], &r.ID); err != nil {
				return fmt.Errorf("reference id: %w", err)
			}
		}
		if len(pair) > 1 {
			if err := json.Unmarshal(pair[1], &r.Name); err != nil {
				return fmt.Errorf("reference name: %w", err)
			}
		}
		return nil
	}

	var obj struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid reference: %w", err)
	}
	r.ID = obj.ID
	r.Name = obj.Name
	return nil
}

// IsZero reports whether the reference carries no target at all.
func (r *Ref) IsZero() bool {
	return r == nil || (r.ID == 0 && r.Name == "")
}
