package models

import (
	"encoding/json"
	"fmt"
)

// SearchFilters is the immutable input to every provider. Lifestyle
// accepts either a single phrase or a list on the wire.
type SearchFilters struct {
	Location  string        `json:"location"`
	MinPrice  *int          `json:"min_price,omitempty"`
	MaxPrice  *int          `json:"max_price,omitempty"`
	Bedrooms  *int          `json:"bedrooms,omitempty"`
	Amenities []string      `json:"amenities,omitempty"`
	Lifestyle LifestyleList `json:"lifestyle,omitempty"`
}

// LifestyleList unmarshals from either a JSON string or a JSON array
// of strings.
type LifestyleList []string

func (l *LifestyleList) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*l = nil
		} else {
			*l = LifestyleList{s}
		}
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*l = LifestyleList(list)
		return nil
	}
	return fmt.Errorf("lifestyle: expected string or array, got %s", data)
}

func IntPtr(v int) *int { return &v }
