package model

import (
	"errors"
	"fmt"
)

// RangeSpec is one selectable lookback window.
type RangeSpec struct {
	ID           string `json:"id" yaml:"id"`
	LookbackDays int    `json:"days" yaml:"days"`
	Label        string `json:"label" yaml:"label"`
}

// Points is the series length a range produces (today included).
func (r RangeSpec) Points() int { return r.LookbackDays + 1 }

// DefaultRanges is the reference catalog, in display order.
var DefaultRanges = []RangeSpec{
	{ID: "1d", LookbackDays: 1, Label: "1D"},
	{ID: "3d", LookbackDays: 3, Label: "3D"},
	{ID: "1w", LookbackDays: 7, Label: "1W"},
	{ID: "1m", LookbackDays: 30, Label: "1M"},
	{ID: "6m", LookbackDays: 180, Label: "6M"},
	{ID: "1yr", LookbackDays: 365, Label: "1Y"},
	{ID: "max", LookbackDays: 360, Label: "MAX"},
}

// DefaultRangeID is selected when nothing else is configured.
const DefaultRangeID = "1m"

// Catalog is an ordered, id-unique set of ranges. The zero value is empty.
type Catalog struct {
	specs []RangeSpec
	index map[string]int
}

// NewCatalog validates specs and keeps their order.
func NewCatalog(specs []RangeSpec) (Catalog, error) {
	if len(specs) == 0 {
		return Catalog{}, errors.New("catalog must contain at least one range")
	}
	c := Catalog{
		specs: make([]RangeSpec, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	for i, s := range specs {
		if s.ID == "" {
			return Catalog{}, fmt.Errorf("range #%d: id is required", i)
		}
		if s.LookbackDays < 0 {
			return Catalog{}, fmt.Errorf("range %q: days must be >= 0, got %d", s.ID, s.LookbackDays)
		}
		if _, dup := c.index[s.ID]; dup {
			return Catalog{}, fmt.Errorf("range %q: duplicate id", s.ID)
		}
		if s.Label == "" {
			s.Label = s.ID
		}
		c.specs[i] = s
		c.index[s.ID] = i
	}
	return c, nil
}

// Lookup finds a range by id.
func (c Catalog) Lookup(id string) (RangeSpec, bool) {
	i, ok := c.index[id]
	if !ok {
		return RangeSpec{}, false
	}
	return c.specs[i], true
}

// Specs returns the ranges in display order. The slice is a copy.
func (c Catalog) Specs() []RangeSpec {
	out := make([]RangeSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// IDs returns the range ids in display order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c.specs))
	for i, s := range c.specs {
		ids[i] = s.ID
	}
	return ids
}

func (c Catalog) Len() int { return len(c.specs) }
