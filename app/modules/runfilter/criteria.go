// Package runfilter filters logged runs and computes facet counts for the run browser.
//
// Each field's options are counted against the runs matching every other filter, so
// choosing a value never collapses that field's own option list.
package runfilter

import (
	"fmt"
	"strings"
)

// Field is a filterable run attribute.
type Field string

const (
	FieldDate             Field = "date"
	FieldPlayer           Field = "player"
	FieldMap              Field = "map"
	FieldGhost            Field = "ghost"
	FieldCursedPossession Field = "cursedPossession"
	FieldDeaths           Field = "deaths"
)

// Fields lists every single-value filter field in display order.
var Fields = []Field{FieldDate, FieldPlayer, FieldMap, FieldGhost, FieldCursedPossession, FieldDeaths}

// Sentinel option values.
const (
	// All leaves a field unconstrained.
	All = "all"
	// None matches runs without a cursed possession, or runs where nobody died.
	None = "none"
	// Any matches runs where at least one player died.
	Any = "any"
)

// ParseField accepts a field name, ignoring case.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter field %q", s)
}

// Criteria is the current set of filter selections. Map, ghost and cursed possession
// values are record ids in decimal.
type Criteria struct {
	Values map[Field]string `json:"values"`
	// ExactRoster, when non-empty, keeps only runs whose player set equals it.
	ExactRoster []string `json:"exactRoster"`
}

// NewCriteria returns criteria with nothing selected.
func NewCriteria() Criteria {
	return Criteria{Values: make(map[Field]string)}
}

// With returns a copy of c with field set to value.
func (c Criteria) With(field Field, value string) Criteria {
	out := Criteria{Values: make(map[Field]string, len(c.Values)+1), ExactRoster: c.ExactRoster}
	for k, v := range c.Values {
		out.Values[k] = v
	}
	out.Values[field] = value
	return out
}

// Selected returns the active value for field, or "" when unconstrained.
func (c Criteria) Selected(field Field) string {
	v := strings.TrimSpace(c.Values[field])
	if v == "" || strings.EqualFold(v, All) {
		return ""
	}
	return v
}

// Active reports whether any filter constrains the result.
func (c Criteria) Active() bool {
	for _, f := range Fields {
		if c.Selected(f) != "" {
			return true
		}
	}
	return len(c.roster()) > 0
}

// roster returns the trimmed, non-blank exact-roster names as a set.
func (c Criteria) roster() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ExactRoster))
	for _, name := range c.ExactRoster {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}
