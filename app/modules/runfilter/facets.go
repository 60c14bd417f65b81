package runfilter

import (
	"sort"
	"strconv"
	"strings"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

// Labels for the sentinel options.
const (
	LabelAll         = "All"
	LabelNoPossesion = "None"
	LabelNoDeaths    = "No deaths"
	LabelAnyDeath    = "Any death"
)

// buildFacet tallies field over subset, the runs matching every other filter.
func buildFacet(field Field, selected string, subset []recordsdomain.Run, lookup *recordsdomain.Lookup) Facet {
	counts := make(map[string]int)
	for _, r := range subset {
		for _, v := range Values(r, field) {
			counts[v]++
		}
	}
	// Keep the current selection visible even when nothing matches it any more.
	if selected != "" {
		if _, ok := counts[selected]; !ok {
			counts[selected] = 0
		}
	}

	options := make([]Option, 0, len(counts))
	for v, n := range counts {
		options = append(options, Option{Value: v, Label: label(field, v, lookup), Count: n})
	}
	sortOptions(field, options)

	return Facet{
		Field:    field,
		Selected: selected,
		Options:  append([]Option{{Value: All, Label: LabelAll, Count: len(subset)}}, options...),
	}
}

// label renders an option value for display. Dangling ids fall back to the lookup's
// "Unknown ..." names.
func label(field Field, value string, lookup *recordsdomain.Lookup) string {
	switch field {
	case FieldMap:
		return lookup.MapName(atoi(value))
	case FieldGhost:
		return lookup.GhostName(atoi(value))
	case FieldCursedPossession:
		if value == None {
			return LabelNoPossesion
		}
		return lookup.CursedPossessionName(atoi(value))
	case FieldDeaths:
		switch value {
		case None:
			return LabelNoDeaths
		case Any:
			return LabelAnyDeath
		}
	}
	return value
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// sentinelRank puts none and any ahead of named options.
func sentinelRank(v string) int {
	switch v {
	case None:
		return 0
	case Any:
		return 1
	}
	return 2
}

func sortOptions(field Field, options []Option) {
	sort.Slice(options, func(i, j int) bool {
		a, b := options[i], options[j]
		if field == FieldDate {
			return a.Value > b.Value
		}
		if ra, rb := sentinelRank(a.Value), sentinelRank(b.Value); ra != rb {
			return ra < rb
		}
		la, lb := strings.ToLower(a.Label), strings.ToLower(b.Label)
		if la != lb {
			return la < lb
		}
		return a.Value < b.Value
	})
}
