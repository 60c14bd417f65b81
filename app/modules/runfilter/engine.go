package runfilter

import (
	"sort"
	"strconv"
	"strings"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

// Option is one choice in a facet.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Facet is the option list of one field. Options[0] is always the "all" option, whose
// count is the number of runs matching every filter except this field.
type Facet struct {
	Field    Field    `json:"field"`
	Selected string   `json:"selected"`
	Options  []Option `json:"options"`
}

// Result is the filtered run list plus the facets for every field.
type Result struct {
	Runs   []recordsdomain.RunView `json:"runs"`
	Total  int                     `json:"total"`
	Facets []Facet                 `json:"facets"`
}

// Facet returns the facet for field.
func (r Result) Facet(field Field) (Facet, bool) {
	for _, f := range r.Facets {
		if f.Field == field {
			return f, true
		}
	}
	return Facet{}, false
}

// Apply filters the runs in snap by c and computes every facet.
func Apply(snap *recordsdomain.Snapshot, c Criteria) Result {
	lookup := recordsdomain.NewLookup(snap)
	roster := c.roster()

	// The roster filter is independent of every field, so apply it once up front.
	base := make([]recordsdomain.Run, 0, len(snap.Runs))
	for _, r := range snap.Runs {
		if rosterMatches(r, roster) {
			base = append(base, r)
		}
	}

	res := Result{Facets: make([]Facet, 0, len(Fields))}
	for _, f := range Fields {
		subset := filter(base, c, f)
		res.Facets = append(res.Facets, buildFacet(f, c.Selected(f), subset, lookup))
	}

	matched := filter(base, c, "")
	Sort(matched)
	res.Runs = make([]recordsdomain.RunView, 0, len(matched))
	for _, r := range matched {
		res.Runs = append(res.Runs, recordsdomain.Enrich(r, lookup))
	}
	res.Total = len(res.Runs)
	return res
}

// Filter returns the runs matching every selection in c, sorted newest first.
func Filter(runs []recordsdomain.Run, c Criteria) []recordsdomain.Run {
	roster := c.roster()
	base := make([]recordsdomain.Run, 0, len(runs))
	for _, r := range runs {
		if rosterMatches(r, roster) {
			base = append(base, r)
		}
	}
	out := filter(base, c, "")
	Sort(out)
	return out
}

// Sort orders runs by date descending, then run number descending.
func Sort(runs []recordsdomain.Run) {
	sort.SliceStable(runs, func(i, j int) bool {
		di, dj := runs[i].Date(), runs[j].Date()
		if di != dj {
			return di > dj
		}
		return runs[i].RunNumber > runs[j].RunNumber
	})
}

// filter keeps runs matching every selected field except skip.
func filter(runs []recordsdomain.Run, c Criteria, skip Field) []recordsdomain.Run {
	out := make([]recordsdomain.Run, 0, len(runs))
	for _, r := range runs {
		ok := true
		for _, f := range Fields {
			if f == skip {
				continue
			}
			if v := c.Selected(f); v != "" && !Matches(r, f, v) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether run has value for field.
func Matches(run recordsdomain.Run, field Field, value string) bool {
	for _, v := range Values(run, field) {
		if v == value {
			return true
		}
	}
	return false
}

// Values lists the facet values a run contributes to field. A run counts once toward
// each value.
func Values(run recordsdomain.Run, field Field) []string {
	switch field {
	case FieldDate:
		return []string{run.Date()}
	case FieldPlayer:
		return uniqueNames(run.PlayerNames())
	case FieldMap:
		return []string{strconv.Itoa(run.MapID)}
	case FieldGhost:
		return []string{strconv.Itoa(run.GhostID)}
	case FieldCursedPossession:
		if run.CursedPossessionID == nil {
			return []string{None}
		}
		return []string{strconv.Itoa(*run.CursedPossessionID)}
	case FieldDeaths:
		dead := uniqueNames(run.DeadPlayers())
		if len(dead) == 0 {
			return []string{None}
		}
		return append([]string{Any}, dead...)
	}
	return nil
}

func rosterMatches(run recordsdomain.Run, roster map[string]struct{}) bool {
	if len(roster) == 0 {
		return true
	}
	names := uniqueNames(run.PlayerNames())
	if len(names) != len(roster) {
		return false
	}
	for _, n := range names {
		if _, ok := roster[n]; !ok {
			return false
		}
	}
	return true
}

func uniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// RosterCandidates lists every player name that appears in runs, sorted.
func RosterCandidates(runs []recordsdomain.Run) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range runs {
		for _, n := range uniqueNames(r.PlayerNames()) {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}
