// Package reports renders run lists as spreadsheets and charts.
package reports

import (
	"sort"
	"strings"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

// GhostStat summarizes the runs whose actual ghost was GhostID.
type GhostStat struct {
	GhostID int    `json:"ghostId"`
	Name    string `json:"name"`
	Runs    int    `json:"runs"`
	// Correct counts runs where the guess matched.
	Correct int `json:"correct"`
}

// Accuracy is the share of correct guesses, or 0 with no runs.
func (s GhostStat) Accuracy() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Runs)
}

// GhostStats tallies runs by actual ghost, most frequent first. Runs with no ghost are
// left out.
func GhostStats(runs []recordsdomain.RunView) []GhostStat {
	byID := make(map[int]*GhostStat)
	for _, r := range runs {
		id := r.ActualGhost()
		if id == 0 {
			continue
		}
		st, ok := byID[id]
		if !ok {
			st = &GhostStat{GhostID: id, Name: r.ActualGhostName}
			byID[id] = st
		}
		st.Runs++
		if r.WasCorrect {
			st.Correct++
		}
	}

	out := make([]GhostStat, 0, len(byID))
	for _, st := range byID {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Runs != out[j].Runs {
			return out[i].Runs > out[j].Runs
		}
		if li, lj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name); li != lj {
			return li < lj
		}
		return out[i].GhostID < out[j].GhostID
	})
	return out
}
