package recordsdomain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date form used for run dates and the date filter.
const DateLayout = "2006-01-02"

// Date is the UTC calendar date of the run's timestamp.
func (r Run) Date() string {
	if r.Timestamp.IsZero() {
		return ""
	}
	return r.Timestamp.UTC().Format(DateLayout)
}

// PlayerCount is the roster size.
func (r Run) PlayerCount() int {
	return len(r.Players)
}

// ActualGhost returns the ghost the run turned out to be, falling back to the guess.
func (r Run) ActualGhost() int {
	if r.ActualGhostID != nil {
		return *r.ActualGhostID
	}
	return r.GhostID
}

// WasCorrect reports whether the guessed ghost matched the actual ghost.
func (r Run) WasCorrect() bool {
	return r.GhostID == r.ActualGhost()
}

// PlayerNames lists roster names in roster order.
func (r Run) PlayerNames() []string {
	names := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		names = append(names, p.Name)
	}
	return names
}

// DeadPlayers lists the names of players who died.
func (r Run) DeadPlayers() []string {
	var dead []string
	for _, p := range r.Players {
		if p.Status == StatusDead {
			dead = append(dead, p.Name)
		}
	}
	return dead
}

// FormatRunTime renders seconds as HH:MM:SS when at least an hour, otherwise MM:SS.
// A nil duration renders as the empty string.
func FormatRunTime(seconds *int) string {
	if seconds == nil || *seconds < 0 {
		return ""
	}
	d := time.Duration(*seconds) * time.Second
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := *seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// RunView is a run enriched with derived fields and display names. It is computed on read
// and never stored.
type RunView struct {
	Run
	Date                 string   `json:"date"`
	PlayerCount          int      `json:"playerCount"`
	WasCorrect           bool     `json:"wasCorrect"`
	FormattedRunTime     string   `json:"formattedRunTime"`
	MapName              string   `json:"mapName"`
	GhostName            string   `json:"ghostName"`
	ActualGhostName      string   `json:"actualGhostName"`
	GameModeName         string   `json:"gameModeName"`
	CursedPossessionName string   `json:"cursedPossessionName"`
	ChallengeModeName    string   `json:"challengeModeName"`
	EvidenceNames        []string `json:"evidenceNames"`
}

// Enrich computes the derived view of a run against the reference data in l.
func Enrich(r Run, l *Lookup) RunView {
	v := RunView{
		Run:              r,
		Date:             r.Date(),
		PlayerCount:      r.PlayerCount(),
		WasCorrect:       r.WasCorrect(),
		FormattedRunTime: FormatRunTime(r.RunTimeSeconds),
		MapName:          l.MapName(r.MapID),
		GhostName:        l.GhostName(r.GhostID),
		ActualGhostName:  l.GhostName(r.ActualGhost()),
		EvidenceNames:    make([]string, 0, len(r.EvidenceIDs)),
	}
	if r.GameModeID != 0 {
		v.GameModeName = l.GameModeName(r.GameModeID)
	}
	if r.CursedPossessionID != nil {
		v.CursedPossessionName = l.CursedPossessionName(*r.CursedPossessionID)
	}
	if r.ChallengeModeID != nil {
		v.ChallengeModeName = l.ChallengeModeName(*r.ChallengeModeID)
	}
	for _, id := range r.EvidenceIDs {
		v.EvidenceNames = append(v.EvidenceNames, l.EvidenceName(id))
	}
	return v
}
