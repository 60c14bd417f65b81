package recordsdomain

// Display fallbacks for references whose target no longer exists.
const (
	UnknownMap              = "Unknown Map"
	UnknownGhost            = "Unknown Ghost"
	UnknownEvidence         = "Unknown Evidence"
	UnknownCursedPossession = "Unknown Cursed Possession"
	UnknownGameMode         = "Unknown Game Mode"
	UnknownChallengeMode    = "Unknown Challenge"
)

// Lookup resolves reference ids to display names. Runs name their players directly, so
// players are not indexed.
type Lookup struct {
	maps       map[int]string
	ghosts     map[int]string
	evidence   map[int]string
	possession map[int]string
	gameModes  map[int]string
	challenges map[int]string
}

// NewLookup indexes the reference collections of s.
func NewLookup(s *Snapshot) *Lookup {
	l := &Lookup{
		maps:       make(map[int]string, len(s.Maps)),
		ghosts:     make(map[int]string, len(s.Ghosts)),
		evidence:   make(map[int]string, len(s.Evidence)),
		possession: make(map[int]string, len(s.CursedPossessions)),
		gameModes:  make(map[int]string, len(s.GameModes)),
		challenges: make(map[int]string, len(s.ChallengeModes)),
	}
	for _, m := range s.Maps {
		l.maps[m.ID] = m.Name
	}
	for _, g := range s.Ghosts {
		l.ghosts[g.ID] = g.Name
	}
	for _, e := range s.Evidence {
		l.evidence[e.ID] = e.Name
	}
	for _, c := range s.CursedPossessions {
		l.possession[c.ID] = c.Name
	}
	for _, g := range s.GameModes {
		l.gameModes[g.ID] = g.Name
	}
	for _, c := range s.ChallengeModes {
		l.challenges[c.ID] = c.Name
	}
	return l
}

func nameOr(m map[int]string, id int, fallback string) string {
	if name, ok := m[id]; ok {
		return name
	}
	return fallback
}

func (l *Lookup) MapName(id int) string   { return nameOr(l.maps, id, UnknownMap) }
func (l *Lookup) GhostName(id int) string { return nameOr(l.ghosts, id, UnknownGhost) }
func (l *Lookup) EvidenceName(id int) string {
	return nameOr(l.evidence, id, UnknownEvidence)
}
func (l *Lookup) CursedPossessionName(id int) string {
	return nameOr(l.possession, id, UnknownCursedPossession)
}
func (l *Lookup) GameModeName(id int) string { return nameOr(l.gameModes, id, UnknownGameMode) }
func (l *Lookup) ChallengeModeName(id int) string {
	return nameOr(l.challenges, id, UnknownChallengeMode)
}
