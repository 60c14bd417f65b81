package recordsdomain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultExportFilename is the suggested name for exported snapshots.
const DefaultExportFilename = "ghostlog-data.json"

// Snapshot is the whole persisted data set. It is stored as one JSON document.
type Snapshot struct {
	Maps              []Map              `json:"maps"`
	Ghosts            []Ghost            `json:"ghosts"`
	Runs              []Run              `json:"runs"`
	Players           []Player           `json:"players"`
	GameModes         []GameMode         `json:"gameModes"`
	Evidence          []Evidence         `json:"evidence"`
	CursedPossessions []CursedPossession `json:"cursedPossessions"`
	MapCollections    []MapCollection    `json:"mapCollections"`
	ChallengeModes    []ChallengeMode    `json:"challengeModes"`
}

// NewSnapshot returns an empty snapshot with every collection present.
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}

// Normalize replaces missing collections with empty ones so older exports load cleanly.
func (s *Snapshot) Normalize() {
	if s.Maps == nil {
		s.Maps = []Map{}
	}
	if s.Ghosts == nil {
		s.Ghosts = []Ghost{}
	}
	if s.Runs == nil {
		s.Runs = []Run{}
	}
	if s.Players == nil {
		s.Players = []Player{}
	}
	if s.GameModes == nil {
		s.GameModes = []GameMode{}
	}
	if s.Evidence == nil {
		s.Evidence = []Evidence{}
	}
	if s.CursedPossessions == nil {
		s.CursedPossessions = []CursedPossession{}
	}
	if s.MapCollections == nil {
		s.MapCollections = []MapCollection{}
	}
	if s.ChallengeModes == nil {
		s.ChallengeModes = []ChallengeMode{}
	}
	for i := range s.Maps {
		if s.Maps[i].Floors == nil {
			s.Maps[i].Floors = []Floor{}
		}
		if s.Maps[i].Rooms == nil {
			s.Maps[i].Rooms = []string{}
		}
	}
	for i := range s.Ghosts {
		if s.Ghosts[i].EvidenceIDs == nil {
			s.Ghosts[i].EvidenceIDs = []int{}
		}
	}
	for i := range s.Runs {
		if s.Runs[i].EvidenceIDs == nil {
			s.Runs[i].EvidenceIDs = []int{}
		}
		if s.Runs[i].Players == nil {
			s.Runs[i].Players = RunPlayers{}
		}
	}
}

// DecodeSnapshot parses a persisted or imported document. The payload must be a JSON
// object; missing collections are filled and legacy shapes migrated.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, NewError(ErrMalformedFile, "snapshot", "file does not contain a JSON object")
	}
	var s Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, &Error{Kind: ErrMalformedFile, Entity: "snapshot", Message: fmt.Sprintf("invalid JSON: %v", err), Err: err}
	}
	MigrateLegacy(&s)
	s.Normalize()
	return &s, nil
}

// Encode renders the snapshot as compact JSON for storage.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// EncodeIndent renders the snapshot with two-space indentation for export files.
func (s *Snapshot) EncodeIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Clone returns a deep copy so callers never share backing arrays with the store.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Maps:              cloneEach(s.Maps, Map.Clone),
		Ghosts:            cloneEach(s.Ghosts, Ghost.Clone),
		Runs:              cloneEach(s.Runs, Run.Clone),
		Players:           cloneEach(s.Players, Player.Clone),
		GameModes:         cloneEach(s.GameModes, GameMode.Clone),
		Evidence:          cloneEach(s.Evidence, Evidence.Clone),
		CursedPossessions: cloneEach(s.CursedPossessions, CursedPossession.Clone),
		MapCollections:    cloneEach(s.MapCollections, MapCollection.Clone),
		ChallengeModes:    cloneEach(s.ChallengeModes, ChallengeMode.Clone),
	}
	return out
}

func cloneEach[T any](in []T, clone func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	return append([]int{}, in...)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (m Map) Clone() Map {
	m.Floors = cloneEach(m.Floors, Floor.Clone)
	if m.Rooms != nil {
		m.Rooms = append([]string{}, m.Rooms...)
	}
	return m
}

func (f Floor) Clone() Floor {
	if f.Rooms != nil {
		f.Rooms = append([]Room{}, f.Rooms...)
	}
	return f
}

func (g Ghost) Clone() Ghost {
	g.EvidenceIDs = cloneInts(g.EvidenceIDs)
	g.MapID = clonePtr(g.MapID)
	return g
}

func (e Evidence) Clone() Evidence {
	e.IsActive = clonePtr(e.IsActive)
	return e
}

func (c CursedPossession) Clone() CursedPossession {
	c.IsActive = clonePtr(c.IsActive)
	return c
}

func (g GameMode) Clone() GameMode {
	g.IsActive = clonePtr(g.IsActive)
	return g
}

func (p Player) Clone() Player {
	p.IsActive = clonePtr(p.IsActive)
	return p
}

func (c MapCollection) Clone() MapCollection {
	c.MapIDs = cloneInts(c.MapIDs)
	c.IsActive = clonePtr(c.IsActive)
	return c
}

func (c ChallengeMode) Clone() ChallengeMode {
	c.MapID = clonePtr(c.MapID)
	c.MapCollectionID = clonePtr(c.MapCollectionID)
	return c
}

func (r Run) Clone() Run {
	r.CursedPossessionID = clonePtr(r.CursedPossessionID)
	r.EvidenceIDs = cloneInts(r.EvidenceIDs)
	r.ChallengeModeID = clonePtr(r.ChallengeModeID)
	r.ActualGhostID = clonePtr(r.ActualGhostID)
	r.RunTimeSeconds = clonePtr(r.RunTimeSeconds)
	if r.Players != nil {
		r.Players = append(RunPlayers{}, r.Players...)
	}
	if r.LegacyStatuses != nil {
		statuses := make(PlayerState, len(r.LegacyStatuses))
		for k, v := range r.LegacyStatuses {
			statuses[k] = v
		}
		r.LegacyStatuses = statuses
	}
	return r
}
