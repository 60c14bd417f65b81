package recordsservice

import (
	"strings"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

func invalidConfig(entity, format string, args ...any) error {
	return recordsdomain.NewError(recordsdomain.ErrInvalidConfiguration, entity, format, args...)
}

func invalidRef(entity, format string, args ...any) error {
	return recordsdomain.NewError(recordsdomain.ErrInvalidReference, entity, format, args...)
}

// uniqueInts drops repeated ids, keeping first occurrences. It never returns nil.
func uniqueInts(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func hasID[T any, P recordsdomain.Record[T]](items []T, id int) bool {
	return indexOf[T, P](items, id) >= 0
}

func prepareMap(_ *recordsdomain.Snapshot, m *recordsdomain.Map) error {
	if !m.Size.Valid() {
		return invalidConfig("map", "size %q must be small, medium or large", m.Size)
	}
	if len(m.Floors) == 0 && len(m.Rooms) > 0 {
		m.Floors = recordsdomain.FloorsFromRooms(m.Rooms)
	}
	m.Floors = recordsdomain.NormalizeFloors(m.Floors)
	m.Rooms = recordsdomain.FlattenRooms(m.Floors)
	return nil
}

func prepareGhost(snap *recordsdomain.Snapshot, g *recordsdomain.Ghost) error {
	g.EvidenceIDs = uniqueInts(g.EvidenceIDs)
	if len(g.EvidenceIDs) > recordsdomain.MaxGhostEvidence {
		return invalidConfig("ghost", "a ghost has at most %d evidence, got %d",
			recordsdomain.MaxGhostEvidence, len(g.EvidenceIDs))
	}
	for _, id := range g.EvidenceIDs {
		if !hasID(snap.Evidence, id) {
			return invalidRef("ghost", "evidence %d does not exist", id)
		}
	}
	if g.MapID != nil && *g.MapID == 0 {
		g.MapID = nil
	}
	return nil
}

func prepareGameMode(_ *recordsdomain.Snapshot, g *recordsdomain.GameMode) error {
	if g.MaxEvidence < 0 || g.MaxEvidence > recordsdomain.MaxGhostEvidence {
		return invalidConfig("game mode", "maxEvidence must be between 0 and %d, got %d",
			recordsdomain.MaxGhostEvidence, g.MaxEvidence)
	}
	return nil
}

func preparePlayer(snap *recordsdomain.Snapshot, p *recordsdomain.Player) error {
	if !p.Active() {
		p.IsDefault = false
	}
	if !p.IsDefault {
		return nil
	}
	defaults := 0
	for _, other := range snap.Players {
		if other.ID != p.ID && other.IsDefault {
			defaults++
		}
	}
	if defaults >= recordsdomain.MaxDefaultPlayers {
		return recordsdomain.NewError(recordsdomain.ErrTooManyDefaults, "player",
			"at most %d players can be default", recordsdomain.MaxDefaultPlayers)
	}
	return nil
}

func prepareMapCollection(snap *recordsdomain.Snapshot, c *recordsdomain.MapCollection) error {
	c.MapIDs = uniqueInts(c.MapIDs)
	if len(c.MapIDs) == 0 {
		return invalidConfig("map collection", "at least one map is required")
	}
	for _, id := range c.MapIDs {
		if !hasID(snap.Maps, id) {
			return invalidRef("map collection", "map %d does not exist", id)
		}
	}
	if c.Size == "" {
		first := snap.Maps[indexOf(snap.Maps, c.MapIDs[0])]
		c.Size = first.Size
	}
	if !c.Size.Valid() {
		return invalidConfig("map collection", "size %q must be small, medium or large", c.Size)
	}
	c.SelectionLabel = strings.TrimSpace(c.SelectionLabel)
	return nil
}

func prepareChallengeMode(snap *recordsdomain.Snapshot, c *recordsdomain.ChallengeMode) error {
	if c.MapID != nil && *c.MapID == 0 {
		c.MapID = nil
	}
	if c.MapCollectionID != nil && *c.MapCollectionID == 0 {
		c.MapCollectionID = nil
	}
	switch {
	case c.MapID == nil && c.MapCollectionID == nil:
		return invalidConfig("challenge mode", "a map or a map collection is required")
	case c.MapID != nil && c.MapCollectionID != nil:
		return invalidConfig("challenge mode", "set either a map or a map collection, not both")
	case c.MapID != nil && !hasID(snap.Maps, *c.MapID):
		return invalidRef("challenge mode", "map %d does not exist", *c.MapID)
	case c.MapCollectionID != nil && !hasID(snap.MapCollections, *c.MapCollectionID):
		return invalidRef("challenge mode", "map collection %d does not exist", *c.MapCollectionID)
	}
	return nil
}

// cascadeMap removes ghosts still tied to the map and every run played on it.
func cascadeMap(snap *recordsdomain.Snapshot, removed recordsdomain.Map) int {
	n := 0
	ghosts := snap.Ghosts[:0]
	for _, g := range snap.Ghosts {
		if g.MapID != nil && *g.MapID == removed.ID {
			n++
			continue
		}
		ghosts = append(ghosts, g)
	}
	snap.Ghosts = ghosts
	return n + removeRuns(snap, func(r recordsdomain.Run) bool { return r.MapID == removed.ID })
}

// cascadeGhost removes runs where the ghost was the guess.
func cascadeGhost(snap *recordsdomain.Snapshot, removed recordsdomain.Ghost) int {
	return removeRuns(snap, func(r recordsdomain.Run) bool { return r.GhostID == removed.ID })
}

// cascadeEvidence strips the evidence id from ghosts and runs.
func cascadeEvidence(snap *recordsdomain.Snapshot, removed recordsdomain.Evidence) int {
	n := 0
	for i := range snap.Ghosts {
		if ids, ok := without(snap.Ghosts[i].EvidenceIDs, removed.ID); ok {
			snap.Ghosts[i].EvidenceIDs = ids
			n++
		}
	}
	for i := range snap.Runs {
		if ids, ok := without(snap.Runs[i].EvidenceIDs, removed.ID); ok {
			snap.Runs[i].EvidenceIDs = ids
			n++
		}
	}
	return n
}

func removeRuns(snap *recordsdomain.Snapshot, match func(recordsdomain.Run) bool) int {
	kept := snap.Runs[:0]
	n := 0
	for _, r := range snap.Runs {
		if match(r) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	snap.Runs = kept
	return n
}

// without returns ids minus id and whether id was present.
func without(ids []int, id int) ([]int, bool) {
	out := make([]int, 0, len(ids))
	found := false
	for _, v := range ids {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	return out, found
}
