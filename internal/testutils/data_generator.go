package testutils

import (
	"fmt"
	"time"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// TestDataGenerator builds reference data and runs for tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed the generator was created with.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

var (
	mapNames      = []string{"Tanglewood Drive", "Edgefield Road", "Ridgeview Court", "Willow Street", "Bleasdale Farmhouse", "Grafton Farmhouse", "Camp Woodwind", "Maple Lodge", "Point Hope", "Sunny Meadows"}
	ghostNames    = []string{"Spirit", "Wraith", "Phantom", "Poltergeist", "Banshee", "Jinn", "Mare", "Revenant", "Shade", "Demon", "Yurei", "Oni"}
	evidenceNames = []string{"EMF Level 5", "Fingerprints", "Ghost Writing", "Freezing Temperatures", "D.O.T.S", "Ghost Orb", "Spirit Box"}
	itemNames     = []string{"Ouija Board", "Music Box", "Tarot Cards", "Summoning Circle", "Haunted Mirror", "Voodoo Doll", "Monkey Paw"}
	roomNames     = []string{"Kitchen", "Nursery", "Basement", "Garage", "Hallway", "Living Room", "Master Bedroom", "Bathroom"}
	sizes         = []recordsdomain.MapSize{recordsdomain.MapSizeSmall, recordsdomain.MapSizeMedium, recordsdomain.MapSizeLarge}
)

func pick[T any](g *TestDataGenerator, from []T) T {
	return from[g.faker.Number(0, len(from)-1)]
}

// nameAt returns a unique name for the i-th record, suffixing a number once the pool runs out.
func nameAt(pool []string, i int) string {
	if i < len(pool) {
		return pool[i]
	}
	return fmt.Sprintf("%s %d", pool[i%len(pool)], i/len(pool)+1)
}

// GenerateMaps creates count maps with one floor each.
func (g *TestDataGenerator) GenerateMaps(count int) []recordsdomain.Map {
	maps := make([]recordsdomain.Map, count)
	for i := range maps {
		rooms := make([]string, g.faker.Number(1, 4))
		for j := range rooms {
			rooms[j] = nameAt(roomNames, j)
		}
		floors := recordsdomain.FloorsFromRooms(rooms)
		maps[i] = recordsdomain.Map{
			ID:     i + 1,
			Name:   nameAt(mapNames, i),
			Size:   pick(g, sizes),
			Floors: floors,
			Rooms:  recordsdomain.FlattenRooms(floors),
		}
	}
	return maps
}

// GenerateEvidence creates count evidence types.
func (g *TestDataGenerator) GenerateEvidence(count int) []recordsdomain.Evidence {
	out := make([]recordsdomain.Evidence, count)
	for i := range out {
		out[i] = recordsdomain.Evidence{ID: i + 1, Name: nameAt(evidenceNames, i), Sequence: i}
	}
	return out
}

// GenerateGhosts creates count ghosts, each leaving up to three of the given evidence.
func (g *TestDataGenerator) GenerateGhosts(count int, evidence []recordsdomain.Evidence) []recordsdomain.Ghost {
	out := make([]recordsdomain.Ghost, count)
	for i := range out {
		out[i] = recordsdomain.Ghost{ID: i + 1, Name: nameAt(ghostNames, i), EvidenceIDs: g.evidenceIDs(evidence, recordsdomain.MaxGhostEvidence)}
	}
	return out
}

// GenerateCursedPossessions creates count cursed possessions.
func (g *TestDataGenerator) GenerateCursedPossessions(count int) []recordsdomain.CursedPossession {
	out := make([]recordsdomain.CursedPossession, count)
	for i := range out {
		out[i] = recordsdomain.CursedPossession{ID: i + 1, Name: nameAt(itemNames, i), Sequence: i}
	}
	return out
}

// GeneratePlayers creates count players with distinct first names.
func (g *TestDataGenerator) GeneratePlayers(count int) []recordsdomain.Player {
	out := make([]recordsdomain.Player, 0, count)
	seen := make(map[string]bool)
	for len(out) < count {
		name := g.faker.FirstName()
		if seen[name] {
			name = fmt.Sprintf("%s %d", name, len(out)+1)
		}
		seen[name] = true
		out = append(out, recordsdomain.Player{ID: len(out) + 1, Name: name})
	}
	return out
}

// GenerateSnapshot creates a populated snapshot whose runs only reference records it contains.
func (g *TestDataGenerator) GenerateSnapshot(runs int) *recordsdomain.Snapshot {
	snap := recordsdomain.NewSnapshot()
	snap.Maps = g.GenerateMaps(4)
	snap.Evidence = g.GenerateEvidence(7)
	snap.Ghosts = g.GenerateGhosts(8, snap.Evidence)
	snap.CursedPossessions = g.GenerateCursedPossessions(3)
	snap.Players = g.GeneratePlayers(5)
	snap.Runs = g.GenerateRuns(runs, snap)
	return snap
}

// GenerateRuns creates count runs against the reference data in snap, numbered per day
// and roster size.
func (g *TestDataGenerator) GenerateRuns(count int, snap *recordsdomain.Snapshot) []recordsdomain.Run {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	numbers := make(map[string]int)

	runs := make([]recordsdomain.Run, count)
	for i := range runs {
		r := recordsdomain.Run{
			ID:          i + 1,
			Timestamp:   g.faker.DateRange(start, end).UTC().Truncate(time.Minute),
			MapID:       pick(g, snap.Maps).ID,
			GhostID:     pick(g, snap.Ghosts).ID,
			EvidenceIDs: g.evidenceIDs(snap.Evidence, recordsdomain.MaxGhostEvidence),
			Players:     g.roster(snap.Players),
		}
		if g.faker.Bool() {
			id := pick(g, snap.CursedPossessions).ID
			r.CursedPossessionID = &id
		}
		if g.faker.Number(0, 3) == 0 {
			actual := pick(g, snap.Ghosts).ID
			r.ActualGhostID = &actual
		}
		secs := g.faker.Number(60, 1800)
		r.RunTimeSeconds = &secs

		key := fmt.Sprintf("%s/%d", r.Date(), r.PlayerCount())
		numbers[key]++
		r.RunNumber = numbers[key]
		runs[i] = r
	}
	return runs
}

func (g *TestDataGenerator) roster(players []recordsdomain.Player) recordsdomain.RunPlayers {
	n := g.faker.Number(1, len(players))
	perm := make([]int, len(players))
	for i := range perm {
		perm[i] = i
	}
	g.faker.ShuffleInts(perm)

	out := make(recordsdomain.RunPlayers, 0, n)
	for _, idx := range perm[:n] {
		status := recordsdomain.StatusAlive
		if g.faker.Number(0, 2) == 0 {
			status = recordsdomain.StatusDead
		}
		out = append(out, recordsdomain.RunPlayer{ID: uuid.NewString(), Name: players[idx].Name, Status: status})
	}
	return out
}

func (g *TestDataGenerator) evidenceIDs(evidence []recordsdomain.Evidence, max int) []int {
	if len(evidence) == 0 {
		return []int{}
	}
	n := g.faker.Number(0, min(max, len(evidence)))
	perm := make([]int, len(evidence))
	for i := range perm {
		perm[i] = evidence[i].ID
	}
	g.faker.ShuffleInts(perm)
	return append([]int{}, perm[:n]...)
}
