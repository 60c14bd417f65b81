package recordsdomain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestFormatRunTime(t *testing.T) {
	tests := []struct {
		name    string
		seconds *int
		want    string
	}{
		{"nil", nil, ""},
		{"negative", intPtr(-1), ""},
		{"zero", intPtr(0), "00:00"},
		{"under a minute", intPtr(59), "00:59"},
		{"minutes", intPtr(754), "12:34"},
		{"just under an hour", intPtr(3599), "59:59"},
		{"an hour", intPtr(3600), "01:00:00"},
		{"long hunt", intPtr(37230), "10:20:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRunTime(tt.seconds))
		})
	}
}

func TestRunDerivedFields(t *testing.T) {
	run := Run{
		Timestamp:     time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("CEST", 2*3600)),
		GhostID:       1,
		ActualGhostID: intPtr(2),
		Players: RunPlayers{
			{Name: "Alice", Status: StatusDead},
			{Name: "Bob", Status: StatusAlive},
		},
	}
	assert.Equal(t, "2026-10-19", run.Date(), "date is taken in UTC")
	assert.Equal(t, 2, run.PlayerCount())
	assert.False(t, run.WasCorrect())
	assert.Equal(t, 2, run.ActualGhost())
	assert.Equal(t, []string{"Alice", "Bob"}, run.PlayerNames())
	assert.Equal(t, []string{"Alice"}, run.DeadPlayers())

	run.ActualGhostID = nil
	assert.True(t, run.WasCorrect())
	assert.Equal(t, "", Run{}.Date())
}

func TestDecodeSnapshot_Malformed(t *testing.T) {
	for _, in := range []string{"", "null", "[]", `"text"`, "{", `{"runs": {}}`} {
		_, err := DecodeSnapshot([]byte(in))
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrMalformedFile), in)

		var typed *Error
		require.ErrorAs(t, err, &typed)
		assert.Equal(t, "snapshot", typed.Entity)
	}
}

func TestDecodeSnapshot_LegacyPlayers(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{
		"runs": [
			{"id": 1, "players": ["Alice", "Bob"], "playerStatuses": {"Alice": "dead"}},
			{"id": 2, "players": [{"id": "p-1", "name": "Carol", "status": "dead"}]},
			{"id": 3}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, snap.Runs, 3)

	first := snap.Runs[0]
	require.Len(t, first.Players, 2)
	assert.Equal(t, StatusDead, first.Players[0].Status)
	assert.Equal(t, StatusAlive, first.Players[1].Status)
	assert.NotEmpty(t, first.Players[0].ID)
	assert.NotEqual(t, first.Players[0].ID, first.Players[1].ID)
	assert.Nil(t, first.LegacyStatuses)

	assert.Equal(t, RunPlayers{{ID: "p-1", Name: "Carol", Status: StatusDead}}, snap.Runs[1].Players)
	assert.Empty(t, snap.Runs[2].Players)
}

func TestMigrateLegacy_FlatRooms(t *testing.T) {
	snap := &Snapshot{Maps: []Map{
		{ID: 1, Name: "Tanglewood", Rooms: []string{" Kitchen", "", "Nursery "}},
		{ID: 2, Name: "Edgefield", Floors: []Floor{{ID: 4, Name: "Basement", Rooms: []Room{{ID: 1, Name: "Boiler"}}}}},
		{ID: 3, Name: "Empty"},
	}}
	assert.True(t, MigrateLegacy(snap))

	want := []Floor{{ID: 1, Name: DefaultFloorName, Order: 0, Rooms: []Room{{ID: 1, Name: "Kitchen"}, {ID: 2, Name: "Nursery"}}}}
	if diff := cmp.Diff(want, snap.Maps[0].Floors); diff != "" {
		t.Errorf("floors mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Kitchen", "Nursery"}, snap.Maps[0].Rooms)
	assert.Equal(t, 4, snap.Maps[1].Floors[0].ID, "maps with floors are left alone")
	assert.Empty(t, snap.Maps[2].Floors)

	assert.False(t, MigrateLegacy(snap), "migration is idempotent")
}

func TestNormalizeFloors_RepairsDuplicateIDs(t *testing.T) {
	got := NormalizeFloors([]Floor{
		{ID: 2, Name: " Ground ", Rooms: []Room{{ID: 1, Name: "Hall"}, {ID: 1, Name: "Study"}}},
		{ID: 2, Name: "Upstairs", Order: 1},
	})
	want := []Floor{
		{ID: 2, Name: "Ground", Rooms: []Room{{ID: 1, Name: "Hall"}, {ID: 2, Name: "Study"}}},
		{ID: 1, Name: "Upstairs", Order: 1, Rooms: []Room{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeFloors() mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	active := true
	orig := NewSnapshot()
	orig.Maps = append(orig.Maps, Map{ID: 1, Name: "Tanglewood", Floors: []Floor{{ID: 1, Rooms: []Room{{ID: 1, Name: "Kitchen"}}}}})
	orig.Evidence = append(orig.Evidence, Evidence{ID: 1, Name: "EMF", IsActive: &active})
	orig.Runs = append(orig.Runs, Run{ID: 1, EvidenceIDs: []int{1}, Players: RunPlayers{{Name: "Alice"}}})

	clone := orig.Clone()
	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	clone.Maps[0].Floors[0].Rooms[0].Name = "Changed"
	*clone.Evidence[0].IsActive = false
	clone.Runs[0].EvidenceIDs[0] = 9
	clone.Runs[0].Players[0].Name = "Changed"

	assert.Equal(t, "Kitchen", orig.Maps[0].Floors[0].Rooms[0].Name)
	assert.True(t, *orig.Evidence[0].IsActive)
	assert.Equal(t, 1, orig.Runs[0].EvidenceIDs[0])
	assert.Equal(t, "Alice", orig.Runs[0].Players[0].Name)
}

func TestLookupFallbacks(t *testing.T) {
	snap := NewSnapshot()
	snap.Maps = append(snap.Maps, Map{ID: 1, Name: "Tanglewood"})
	l := NewLookup(snap)

	assert.Equal(t, "Tanglewood", l.MapName(1))
	assert.Equal(t, UnknownMap, l.MapName(2))
	assert.Equal(t, UnknownGhost, l.GhostName(1))
	assert.Equal(t, UnknownEvidence, l.EvidenceName(1))
	assert.Equal(t, UnknownCursedPossession, l.CursedPossessionName(1))
	assert.Equal(t, UnknownGameMode, l.GameModeName(1))
	assert.Equal(t, UnknownChallengeMode, l.ChallengeModeName(1))
}

func TestNextID(t *testing.T) {
	assert.Equal(t, 1, NextID([]Player{}))
	assert.Equal(t, 8, NextID([]Player{{ID: 7}, {ID: 2}}))
	assert.Equal(t, 1, NextRunID(nil))
	assert.Equal(t, 4, NextRunID([]Run{{ID: 3}}))
}

func TestErrorMessages(t *testing.T) {
	err := NewError(ErrDuplicateName, "player", "a player named %q already exists", "Alice")
	assert.Equal(t, `player: a player named "Alice" already exists`, err.Error())
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.NotErrorIs(t, err, ErrNotFound)
}
