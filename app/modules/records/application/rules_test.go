package recordsservice

import (
	"context"
	"testing"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaps_NormalizeFloors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Maps.Create(ctx, recordsdomain.Map{
		Name: "Bleasdale Farmhouse",
		Size: recordsdomain.MapSizeSmall,
		Floors: []recordsdomain.Floor{
			{Name: "Upstairs", Order: 1, Rooms: []recordsdomain.Room{{Name: " Nursery "}, {Name: "  "}, {Name: "Attic"}}},
			{ID: 7, Name: "Ground", Rooms: []recordsdomain.Room{{ID: 3, Name: "Kitchen"}, {Name: "Lounge"}}},
		},
	})
	require.NoError(t, err)

	want := []recordsdomain.Floor{
		{ID: 1, Name: "Upstairs", Order: 1, Rooms: []recordsdomain.Room{{ID: 1, Name: "Nursery"}, {ID: 2, Name: "Attic"}}},
		{ID: 7, Name: "Ground", Order: 0, Rooms: []recordsdomain.Room{{ID: 3, Name: "Kitchen"}, {ID: 1, Name: "Lounge"}}},
	}
	if diff := cmp.Diff(want, m.Floors); diff != "" {
		t.Errorf("floors mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Kitchen", "Lounge", "Nursery", "Attic"}, m.Rooms)
}

func TestMaps_FlatRoomsBecomeDefaultFloor(t *testing.T) {
	svc, _ := newTestService(t)
	m, err := svc.Maps.Create(context.Background(), recordsdomain.Map{
		Name:  "Tanglewood",
		Size:  recordsdomain.MapSizeSmall,
		Rooms: []string{"Kitchen", " ", "Nursery"},
	})
	require.NoError(t, err)
	require.Len(t, m.Floors, 1)
	assert.Equal(t, recordsdomain.DefaultFloorName, m.Floors[0].Name)
	assert.Equal(t, []string{"Kitchen", "Nursery"}, m.Rooms)
}

func TestEntityRules(t *testing.T) {
	tests := []struct {
		name    string
		run     func(ctx context.Context, svc *Service) error
		wantErr error
	}{
		{
			name: "map with unknown size",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.Maps.Create(ctx, recordsdomain.Map{Name: "Camp", Size: "huge"})
				return err
			},
			wantErr: recordsdomain.ErrInvalidConfiguration,
		},
		{
			name: "game mode with four evidence",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.GameModes.Create(ctx, recordsdomain.GameMode{Name: "Custom", MaxEvidence: 4})
				return err
			},
			wantErr: recordsdomain.ErrInvalidConfiguration,
		},
		{
			name: "game mode with zero evidence",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.GameModes.Create(ctx, recordsdomain.GameMode{Name: "Insanity", MaxEvidence: 0})
				return err
			},
		},
		{
			name: "ghost with four evidence",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.Ghosts.Create(ctx, recordsdomain.Ghost{Name: "Mimic", EvidenceIDs: []int{1, 2, 3, 4}})
				return err
			},
			wantErr: recordsdomain.ErrInvalidConfiguration,
		},
		{
			name: "ghost with unknown evidence",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.Ghosts.Create(ctx, recordsdomain.Ghost{Name: "Mimic", EvidenceIDs: []int{1, 40}})
				return err
			},
			wantErr: recordsdomain.ErrInvalidReference,
		},
		{
			name: "ghost with repeated evidence",
			run: func(ctx context.Context, svc *Service) error {
				g, err := svc.Ghosts.Create(ctx, recordsdomain.Ghost{Name: "Mimic", EvidenceIDs: []int{1, 1, 2, 2, 3}})
				if err == nil && len(g.EvidenceIDs) != 3 {
					t.Errorf("evidence not deduplicated: %v", g.EvidenceIDs)
				}
				return err
			},
		},
		{
			name: "map collection with no maps",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.MapCollections.Create(ctx, recordsdomain.MapCollection{Name: "Prison"})
				return err
			},
			wantErr: recordsdomain.ErrInvalidConfiguration,
		},
		{
			name: "map collection with unknown map",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.MapCollections.Create(ctx, recordsdomain.MapCollection{Name: "Prison", MapIDs: []int{1, 9}})
				return err
			},
			wantErr: recordsdomain.ErrInvalidReference,
		},
		{
			name: "challenge without target",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.ChallengeModes.Create(ctx, recordsdomain.ChallengeMode{Name: "Lights Out"})
				return err
			},
			wantErr: recordsdomain.ErrInvalidConfiguration,
		},
		{
			name: "challenge with both targets",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.ChallengeModes.Create(ctx, recordsdomain.ChallengeMode{
					Name: "Lights Out", MapID: intPtr(1), MapCollectionID: intPtr(1),
				})
				return err
			},
			wantErr: recordsdomain.ErrInvalidConfiguration,
		},
		{
			name: "challenge with unknown map",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.ChallengeModes.Create(ctx, recordsdomain.ChallengeMode{Name: "Lights Out", MapID: intPtr(5)})
				return err
			},
			wantErr: recordsdomain.ErrInvalidReference,
		},
		{
			name: "challenge with unknown collection",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.ChallengeModes.Create(ctx, recordsdomain.ChallengeMode{Name: "Lights Out", MapCollectionID: intPtr(5)})
				return err
			},
			wantErr: recordsdomain.ErrInvalidReference,
		},
		{
			name: "challenge on a map",
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.ChallengeModes.Create(ctx, recordsdomain.ChallengeMode{
					Name: "Lights Out", MapID: intPtr(1), MapCollectionID: intPtr(0),
				})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()
			_, err := createMap(ctx, svc, "Tanglewood")
			require.NoError(t, err)
			for _, name := range []string{"EMF", "Orb", "Writing"} {
				_, err := svc.Evidence.Create(ctx, recordsdomain.Evidence{Name: name})
				require.NoError(t, err)
			}

			err = tt.run(ctx, svc)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMapCollections_InheritSize(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Maps.Create(ctx, recordsdomain.Map{Name: "Prison West", Size: recordsdomain.MapSizeMedium})
	require.NoError(t, err)
	_, err = svc.Maps.Create(ctx, recordsdomain.Map{Name: "Prison East", Size: recordsdomain.MapSizeLarge})
	require.NoError(t, err)

	c, err := svc.MapCollections.Create(ctx, recordsdomain.MapCollection{
		Name: "Prison", MapIDs: []int{1, 2}, SelectionLabel: " Wing ",
	})
	require.NoError(t, err)
	assert.Equal(t, recordsdomain.MapSizeMedium, c.Size)
	assert.Equal(t, "Wing", c.SelectionLabel)

	c, err = svc.MapCollections.Update(ctx, c.ID, recordsdomain.MapCollection{
		Name: "Prison", MapIDs: []int{2, 1}, Size: recordsdomain.MapSizeSmall,
	})
	require.NoError(t, err)
	assert.Equal(t, recordsdomain.MapSizeSmall, c.Size, "an explicit size wins")
}

func TestPlayers_DefaultCap(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob", "Carol", "Dan"} {
		_, err := svc.Players.Create(ctx, recordsdomain.Player{Name: name, IsDefault: true})
		require.NoError(t, err)
	}

	_, err := svc.Players.Create(ctx, recordsdomain.Player{Name: "Eve", IsDefault: true})
	require.ErrorIs(t, err, recordsdomain.ErrTooManyDefaults)

	eve, err := svc.Players.Create(ctx, recordsdomain.Player{Name: "Eve"})
	require.NoError(t, err)
	_, err = svc.Players.Update(ctx, eve.ID, recordsdomain.Player{Name: "Eve", IsDefault: true})
	require.ErrorIs(t, err, recordsdomain.ErrTooManyDefaults)

	// re-saving an existing default does not count itself
	_, err = svc.Players.Update(ctx, 1, recordsdomain.Player{Name: "Alice", IsDefault: true})
	require.NoError(t, err)

	_, err = svc.Players.Update(ctx, 2, recordsdomain.Player{Name: "Bob"})
	require.NoError(t, err)
	_, err = svc.Players.Update(ctx, eve.ID, recordsdomain.Player{Name: "Eve", IsDefault: true})
	require.NoError(t, err)

	// an inactive player is never default, so it does not count toward the cap
	p, err := svc.Players.Create(ctx, recordsdomain.Player{Name: "Frank", IsDefault: true, IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, p.IsDefault)
}

func TestCascade_DeleteMap(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()
	seedScenario(t, svc)

	other, err := createMap(ctx, svc, "Edgefield")
	require.NoError(t, err)
	_, err = svc.Ghosts.Create(ctx, recordsdomain.Ghost{Name: "Legacy", MapID: intPtr(1)})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateRun(ctx, recordsdomain.Run{MapID: 1, GhostID: 1})
		require.NoError(t, err)
	}
	kept, err := svc.CreateRun(ctx, recordsdomain.Run{MapID: other.ID, GhostID: 1})
	require.NoError(t, err)

	_, err = svc.Maps.Delete(ctx, 1)
	require.NoError(t, err)

	runs, err := svc.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, kept.ID, runs[0].ID)

	ghosts, err := svc.Ghosts.List(ctx)
	require.NoError(t, err)
	require.Len(t, ghosts, 1)
	assert.Equal(t, "Spirit", ghosts[0].Name)

	last := pub.Last()
	assert.Equal(t, recordsdomain.TopicRecordDeleted, last.Topic)
	assert.Equal(t, 4, last.Cascaded)
}

func TestCascade_DeleteGhost(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedScenario(t, svc)

	banshee, err := svc.Ghosts.Create(ctx, recordsdomain.Ghost{Name: "Banshee"})
	require.NoError(t, err)
	_, err = svc.CreateRun(ctx, recordsdomain.Run{MapID: 1, GhostID: 1})
	require.NoError(t, err)
	guessedBanshee, err := svc.CreateRun(ctx, recordsdomain.Run{MapID: 1, GhostID: banshee.ID})
	require.NoError(t, err)
	wasBanshee, err := svc.CreateRun(ctx, recordsdomain.Run{MapID: 1, GhostID: 1, ActualGhostID: intPtr(banshee.ID)})
	require.NoError(t, err)

	_, err = svc.Ghosts.Delete(ctx, banshee.ID)
	require.NoError(t, err)

	_, err = svc.GetRun(ctx, guessedBanshee.ID)
	assert.ErrorIs(t, err, recordsdomain.ErrNotFound)

	// only the guessed ghost cascades; the actual ghost dangles
	view, err := svc.GetRun(ctx, wasBanshee.ID)
	require.NoError(t, err)
	assert.Equal(t, recordsdomain.UnknownGhost, view.ActualGhostName)
}

func TestCascade_DeleteEvidence(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedScenario(t, svc)

	writing, err := svc.Evidence.Create(ctx, recordsdomain.Evidence{Name: "Writing"})
	require.NoError(t, err)
	_, err = svc.Ghosts.Update(ctx, 1, recordsdomain.Ghost{Name: "Spirit", EvidenceIDs: []int{1, 2, writing.ID}})
	require.NoError(t, err)
	run, err := svc.CreateRun(ctx, recordsdomain.Run{MapID: 1, GhostID: 1, GameModeID: 1, EvidenceIDs: []int{writing.ID, 1}})
	require.NoError(t, err)

	_, err = svc.Evidence.Delete(ctx, 1)
	require.NoError(t, err)

	ghost, err := svc.Ghosts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, writing.ID}, ghost.EvidenceIDs)

	got, err := svc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{writing.ID}, got.EvidenceIDs)
}

func TestCascade_NoneForPlayersAndModes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedScenario(t, svc)

	possession, err := svc.CursedPossessions.Create(ctx, recordsdomain.CursedPossession{Name: "Music Box"})
	require.NoError(t, err)
	run, err := svc.CreateRun(ctx, recordsdomain.Run{
		MapID: 1, GhostID: 1, GameModeID: 1, CursedPossessionID: intPtr(possession.ID),
		Players: recordsdomain.RunPlayers{{Name: "Alice"}},
	})
	require.NoError(t, err)

	_, err = svc.GameModes.Delete(ctx, 1)
	require.NoError(t, err)
	_, err = svc.CursedPossessions.Delete(ctx, possession.ID)
	require.NoError(t, err)
	_, err = svc.Players.Delete(ctx, 1)
	require.NoError(t, err)

	view, err := svc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, recordsdomain.UnknownGameMode, view.GameModeName)
	assert.Equal(t, recordsdomain.UnknownCursedPossession, view.CursedPossessionName)
	assert.Equal(t, []string{"Alice"}, view.PlayerNames())
}

// seedScenario creates Tanglewood (map 1), EMF and Orb (evidence 1, 2), Spirit (ghost 1),
// Amateur (game mode 1) and Alice (player 1).
func seedScenario(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	_, err := svc.Maps.Create(ctx, recordsdomain.Map{
		Name: "Tanglewood", Size: recordsdomain.MapSizeSmall, Floors: oneFloor("Kitchen"),
	})
	require.NoError(t, err)
	_, err = svc.Evidence.Create(ctx, recordsdomain.Evidence{Name: "EMF", Sequence: 1})
	require.NoError(t, err)
	_, err = svc.Evidence.Create(ctx, recordsdomain.Evidence{Name: "Orb", Sequence: 2})
	require.NoError(t, err)
	_, err = svc.Ghosts.Create(ctx, recordsdomain.Ghost{Name: "Spirit", EvidenceIDs: []int{1, 2}})
	require.NoError(t, err)
	_, err = svc.GameModes.Create(ctx, recordsdomain.GameMode{Name: "Amateur", MaxEvidence: 3})
	require.NoError(t, err)
	_, err = svc.Players.Create(ctx, recordsdomain.Player{Name: "Alice"})
	require.NoError(t, err)
}
