package recordsservice

import (
	"context"
	"testing"
	"time"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRun_Scenario(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()
	seedScenario(t, svc)

	view, err := svc.CreateRun(ctx, recordsdomain.Run{
		MapID:         1,
		RoomID:        1,
		RoomName:      " Kitchen ",
		GhostID:       1,
		ActualGhostID: intPtr(1),
		GameModeID:    1,
		Players:       recordsdomain.RunPlayers{{Name: "Alice", Status: recordsdomain.StatusAlive}},
		EvidenceIDs:   []int{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, view.ID)
	assert.Equal(t, 1, view.RunNumber)
	assert.Equal(t, testNow, view.Timestamp)
	assert.Equal(t, "2026-10-19", view.Date)
	assert.Equal(t, 1, view.PlayerCount)
	assert.True(t, view.WasCorrect)
	assert.Equal(t, "Kitchen", view.RoomName)
	assert.Equal(t, "Tanglewood", view.MapName)
	assert.Equal(t, "Spirit", view.GhostName)
	assert.Equal(t, "Amateur", view.GameModeName)
	assert.Equal(t, []string{"EMF", "Orb"}, view.EvidenceNames)
	require.Len(t, view.Players, 1)
	assert.NotEmpty(t, view.Players[0].ID)
	assert.Equal(t, []string{recordsdomain.TopicRunCreated}, pub.Topics()[len(pub.Topics())-1:])
}

func TestCreateRun_Numbering(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedScenario(t, svc)

	duo := recordsdomain.RunPlayers{{Name: "Alice"}, {Name: "Bob"}}
	solo := recordsdomain.RunPlayers{{Name: "Alice"}}
	yesterday := testNow.Add(-24 * time.Hour)

	steps := []struct {
		run  recordsdomain.Run
		want int
	}{
		{recordsdomain.Run{MapID: 1, Players: duo}, 1},
		{recordsdomain.Run{MapID: 1, Players: duo}, 2},
		{recordsdomain.Run{MapID: 1, Players: solo}, 1},
		// backdated runs are numbered within their own date
		{recordsdomain.Run{MapID: 1, Players: duo, Timestamp: yesterday}, 1},
		{recordsdomain.Run{MapID: 1, Players: duo}, 3},
		{recordsdomain.Run{MapID: 1, Players: solo}, 2},
		// blank names are dropped before counting
		{recordsdomain.Run{MapID: 1, Players: recordsdomain.RunPlayers{{Name: "Alice"}, {Name: " "}}}, 3},
	}

	for i, step := range steps {
		view, err := svc.CreateRun(ctx, step.run)
		require.NoError(t, err)
		assert.Equal(t, step.want, view.RunNumber, "step %d", i)
		assert.Equal(t, i+1, view.ID)
	}
}

func TestCreateRun_Validation(t *testing.T) {
	tests := []struct {
		name    string
		run     recordsdomain.Run
		setup   func(ctx context.Context, svc *Service)
		wantErr error
	}{
		{name: "unknown map", run: recordsdomain.Run{MapID: 9}, wantErr: recordsdomain.ErrInvalidReference},
		{
			name: "archived map",
			run:  recordsdomain.Run{MapID: 1},
			setup: func(ctx context.Context, svc *Service) {
				_, err := svc.Maps.ToggleArchived(ctx, 1)
				require.NoError(t, err)
			},
			wantErr: recordsdomain.ErrInvalidConfiguration,
		},
		{name: "unknown ghost", run: recordsdomain.Run{MapID: 1, GhostID: 4}, wantErr: recordsdomain.ErrInvalidReference},
		{
			name:    "unknown actual ghost",
			run:     recordsdomain.Run{MapID: 1, GhostID: 1, ActualGhostID: intPtr(4)},
			wantErr: recordsdomain.ErrInvalidReference,
		},
		{name: "unknown game mode", run: recordsdomain.Run{MapID: 1, GameModeID: 3}, wantErr: recordsdomain.ErrInvalidReference},
		{name: "unknown evidence", run: recordsdomain.Run{MapID: 1, EvidenceIDs: []int{8}}, wantErr: recordsdomain.ErrInvalidReference},
		{
			name: "more evidence than the mode allows",
			run:  recordsdomain.Run{MapID: 1, GameModeID: 2, EvidenceIDs: []int{1, 2}},
			setup: func(ctx context.Context, svc *Service) {
				_, err := svc.GameModes.Create(ctx, recordsdomain.GameMode{Name: "Nightmare", MaxEvidence: 1})
				require.NoError(t, err)
			},
			wantErr: recordsdomain.ErrInvalidConfiguration,
		},
		{
			name:    "unknown cursed possession",
			run:     recordsdomain.Run{MapID: 1, CursedPossessionID: intPtr(2)},
			wantErr: recordsdomain.ErrInvalidReference,
		},
		{
			name:    "unknown challenge",
			run:     recordsdomain.Run{MapID: 1, ChallengeModeID: intPtr(2)},
			wantErr: recordsdomain.ErrInvalidReference,
		},
		{
			name:    "unknown player status",
			run:     recordsdomain.Run{MapID: 1, Players: recordsdomain.RunPlayers{{Name: "Alice", Status: "undead"}}},
			wantErr: recordsdomain.ErrInvalidConfiguration,
		},
		{
			name:    "negative run time",
			run:     recordsdomain.Run{MapID: 1, RunTimeSeconds: intPtr(-5)},
			wantErr: recordsdomain.ErrInvalidConfiguration,
		},
		{name: "no ghost yet", run: recordsdomain.Run{MapID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()
			seedScenario(t, svc)
			if tt.setup != nil {
				tt.setup(ctx, svc)
			}

			_, err := svc.CreateRun(ctx, tt.run)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				runs, listErr := svc.ListRuns(ctx)
				require.NoError(t, listErr)
				assert.Empty(t, runs, "a rejected run is not stored")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateRun_ActualGhostDefaultsToGuess(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedScenario(t, svc)

	view, err := svc.CreateRun(ctx, recordsdomain.Run{MapID: 1, GhostID: 1})
	require.NoError(t, err)
	require.NotNil(t, view.ActualGhostID)
	assert.Equal(t, 1, *view.ActualGhostID)
	assert.True(t, view.WasCorrect)
}

func TestUpdateRun(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedScenario(t, svc)

	created, err := svc.CreateRun(ctx, recordsdomain.Run{MapID: 1, GhostID: 1})
	require.NoError(t, err)
	_, err = svc.Maps.ToggleArchived(ctx, 1)
	require.NoError(t, err)

	banshee, err := svc.Ghosts.Create(ctx, recordsdomain.Ghost{Name: "Banshee"})
	require.NoError(t, err)

	updated, err := svc.UpdateRun(ctx, created.ID, recordsdomain.Run{
		ID: 50, RunNumber: 9, MapID: 1, GhostID: 1, ActualGhostID: intPtr(banshee.ID),
		RunTimeSeconds: intPtr(3725), IsPerfectGame: true,
	})
	require.NoError(t, err, "a run may keep its archived map")
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 1, updated.RunNumber)
	assert.Equal(t, created.Timestamp, updated.Timestamp)
	assert.False(t, updated.WasCorrect)
	assert.Equal(t, "01:02:05", updated.FormattedRunTime)

	_, err = svc.UpdateRun(ctx, 77, recordsdomain.Run{MapID: 1})
	assert.ErrorIs(t, err, recordsdomain.ErrNotFound)
}

func TestDeleteRun(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedScenario(t, svc)

	first, err := svc.CreateRun(ctx, recordsdomain.Run{MapID: 1})
	require.NoError(t, err)
	second, err := svc.CreateRun(ctx, recordsdomain.Run{MapID: 1})
	require.NoError(t, err)

	removed, err := svc.DeleteRun(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, removed.ID)

	runs, err := svc.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second.ID, runs[0].ID)

	_, err = svc.DeleteRun(ctx, first.ID)
	assert.ErrorIs(t, err, recordsdomain.ErrNotFound)
}
