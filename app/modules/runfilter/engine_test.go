package runfilter

import (
	"strconv"
	"testing"
	"time"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/Black-And-White-Club/ghost-log/internal/testutils"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func at(day, hour int) time.Time {
	return time.Date(2026, 10, day, hour, 0, 0, 0, time.UTC)
}

func players(pairs ...string) recordsdomain.RunPlayers {
	out := recordsdomain.RunPlayers{}
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, recordsdomain.RunPlayer{Name: pairs[i], Status: recordsdomain.PlayerStatus(pairs[i+1])})
	}
	return out
}

// fixture has four runs over two days. Run 4 points at a map that no longer exists and
// has no players.
func fixture() *recordsdomain.Snapshot {
	snap := recordsdomain.NewSnapshot()
	snap.Maps = []recordsdomain.Map{{ID: 1, Name: "Tanglewood"}, {ID: 2, Name: "Edgefield"}}
	snap.Ghosts = []recordsdomain.Ghost{{ID: 1, Name: "Spirit"}, {ID: 2, Name: "Wraith"}}
	snap.CursedPossessions = []recordsdomain.CursedPossession{{ID: 1, Name: "Ouija Board"}}
	snap.Runs = []recordsdomain.Run{
		{ID: 1, RunNumber: 1, Timestamp: at(18, 20), MapID: 1, GhostID: 1, Players: players("Alice", "dead", "Bob", "alive")},
		{ID: 2, RunNumber: 1, Timestamp: at(19, 18), MapID: 1, GhostID: 2, Players: players("Alice", "alive"), CursedPossessionID: intPtr(1)},
		{ID: 3, RunNumber: 2, Timestamp: at(19, 19), MapID: 2, GhostID: 1, Players: players("Alice", "alive", "Bob", "dead")},
		{ID: 4, RunNumber: 1, Timestamp: at(19, 21), MapID: 9, GhostID: 1},
	}
	return snap
}

func runIDs(res Result) []int {
	ids := make([]int, 0, len(res.Runs))
	for _, r := range res.Runs {
		ids = append(ids, r.ID)
	}
	return ids
}

func facet(t *testing.T, res Result, f Field) Facet {
	t.Helper()
	got, ok := res.Facet(f)
	require.True(t, ok, "facet %s missing", f)
	return got
}

func TestApply_NoCriteria(t *testing.T) {
	res := Apply(fixture(), NewCriteria())

	assert.Equal(t, []int{3, 2, 4, 1}, runIDs(res), "date desc, then run number desc")
	assert.Equal(t, 4, res.Total)
	assert.Len(t, res.Facets, len(Fields))

	want := []Option{
		{Value: All, Label: LabelAll, Count: 4},
		{Value: "2026-10-19", Label: "2026-10-19", Count: 3},
		{Value: "2026-10-18", Label: "2026-10-18", Count: 1},
	}
	if diff := cmp.Diff(want, facet(t, res, FieldDate).Options); diff != "" {
		t.Errorf("date options (-want +got):\n%s", diff)
	}
}

func TestApply_SingleFieldFilters(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
		want  []int
	}{
		{"date", FieldDate, "2026-10-18", []int{1}},
		{"player", FieldPlayer, "Bob", []int{3, 1}},
		{"map", FieldMap, "1", []int{2, 1}},
		{"dangling map", FieldMap, "9", []int{4}},
		{"ghost", FieldGhost, "2", []int{2}},
		{"no possession", FieldCursedPossession, None, []int{3, 4, 1}},
		{"possession", FieldCursedPossession, "1", []int{2}},
		{"nobody died", FieldDeaths, None, []int{2, 4}},
		{"anyone died", FieldDeaths, Any, []int{3, 1}},
		{"named death", FieldDeaths, "Alice", []int{1}},
		{"all is no constraint", FieldMap, "ALL", []int{3, 2, 4, 1}},
		{"blank is no constraint", FieldGhost, " ", []int{3, 2, 4, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(fixture(), NewCriteria().With(tt.field, tt.value))
			assert.Equal(t, tt.want, runIDs(res))
		})
	}
}

func TestApply_FacetExcludesOwnField(t *testing.T) {
	res := Apply(fixture(), NewCriteria().With(FieldMap, "1"))
	require.Equal(t, []int{2, 1}, runIDs(res))

	maps := facet(t, res, FieldMap)
	assert.Equal(t, "1", maps.Selected)
	want := []Option{
		{Value: All, Label: LabelAll, Count: 4},
		{Value: "2", Label: "Edgefield", Count: 1},
		{Value: "1", Label: "Tanglewood", Count: 2},
		{Value: "9", Label: recordsdomain.UnknownMap, Count: 1},
	}
	if diff := cmp.Diff(want, maps.Options); diff != "" {
		t.Errorf("map options (-want +got):\n%s", diff)
	}

	ghosts := facet(t, res, FieldGhost)
	want = []Option{
		{Value: All, Label: LabelAll, Count: 2},
		{Value: "1", Label: "Spirit", Count: 1},
		{Value: "2", Label: "Wraith", Count: 1},
	}
	if diff := cmp.Diff(want, ghosts.Options); diff != "" {
		t.Errorf("ghost options (-want +got):\n%s", diff)
	}
}

func TestApply_SentinelOptions(t *testing.T) {
	res := Apply(fixture(), NewCriteria())

	want := []Option{
		{Value: All, Label: LabelAll, Count: 4},
		{Value: None, Label: LabelNoDeaths, Count: 2},
		{Value: Any, Label: LabelAnyDeath, Count: 2},
		{Value: "Alice", Label: "Alice", Count: 1},
		{Value: "Bob", Label: "Bob", Count: 1},
	}
	if diff := cmp.Diff(want, facet(t, res, FieldDeaths).Options); diff != "" {
		t.Errorf("deaths options (-want +got):\n%s", diff)
	}

	want = []Option{
		{Value: All, Label: LabelAll, Count: 4},
		{Value: None, Label: LabelNoPossesion, Count: 3},
		{Value: "1", Label: "Ouija Board", Count: 1},
	}
	if diff := cmp.Diff(want, facet(t, res, FieldCursedPossession).Options); diff != "" {
		t.Errorf("possession options (-want +got):\n%s", diff)
	}

	want = []Option{
		{Value: All, Label: LabelAll, Count: 4},
		{Value: "Alice", Label: "Alice", Count: 3},
		{Value: "Bob", Label: "Bob", Count: 2},
	}
	if diff := cmp.Diff(want, facet(t, res, FieldPlayer).Options); diff != "" {
		t.Errorf("player options (-want +got):\n%s", diff)
	}
}

func TestApply_SelectedValueWithNoMatchesStaysListed(t *testing.T) {
	c := NewCriteria().With(FieldMap, "2").With(FieldGhost, "2")
	res := Apply(fixture(), c)
	assert.Empty(t, runIDs(res))
	assert.NotNil(t, res.Runs)

	ghosts := facet(t, res, FieldGhost)
	assert.Equal(t, []Option{
		{Value: All, Label: LabelAll, Count: 1},
		{Value: "1", Label: "Spirit", Count: 1},
		{Value: "2", Label: "Wraith", Count: 0},
	}, ghosts.Options)
}

func TestApply_ExactRoster(t *testing.T) {
	tests := []struct {
		name   string
		roster []string
		want   []int
	}{
		{"order does not matter", []string{"Bob", "Alice"}, []int{3, 1}},
		{"subset does not match", []string{"Alice"}, []int{2}},
		{"unknown player", []string{"Carol"}, []int{}},
		{"blank names are ignored", []string{" ", ""}, []int{3, 2, 4, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCriteria()
			c.ExactRoster = tt.roster
			res := Apply(fixture(), c)
			assert.Equal(t, tt.want, runIDs(res))
			assert.Equal(t, len(tt.want), facet(t, res, FieldMap).Options[0].Count, "facets honour the roster")
		})
	}
}

func TestCriteriaActive(t *testing.T) {
	assert.False(t, NewCriteria().Active())
	assert.False(t, NewCriteria().With(FieldDate, All).Active())
	assert.True(t, NewCriteria().With(FieldDate, "2026-10-19").Active())
	assert.True(t, Criteria{ExactRoster: []string{"Alice"}}.Active())
}

func TestParseField(t *testing.T) {
	f, err := ParseField(" CursedPossession ")
	require.NoError(t, err)
	assert.Equal(t, FieldCursedPossession, f)

	_, err = ParseField("room")
	assert.Error(t, err)
}

func TestRosterCandidates(t *testing.T) {
	runs := fixture().Runs
	runs = append(runs, recordsdomain.Run{Players: players("alfred", "alive", "Alice", "alive")})
	assert.Equal(t, []string{"alfred", "Alice", "Bob"}, RosterCandidates(runs))
	assert.Equal(t, []string{}, RosterCandidates(nil))
}

func TestFilter_BasicRunScenario(t *testing.T) {
	snap := recordsdomain.NewSnapshot()
	snap.Maps = []recordsdomain.Map{{ID: 1, Name: "Tanglewood", Size: recordsdomain.MapSizeSmall}}
	snap.Ghosts = []recordsdomain.Ghost{{ID: 1, Name: "Spirit", EvidenceIDs: []int{1, 2}}, {ID: 2, Name: "Wraith"}}
	snap.Runs = []recordsdomain.Run{{
		ID: 1, RunNumber: 1, Timestamp: at(19, 20), MapID: 1, RoomName: "Kitchen",
		GhostID: 1, ActualGhostID: intPtr(1), EvidenceIDs: []int{1, 2},
		Players: players("Alice", "alive"),
	}}

	got := Filter(snap.Runs, NewCriteria().With(FieldMap, strconv.Itoa(1)))
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)

	assert.Empty(t, Filter(snap.Runs, NewCriteria().With(FieldGhost, "2")))
}

// Every option count must equal the size of the result of selecting that option, and
// selecting a value must not change its own field's option list.
func TestApply_FacetCountsMatchSelections(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 2026} {
		gen := testutils.NewTestDataGenerator(seed)
		snap := gen.GenerateSnapshot(60)

		for _, f := range Fields {
			base := NewCriteria().With(FieldPlayer, snap.Players[0].Name)
			if f == FieldPlayer {
				base = NewCriteria().With(FieldDeaths, Any)
			}
			unselected := facet(t, Apply(snap, base), f)

			for _, opt := range unselected.Options[1:] {
				res := Apply(snap, base.With(f, opt.Value))
				assert.Equal(t, opt.Count, res.Total, "seed %d: %s=%s", seed, f, opt.Value)

				selected := facet(t, res, f)
				assert.Equal(t, opt.Value, selected.Selected)
				if diff := cmp.Diff(unselected.Options, selected.Options); diff != "" {
					t.Errorf("seed %d: selecting %s=%s changed its own options (-before +after):\n%s", seed, f, opt.Value, diff)
				}
			}
		}
	}
}
