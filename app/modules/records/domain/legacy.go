package recordsdomain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// DefaultFloorName names the floor synthesized for maps stored with a flat room list.
const DefaultFloorName = "Main Floor"

// RunPlayers is the roster of a run. It decodes both the current object form and the
// legacy form, a plain list of names.
type RunPlayers []RunPlayer

// UnmarshalJSON implements json.Unmarshaler.
func (p *RunPlayers) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*p = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("players: %w", err)
	}

	out := make(RunPlayers, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var name string
			if err := json.Unmarshal(item, &name); err != nil {
				return fmt.Errorf("players[%d]: %w", i, err)
			}
			// Legacy entries carry no id or status; MigrateLegacy fills them in.
			out = append(out, RunPlayer{Name: name})
			continue
		}
		var rp RunPlayer
		if err := json.Unmarshal(item, &rp); err != nil {
			return fmt.Errorf("players[%d]: %w", i, err)
		}
		out = append(out, rp)
	}
	*p = out
	return nil
}

// MigrateLegacy upgrades shapes written by older versions in place:
//   - run players stored as bare names become {id, name, status}, taking the status
//     from the legacy playerStatuses map when present;
//   - maps with a flat room list and no floors get a single default floor.
//
// It reports whether anything changed.
func MigrateLegacy(s *Snapshot) bool {
	changed := false

	for i := range s.Runs {
		run := &s.Runs[i]
		for j := range run.Players {
			rp := &run.Players[j]
			if rp.Status == "" {
				rp.Status = StatusAlive
				if st, ok := run.LegacyStatuses[rp.Name]; ok && st != "" {
					rp.Status = st
				}
				changed = true
			}
			if rp.ID == "" {
				rp.ID = uuid.NewString()
				changed = true
			}
		}
		if run.LegacyStatuses != nil {
			run.LegacyStatuses = nil
			changed = true
		}
	}

	for i := range s.Maps {
		m := &s.Maps[i]
		if len(m.Floors) > 0 || len(m.Rooms) == 0 {
			continue
		}
		m.Floors = FloorsFromRooms(m.Rooms)
		m.Rooms = FlattenRooms(m.Floors)
		changed = true
	}

	return changed
}

// FlattenRooms lists room names by ascending floor order, keeping each floor's room order.
func FlattenRooms(floors []Floor) []string {
	ordered := make([]Floor, len(floors))
	copy(ordered, floors)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	rooms := []string{}
	for _, f := range ordered {
		for _, r := range f.Rooms {
			rooms = append(rooms, r.Name)
		}
	}
	return rooms
}
