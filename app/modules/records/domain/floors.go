package recordsdomain

import "strings"

// NormalizeFloors prepares a submitted floor list for storage. Floors keep their id when
// it is positive and unused, otherwise they get the next free one; the same goes for rooms
// within a floor. Room names are trimmed and blank rooms dropped.
func NormalizeFloors(floors []Floor) []Floor {
	out := make([]Floor, 0, len(floors))
	usedFloors := make(map[int]bool, len(floors))
	for _, f := range floors {
		if f.ID > 0 && !usedFloors[f.ID] {
			usedFloors[f.ID] = true
		}
	}

	nextFloor := 1
	seenFloors := make(map[int]bool, len(floors))
	for _, f := range floors {
		nf := Floor{ID: f.ID, Name: strings.TrimSpace(f.Name), Order: f.Order}
		if nf.ID <= 0 || seenFloors[nf.ID] {
			for usedFloors[nextFloor] {
				nextFloor++
			}
			nf.ID = nextFloor
			usedFloors[nextFloor] = true
		}
		seenFloors[nf.ID] = true
		nf.Rooms = normalizeRooms(f.Rooms)
		out = append(out, nf)
	}
	return out
}

func normalizeRooms(rooms []Room) []Room {
	used := make(map[int]bool, len(rooms))
	for _, r := range rooms {
		if r.ID > 0 && strings.TrimSpace(r.Name) != "" {
			used[r.ID] = true
		}
	}

	out := make([]Room, 0, len(rooms))
	seen := make(map[int]bool, len(rooms))
	next := 1
	for _, r := range rooms {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		id := r.ID
		if id <= 0 || seen[id] {
			for used[next] {
				next++
			}
			id = next
			used[next] = true
		}
		seen[id] = true
		out = append(out, Room{ID: id, Name: name})
	}
	return out
}

// FloorsFromRooms builds the single default floor used when only a flat room list is known.
func FloorsFromRooms(rooms []string) []Floor {
	floor := Floor{ID: 1, Name: DefaultFloorName, Order: 0, Rooms: []Room{}}
	for _, name := range rooms {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		floor.Rooms = append(floor.Rooms, Room{ID: len(floor.Rooms) + 1, Name: name})
	}
	return []Floor{floor}
}
