package recordsservice

import (
	"context"
	"strings"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/agnivade/levenshtein"
)

// NamedID pairs a record id with its name.
type NamedID struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Names lists the id and name of every record of kind.
func (s *Service) Names(ctx context.Context, kind Kind) ([]NamedID, error) {
	var out []NamedID
	err := s.withTelemetry(ctx, string(kind)+".Names", func(ctx context.Context) error {
		snap, err := s.load(ctx)
		if err != nil {
			return err
		}
		out = namesOf(snap, kind)
		return nil
	})
	return out, err
}

// ResolveID finds the record of kind whose name matches name, ignoring case and
// surrounding space. A miss fails with ErrNotFound and suggests the closest name.
func (s *Service) ResolveID(ctx context.Context, kind Kind, name string) (int, error) {
	names, err := s.Names(ctx, kind)
	if err != nil {
		return 0, err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, n := range names {
		if strings.ToLower(strings.TrimSpace(n.Name)) == want {
			return n.ID, nil
		}
	}
	if suggestion, ok := closestName(want, names); ok {
		return 0, recordsdomain.NewError(recordsdomain.ErrNotFound, kind.Label(),
			"no %s named %q (did you mean %q?)", kind.Label(), name, suggestion)
	}
	return 0, recordsdomain.NewError(recordsdomain.ErrNotFound, kind.Label(), "no %s named %q", kind.Label(), name)
}

// closestName returns the name within edit distance of want, preferring the smallest
// distance. Short inputs only match near-exact names.
func closestName(want string, names []NamedID) (string, bool) {
	if want == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, n := range names {
		candidate := strings.ToLower(strings.TrimSpace(n.Name))
		dist := levenshtein.ComputeDistance(want, candidate)
		if dist > suggestLimit(len(candidate)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = n.Name, dist
		}
	}
	return best, bestDist >= 0
}

func suggestLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

func namesOf(snap *recordsdomain.Snapshot, kind Kind) []NamedID {
	switch kind {
	case KindMaps:
		return collectNames(snap.Maps)
	case KindGhosts:
		return collectNames(snap.Ghosts)
	case KindEvidence:
		return collectNames(snap.Evidence)
	case KindCursedPossessions:
		return collectNames(snap.CursedPossessions)
	case KindGameModes:
		return collectNames(snap.GameModes)
	case KindPlayers:
		return collectNames(snap.Players)
	case KindMapCollections:
		return collectNames(snap.MapCollections)
	case KindChallengeModes:
		return collectNames(snap.ChallengeModes)
	}
	return nil
}

func collectNames[T any, P recordsdomain.Record[T]](items []T) []NamedID {
	out := make([]NamedID, 0, len(items))
	for i := range items {
		rec := P(&items[i])
		out = append(out, NamedID{ID: rec.EntityID(), Name: rec.EntityName()})
	}
	return out
}
