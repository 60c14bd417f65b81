package recordsservice

import (
	"context"
	"fmt"
	"strings"
)

// EventPublisher publishes change events once they are persisted.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Kind names a reference collection. The values double as HTTP path segments.
type Kind string

const (
	KindMaps              Kind = "maps"
	KindGhosts            Kind = "ghosts"
	KindEvidence          Kind = "evidence"
	KindCursedPossessions Kind = "cursed-possessions"
	KindGameModes         Kind = "game-modes"
	KindPlayers           Kind = "players"
	KindMapCollections    Kind = "map-collections"
	KindChallengeModes    Kind = "challenge-modes"
)

// Kinds lists every reference collection.
func Kinds() []Kind {
	return []Kind{
		KindMaps, KindGhosts, KindEvidence, KindCursedPossessions,
		KindGameModes, KindPlayers, KindMapCollections, KindChallengeModes,
	}
}

// ParseKind accepts a collection name, ignoring case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown record kind %q", s)
}

// Label is the singular entity name used in messages.
func (k Kind) Label() string {
	switch k {
	case KindMaps:
		return "map"
	case KindGhosts:
		return "ghost"
	case KindEvidence:
		return "evidence"
	case KindCursedPossessions:
		return "cursed possession"
	case KindGameModes:
		return "game mode"
	case KindPlayers:
		return "player"
	case KindMapCollections:
		return "map collection"
	case KindChallengeModes:
		return "challenge mode"
	}
	return string(k)
}
