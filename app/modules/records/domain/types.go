package recordsdomain

import "time"

// MapSize is the size class of a map.
type MapSize string

const (
	MapSizeSmall  MapSize = "small"
	MapSizeMedium MapSize = "medium"
	MapSizeLarge  MapSize = "large"
)

// Valid reports whether s is one of the known sizes.
func (s MapSize) Valid() bool {
	switch s {
	case MapSizeSmall, MapSizeMedium, MapSizeLarge:
		return true
	}
	return false
}

// PlayerStatus is the end-of-run state of a player.
type PlayerStatus string

const (
	StatusAlive PlayerStatus = "alive"
	StatusDead  PlayerStatus = "dead"
)

// MaxDefaultPlayers caps how many players may be pre-selected for new runs.
const MaxDefaultPlayers = 4

// MaxGhostEvidence is the number of evidence types a ghost can leave.
const MaxGhostEvidence = 3

// Map is a playable location.
type Map struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Size       MapSize `json:"size"`
	IsArchived bool    `json:"isArchived"`
	Floors     []Floor `json:"floors"`
	// Rooms is the flattened room list kept for older consumers. It is derived from Floors.
	Rooms []string `json:"rooms"`
}

// Floor groups rooms of a map.
type Floor struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
	Rooms []Room `json:"rooms"`
}

// Room is a named room on a floor.
type Room struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Ghost is a ghost type and the evidence it leaves.
type Ghost struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	EvidenceIDs []int  `json:"evidenceIds"`
	// MapID is a leftover from when ghosts were configured per map.
	MapID *int `json:"mapId,omitempty"`
}

// Evidence is a kind of evidence a ghost can leave.
type Evidence struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// CursedPossession is an optional cursed item present during a run.
type CursedPossession struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// GameMode is a difficulty setting.
type GameMode struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MaxEvidence int    `json:"maxEvidence"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// Player is a person who takes part in runs.
type Player struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsActive  *bool  `json:"isActive,omitempty"`
	IsDefault bool   `json:"isDefault"`
}

// MapCollection is a named group of maps selected together, e.g. the wings of a prison.
type MapCollection struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	MapIDs         []int   `json:"mapIds"`
	Size           MapSize `json:"size"`
	SelectionLabel string  `json:"selectionLabel"`
	IsActive       *bool   `json:"isActive,omitempty"`
}

// ChallengeMode is a weekly challenge bound to one map or map collection.
type ChallengeMode struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	MapID           *int   `json:"mapId,omitempty"`
	MapCollectionID *int   `json:"mapCollectionId,omitempty"`
	IsArchived      bool   `json:"isArchived"`
}

// RunPlayer is a player's participation in a run.
type RunPlayer struct {
	ID     string       `json:"id,omitempty"`
	Name   string       `json:"name"`
	Status PlayerStatus `json:"status"`
}

// Run is one logged play session. Only the stored fields live here; see RunView for
// the derived ones.
type Run struct {
	ID                 int         `json:"id"`
	RunNumber          int         `json:"runNumber"`
	Timestamp          time.Time   `json:"timestamp"`
	MapID              int         `json:"mapId"`
	RoomID             int         `json:"roomId,omitempty"`
	RoomName           string      `json:"roomName,omitempty"`
	CursedPossessionID *int        `json:"cursedPossessionId"`
	EvidenceIDs        []int       `json:"evidenceIds"`
	GameModeID         int         `json:"gameModeId,omitempty"`
	ChallengeModeID    *int        `json:"challengeModeId"`
	GhostID            int         `json:"ghostId"`
	ActualGhostID      *int        `json:"actualGhostId"`
	Players            RunPlayers  `json:"players"`
	IsPerfectGame      bool        `json:"isPerfectGame"`
	RunTimeSeconds     *int        `json:"runTimeSeconds"`
	LegacyStatuses     PlayerState `json:"playerStatuses,omitempty"`
}

// PlayerState is the legacy name->status map that accompanied string player lists.
type PlayerState map[string]PlayerStatus
