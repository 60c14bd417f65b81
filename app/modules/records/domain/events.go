package recordsdomain

import "time"

// Topics published after a change has been persisted.
const (
	TopicRecordCreated    = "records.created.v1"
	TopicRecordUpdated    = "records.updated.v1"
	TopicRecordDeleted    = "records.deleted.v1"
	TopicRunCreated       = "runs.created.v1"
	TopicRunUpdated       = "runs.updated.v1"
	TopicRunDeleted       = "runs.deleted.v1"
	TopicRunsCleared      = "runs.cleared.v1"
	TopicSnapshotImported = "snapshot.imported.v1"
	TopicSnapshotCleared  = "snapshot.cleared.v1"
)

// ChangeTopics lists every topic, in a stable order, for subscribers that watch them all.
var ChangeTopics = []string{
	TopicRecordCreated,
	TopicRecordUpdated,
	TopicRecordDeleted,
	TopicRunCreated,
	TopicRunUpdated,
	TopicRunDeleted,
	TopicRunsCleared,
	TopicSnapshotImported,
	TopicSnapshotCleared,
}

// ChangeEvent is the payload of every change topic. Kind and ID are empty for
// whole-snapshot events.
type ChangeEvent struct {
	Topic      string    `json:"topic"`
	Kind       string    `json:"kind,omitempty"`
	ID         int       `json:"id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Cascaded   int       `json:"cascaded,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ReloadRequired reports whether clients must reload all state after this event.
func (e ChangeEvent) ReloadRequired() bool {
	return e.Topic == TopicSnapshotImported || e.Topic == TopicSnapshotCleared
}
