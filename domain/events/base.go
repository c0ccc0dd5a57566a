package events

import "time"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// Object events

// ObjectAdded is raised when a new object enters the scene
type ObjectAdded struct {
	BaseEvent
	ObjectID   string `json:"object_id"`
	ObjectType string `json:"object_type"`
	CreatedBy  string `json:"created_by"`
}

// NewObjectAdded creates an ObjectAdded event
func NewObjectAdded(objectID, objectType, createdBy string, timestamp time.Time) ObjectAdded {
	return ObjectAdded{
		BaseEvent: BaseEvent{
			AggregateID: objectID,
			EventType:   "object.added",
			Timestamp:   timestamp,
		},
		ObjectID:   objectID,
		ObjectType: objectType,
		CreatedBy:  createdBy,
	}
}

// ObjectUpdated is raised when an object's properties change
type ObjectUpdated struct {
	BaseEvent
	ObjectID string `json:"object_id"`
}

// NewObjectUpdated creates an ObjectUpdated event
func NewObjectUpdated(objectID string, timestamp time.Time) ObjectUpdated {
	return ObjectUpdated{
		BaseEvent: BaseEvent{
			AggregateID: objectID,
			EventType:   "object.updated",
			Timestamp:   timestamp,
		},
		ObjectID: objectID,
	}
}

// ObjectsBatchUpdated is raised once for a multi-object update
type ObjectsBatchUpdated struct {
	BaseEvent
	ObjectIDs []string `json:"object_ids"`
}

// NewObjectsBatchUpdated creates an ObjectsBatchUpdated event
func NewObjectsBatchUpdated(objectIDs []string, timestamp time.Time) ObjectsBatchUpdated {
	agg := ""
	if len(objectIDs) > 0 {
		agg = objectIDs[0]
	}
	return ObjectsBatchUpdated{
		BaseEvent: BaseEvent{
			AggregateID: agg,
			EventType:   "objects.batch_updated",
			Timestamp:   timestamp,
		},
		ObjectIDs: objectIDs,
	}
}

// ObjectRemoved is raised when an object leaves the scene, including objects
// removed by empty-group pruning
type ObjectRemoved struct {
	BaseEvent
	ObjectID string `json:"object_id"`
	AssetKey string `json:"asset_key,omitempty"`
}

// NewObjectRemoved creates an ObjectRemoved event
func NewObjectRemoved(objectID, assetKey string, timestamp time.Time) ObjectRemoved {
	return ObjectRemoved{
		BaseEvent: BaseEvent{
			AggregateID: objectID,
			EventType:   "object.removed",
			Timestamp:   timestamp,
		},
		ObjectID: objectID,
		AssetKey: assetKey,
	}
}

// Hierarchy events

// ObjectReparented is raised when an object moves to a new parent
type ObjectReparented struct {
	BaseEvent
	ObjectID    string `json:"object_id"`
	OldParentID string `json:"old_parent_id,omitempty"`
	NewParentID string `json:"new_parent_id,omitempty"`
}

// NewObjectReparented creates an ObjectReparented event
func NewObjectReparented(objectID, oldParentID, newParentID string, timestamp time.Time) ObjectReparented {
	return ObjectReparented{
		BaseEvent: BaseEvent{
			AggregateID: objectID,
			EventType:   "object.reparented",
			Timestamp:   timestamp,
		},
		ObjectID:    objectID,
		OldParentID: oldParentID,
		NewParentID: newParentID,
	}
}

// ObjectsGrouped is raised when a selection is wrapped in a new group
type ObjectsGrouped struct {
	BaseEvent
	GroupID   string   `json:"group_id"`
	MemberIDs []string `json:"member_ids"`
}

// NewObjectsGrouped creates an ObjectsGrouped event
func NewObjectsGrouped(groupID string, memberIDs []string, timestamp time.Time) ObjectsGrouped {
	return ObjectsGrouped{
		BaseEvent: BaseEvent{
			AggregateID: groupID,
			EventType:   "objects.grouped",
			Timestamp:   timestamp,
		},
		GroupID:   groupID,
		MemberIDs: memberIDs,
	}
}

// GroupDissolved is raised when a group is ungrouped
type GroupDissolved struct {
	BaseEvent
	GroupID  string   `json:"group_id"`
	ChildIDs []string `json:"child_ids"`
}

// NewGroupDissolved creates a GroupDissolved event
func NewGroupDissolved(groupID string, childIDs []string, timestamp time.Time) GroupDissolved {
	return GroupDissolved{
		BaseEvent: BaseEvent{
			AggregateID: groupID,
			EventType:   "group.dissolved",
			Timestamp:   timestamp,
		},
		GroupID:  groupID,
		ChildIDs: childIDs,
	}
}

// LockToggled is raised once per lock cascade
type LockToggled struct {
	BaseEvent
	ObjectID  string   `json:"object_id"`
	Locked    bool     `json:"locked"`
	MemberIDs []string `json:"member_ids"`
}

// NewLockToggled creates a LockToggled event
func NewLockToggled(objectID string, locked bool, memberIDs []string, timestamp time.Time) LockToggled {
	return LockToggled{
		BaseEvent: BaseEvent{
			AggregateID: objectID,
			EventType:   "lock.toggled",
			Timestamp:   timestamp,
		},
		ObjectID:  objectID,
		Locked:    locked,
		MemberIDs: memberIDs,
	}
}

// Clipboard events

// ObjectsPasted is raised when clipboard contents are materialized
type ObjectsPasted struct {
	BaseEvent
	ObjectIDs []string `json:"object_ids"`
}

// NewObjectsPasted creates an ObjectsPasted event
func NewObjectsPasted(objectIDs []string, timestamp time.Time) ObjectsPasted {
	agg := ""
	if len(objectIDs) > 0 {
		agg = objectIDs[0]
	}
	return ObjectsPasted{
		BaseEvent: BaseEvent{
			AggregateID: agg,
			EventType:   "objects.pasted",
			Timestamp:   timestamp,
		},
		ObjectIDs: objectIDs,
	}
}

// SceneReconciled is raised when an authoritative snapshot replaced local state
type SceneReconciled struct {
	BaseEvent
	ObjectCount int `json:"object_count"`
	PrunedCount int `json:"pruned_count"`
}

// NewSceneReconciled creates a SceneReconciled event
func NewSceneReconciled(sceneID string, objectCount, prunedCount int, timestamp time.Time) SceneReconciled {
	return SceneReconciled{
		BaseEvent: BaseEvent{
			AggregateID: sceneID,
			EventType:   "scene.reconciled",
			Timestamp:   timestamp,
		},
		ObjectCount: objectCount,
		PrunedCount: prunedCount,
	}
}
