package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityComment       ActivityType = "comment"
	ActivityStatusChanged ActivityType = "status_changed"
	ActivityStageChanged  ActivityType = "stage_changed"
	ActivityTaskCreated   ActivityType = "task_created"
	ActivityTaskCompleted ActivityType = "task_completed"
	ActivitySystem        ActivityType = "system"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityComment, ActivityStatusChanged, ActivityStageChanged,
		ActivityTaskCreated, ActivityTaskCompleted, ActivitySystem:
		return true
	}
	return false
}

// Activity is an append-only timeline entry on a deal. AuthorID is nil for
// system-generated entries. Rows are never updated or deleted individually;
// they only go away with their deal.
type Activity struct {
	gorm.Model

	DealID   uint           `gorm:"not null;index"`
	AuthorID *uint          `gorm:"index"`
	Type     ActivityType   `gorm:"size:20;not null;index"`
	Payload  datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Deal   Deal  `gorm:"foreignKey:DealID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

// Payload shapes, one per activity type. The payload column is JSON but its
// shape is fixed by Type, so writers go through these structs rather than
// free-form maps.

type CommentPayload struct {
	Text string `json:"text"`
}

type StatusChangedPayload struct {
	From DealStatus `json:"from"`
	To   DealStatus `json:"to"`
}

type StageChangedPayload struct {
	From DealStage `json:"from"`
	To   DealStage `json:"to"`
}

type TaskPayload struct {
	TaskID  uint   `json:"task_id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date,omitempty"`
}

type SystemPayload struct {
	Message string `json:"message"`
}

// MarshalPayload converts a typed payload into the JSON column value.
func MarshalPayload(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		// All payload structs above marshal cleanly; this only trips on a
		// caller passing something exotic.
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(raw)
}
