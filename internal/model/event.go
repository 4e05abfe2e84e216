package model

import "time"

// MinScheduledAt is the earliest instant an event may be scheduled at.
var MinScheduledAt = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

type TargetType string

const (
	TargetTypeFish     TargetType = "fish"
	TargetTypeAquarium TargetType = "aquarium"
)

// Target points an event either at one fish or at the whole aquarium.
// FishID is meaningful only when Type is TargetTypeFish.
type Target struct {
	Type   TargetType
	FishID int64
}

type TaskType string

const (
	TaskTypeFeeding            TaskType = "feeding"
	TaskTypeCleaning           TaskType = "cleaning"
	TaskTypeWaterChange        TaskType = "water_change"
	TaskTypeMedication         TaskType = "medication"
	TaskTypeAquariumMedication TaskType = "aquarium_medication"
	TaskTypeObservation        TaskType = "observation"
	TaskTypeMaintenance        TaskType = "maintenance"
	TaskTypeOther              TaskType = "other"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Recurrence string

const (
	RecurrenceNone    Recurrence = ""
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

type EventCreate struct {
	Target      Target
	Type        TaskType
	Title       string
	Description string
	Notes       string
	ScheduledAt time.Time
	Priority    Priority
	Recurrence  Recurrence
}

type Event struct {
	ID             int64
	OwnerID        int64
	IsCompleted    bool
	CompletedAt    *time.Time
	NextOccurrence *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	EventCreate
}

// EventUpdate carries a partial change set; nil fields are left untouched.
// A Target with an empty Type keeps the event's current target type.
type EventUpdate struct {
	Target      *Target
	Type        *TaskType
	Title       *string
	Description *string
	Notes       *string
	ScheduledAt *time.Time
	Priority    *Priority
	Recurrence  *Recurrence
}

type EventsSort int

const (
	SortScheduledDesc EventsSort = iota
	SortScheduledAsc
)

// EventsFilter narrows an owner's event set. From is inclusive, To exclusive.
type EventsFilter struct {
	OwnerID     int64
	FishID      int64
	Type        TaskType
	IsCompleted *bool
	Priority    Priority
	From        *time.Time
	To          *time.Time
	Sort        EventsSort
	Limit       int
}

// MaxFilterLimit caps the result set of filtered queries and subscriptions.
const MaxFilterLimit = 100
