package events

import (
	"unicode/utf8"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
	"github.com/SergeyKozhin/aquacare-backend/internal/pkg/validator"
)

const (
	minTitleLength = 2
	maxTitleLength = 100
	maxTextLength  = 500
)

// validateEvent checks a full event record (for updates, the merged record).
// Every violation is collected so the caller gets the complete list at once.
func validateEvent(event *model.Event) *model.ValidationError {
	v := validator.New()

	targetKnown := event.Target.Type == model.TargetTypeFish || event.Target.Type == model.TargetTypeAquarium
	v.Check(targetKnown, "target_type", "target type must be fish or aquarium")

	if event.Target.Type == model.TargetTypeFish {
		v.Check(event.Target.FishID != 0, "fish_id", "fish id must be provided for fish events")
	}
	if event.Target.Type == model.TargetTypeAquarium {
		v.Check(event.Target.FishID == 0, "fish_id", "fish id must be empty for aquarium events")
	}

	typeKnown := false
	switch event.Type {
	case model.TaskTypeFeeding, model.TaskTypeCleaning, model.TaskTypeWaterChange,
		model.TaskTypeMedication, model.TaskTypeAquariumMedication,
		model.TaskTypeObservation, model.TaskTypeMaintenance, model.TaskTypeOther:
		typeKnown = true
	}
	v.Check(typeKnown, "type", "unknown task type")

	if event.Type == model.TaskTypeAquariumMedication {
		v.Check(event.Target.Type == model.TargetTypeAquarium, "type", "aquarium medication must target the aquarium")
	}

	titleLength := utf8.RuneCountInString(event.Title)
	v.Check(titleLength >= minTitleLength && titleLength <= maxTitleLength, "title", "title must be between 2 and 100 characters")

	v.Check(!event.ScheduledAt.IsZero(), "scheduled_at", "scheduled at must be provided")
	if !event.ScheduledAt.IsZero() {
		v.Check(!event.ScheduledAt.Before(model.MinScheduledAt), "scheduled_at", "scheduled at must not be before 2020")
	}

	if event.Priority != "" {
		priorityKnown := event.Priority == model.PriorityLow || event.Priority == model.PriorityMedium || event.Priority == model.PriorityHigh
		v.Check(priorityKnown, "priority", "priority must be low, medium or high")
	}

	if event.Recurrence != model.RecurrenceNone {
		recurrenceKnown := event.Recurrence == model.RecurrenceDaily || event.Recurrence == model.RecurrenceWeekly || event.Recurrence == model.RecurrenceMonthly
		v.Check(recurrenceKnown, "recurrence", "recurrence must be daily, weekly or monthly")
	}

	v.Check(utf8.RuneCountInString(event.Description) <= maxTextLength, "description", "description must be at most 500 characters")
	v.Check(utf8.RuneCountInString(event.Notes) <= maxTextLength, "notes", "notes must be at most 500 characters")

	if event.CompletedAt != nil && !event.ScheduledAt.IsZero() {
		v.Check(!event.CompletedAt.Before(event.ScheduledAt), "completed_at", "completed at must not be before scheduled at")
	}

	if v.Valid() {
		return nil
	}

	return &model.ValidationError{Violations: v.Messages()}
}
