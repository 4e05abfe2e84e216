package events

import (
	"time"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

type eventDTO struct {
	ID             int64
	OwnerID        int64
	TargetType     string
	FishID         *int64
	TaskType       string
	Title          string
	Description    string
	Notes          string
	ScheduledAt    time.Time
	IsCompleted    bool
	CompletedAt    *time.Time
	Priority       string
	Recurrence     *string
	NextOccurrence *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func mapToEvent(dto *eventDTO) *model.Event {
	target := model.Target{Type: model.TargetType(dto.TargetType)}
	if dto.FishID != nil {
		target.FishID = *dto.FishID
	}

	recurrence := model.RecurrenceNone
	if dto.Recurrence != nil {
		recurrence = model.Recurrence(*dto.Recurrence)
	}

	return &model.Event{
		ID:             dto.ID,
		OwnerID:        dto.OwnerID,
		IsCompleted:    dto.IsCompleted,
		CompletedAt:    dto.CompletedAt,
		NextOccurrence: dto.NextOccurrence,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
		EventCreate: model.EventCreate{
			Target:      target,
			Type:        model.TaskType(dto.TaskType),
			Title:       dto.Title,
			Description: dto.Description,
			Notes:       dto.Notes,
			ScheduledAt: dto.ScheduledAt,
			Priority:    model.Priority(dto.Priority),
			Recurrence:  recurrence,
		},
	}
}

func fishIDColumn(t model.Target) *int64 {
	if t.Type != model.TargetTypeFish {
		return nil
	}
	id := t.FishID
	return &id
}

func recurrenceColumn(r model.Recurrence) *string {
	if r == model.RecurrenceNone {
		return nil
	}
	s := string(r)
	return &s
}
