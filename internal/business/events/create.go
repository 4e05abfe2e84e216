package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

func (s *Service) Create(ctx context.Context, ownerID int64, info *model.EventCreate) (*model.Event, error) {
	if info.Target.Type == model.TargetTypeFish && info.Target.FishID != 0 {
		ok, err := s.fish.Exists(ctx, s.db, info.Target.FishID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("fishRegistry.Exists: %w", err)
		}
		if !ok {
			return nil, model.ErrTargetNotFound
		}
	}

	event := &model.Event{
		OwnerID:     ownerID,
		EventCreate: *info,
	}
	if event.Priority == "" {
		event.Priority = model.PriorityMedium
	}

	if verr := validateEvent(event); verr != nil {
		return nil, verr
	}

	event.Title = strings.TrimSpace(event.Title)
	event.Description = strings.TrimSpace(event.Description)
	event.Notes = strings.TrimSpace(event.Notes)

	if event.Recurrence != model.RecurrenceNone {
		next, err := nextOccurrence(event.Recurrence, event.ScheduledAt)
		if err != nil {
			return nil, err
		}
		event.NextOccurrence = &next
	}

	now := s.now()
	event.CreatedAt = now
	event.UpdatedAt = now

	id, err := s.events.CreateEvent(ctx, s.db, event)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.CreateEvent: %w", err)
	}
	event.ID = id

	s.changes.EventsChanged(ownerID)

	return event, nil
}
