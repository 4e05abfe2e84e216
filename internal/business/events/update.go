package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

func (s *Service) Update(ctx context.Context, ownerID, id int64, upd *model.EventUpdate) (*model.Event, error) {
	existing, err := s.events.GetEventByID(ctx, s.db, id, ownerID)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("eventsRepository.GetEventByID: %w", err)
	}

	merged := *existing

	if upd.Target != nil {
		target := *upd.Target
		// A fish id sent without a target type keeps the current type.
		if target.Type == "" {
			target.Type = existing.Target.Type
		}
		if target.Type == model.TargetTypeFish {
			if target.FishID == 0 && existing.Target.Type == model.TargetTypeFish {
				target.FishID = existing.Target.FishID
			}
			if target.FishID == 0 {
				return nil, model.ErrTargetRequired
			}
			if target.FishID != existing.Target.FishID || existing.Target.Type != model.TargetTypeFish {
				ok, err := s.fish.Exists(ctx, s.db, target.FishID, ownerID)
				if err != nil {
					return nil, fmt.Errorf("fishRegistry.Exists: %w", err)
				}
				if !ok {
					return nil, model.ErrTargetNotFound
				}
			}
		}
		merged.Target = target
	}

	if upd.Type != nil {
		merged.Type = *upd.Type
	}
	if upd.Title != nil {
		merged.Title = *upd.Title
	}
	if upd.Description != nil {
		merged.Description = *upd.Description
	}
	if upd.Notes != nil {
		merged.Notes = *upd.Notes
	}
	if upd.ScheduledAt != nil {
		merged.ScheduledAt = *upd.ScheduledAt
	}
	if upd.Priority != nil {
		merged.Priority = *upd.Priority
	}
	if upd.Recurrence != nil {
		merged.Recurrence = *upd.Recurrence
	}

	if verr := validateEvent(&merged); verr != nil {
		return nil, verr
	}

	if upd.Title != nil {
		merged.Title = strings.TrimSpace(merged.Title)
	}
	if upd.Description != nil {
		merged.Description = strings.TrimSpace(merged.Description)
	}
	if upd.Notes != nil {
		merged.Notes = strings.TrimSpace(merged.Notes)
	}

	scheduleChanged := upd.ScheduledAt != nil && !upd.ScheduledAt.Equal(existing.ScheduledAt)
	recurrenceChanged := upd.Recurrence != nil && *upd.Recurrence != existing.Recurrence
	if scheduleChanged || recurrenceChanged {
		if merged.Recurrence == model.RecurrenceNone {
			merged.NextOccurrence = nil
		} else {
			next, err := nextOccurrence(merged.Recurrence, merged.ScheduledAt)
			if err != nil {
				return nil, err
			}
			merged.NextOccurrence = &next
		}
	}

	merged.UpdatedAt = s.now()

	if err := s.events.UpdateEvent(ctx, s.db, &merged); err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("eventsRepository.UpdateEvent: %w", err)
	}

	s.changes.EventsChanged(ownerID)

	return &merged, nil
}
