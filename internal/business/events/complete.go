package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

// Complete marks the event done and, for recurring events, spawns the next
// occurrence first. Both writes share one transaction so a recurring chain
// never loses its upcoming instance.
func (s *Service) Complete(ctx context.Context, ownerID, id int64, notes string) (*model.Event, error) {
	event, err := s.events.GetEventByID(ctx, s.db, id, ownerID)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("eventsRepository.GetEventByID: %w", err)
	}

	if event.IsCompleted {
		return nil, model.ErrAlreadyCompleted
	}

	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if event.Recurrence != model.RecurrenceNone && event.NextOccurrence != nil {
		next, err := nextOccurrence(event.Recurrence, *event.NextOccurrence)
		if err != nil {
			return nil, err
		}

		spawn := &model.Event{
			OwnerID:        ownerID,
			NextOccurrence: &next,
			CreatedAt:      now,
			UpdatedAt:      now,
			EventCreate:    event.EventCreate,
		}
		spawn.ScheduledAt = *event.NextOccurrence
		spawn.Notes = ""

		if _, err := s.events.CreateEvent(ctx, tx, spawn); err != nil {
			return nil, fmt.Errorf("eventsRepository.CreateEvent: %w", err)
		}
	}

	event.IsCompleted = true
	event.CompletedAt = &now
	event.Notes = strings.TrimSpace(notes)
	event.UpdatedAt = now

	// Conditional write: a racing completion that won after our read makes
	// this a no-op instead of a second completion.
	if err := s.events.CompleteEvent(ctx, tx, event); err != nil {
		if errors.Is(err, model.ErrAlreadyCompleted) {
			return nil, err
		}
		return nil, fmt.Errorf("eventsRepository.CompleteEvent: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.changes.EventsChanged(ownerID)

	return event, nil
}
