package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

func (s *Service) GetEvent(ctx context.Context, ownerID, id int64) (*model.Event, error) {
	event, err := s.events.GetEventByID(ctx, s.db, id, ownerID)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("eventsRepository.GetEventByID: %w", err)
	}

	return event, nil
}

func (s *Service) GetEvents(ctx context.Context, filter model.EventsFilter) ([]*model.Event, error) {
	if filter.Limit > model.MaxFilterLimit {
		filter.Limit = model.MaxFilterLimit
	}

	events, err := s.events.GetEvents(ctx, s.db, filter)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetEvents: %w", err)
	}

	return events, nil
}

// TodayWindow is the [start, end) day window that contains ts.
func TodayWindow(ts time.Time) (time.Time, time.Time) {
	start := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	return start, start.AddDate(0, 0, 1)
}

// TodayFilter matches the owner's events scheduled today, chronological.
func TodayFilter(ownerID int64, now time.Time) model.EventsFilter {
	from, to := TodayWindow(now)
	return model.EventsFilter{
		OwnerID: ownerID,
		From:    &from,
		To:      &to,
		Sort:    model.SortScheduledAsc,
	}
}

// OverdueFilter matches incomplete events scheduled before now, earliest first.
func OverdueFilter(ownerID int64, now time.Time) model.EventsFilter {
	notCompleted := false
	to := now
	return model.EventsFilter{
		OwnerID:     ownerID,
		IsCompleted: &notCompleted,
		To:          &to,
		Sort:        model.SortScheduledAsc,
	}
}
