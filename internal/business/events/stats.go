package events

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

func (s *Service) Stats(ctx context.Context, ownerID int64) (*model.StatsSnapshot, error) {
	events, err := s.events.GetEvents(ctx, s.db, model.EventsFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetEvents: %w", err)
	}

	return ComputeStats(events, s.now()), nil
}

// ComputeStats recomputes the snapshot from scratch on every call; it is a
// pure projection over the owner's current event set and holds no state.
func ComputeStats(events []*model.Event, now time.Time) *model.StatsSnapshot {
	stats := &model.StatsSnapshot{}
	dayStart, dayEnd := TodayWindow(now)

	for _, e := range events {
		stats.Total++

		if e.IsCompleted {
			stats.Completed++
		} else {
			stats.Pending++
			if e.ScheduledAt.Before(now) {
				stats.Overdue++
			}
		}

		if !e.ScheduledAt.Before(dayStart) && e.ScheduledAt.Before(dayEnd) {
			stats.Today.Total++
			if e.IsCompleted {
				stats.Today.Completed++
			} else {
				stats.Today.Remaining++
			}
		}
	}

	if stats.Total != 0 {
		stats.CompletionRate = int(math.Round(100 * float64(stats.Completed) / float64(stats.Total)))
	}

	return stats
}
