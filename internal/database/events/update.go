package events

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

func (*Repository) UpdateEvent(ctx context.Context, q database.Queryable, event *model.Event) error {
	qb := database.PSQL.
		Update(database.EventsTable).
		SetMap(map[string]interface{}{
			"target_type":     string(event.Target.Type),
			"fish_id":         fishIDColumn(event.Target),
			"task_type":       string(event.Type),
			"title":           event.Title,
			"description":     event.Description,
			"notes":           event.Notes,
			"scheduled_at":    event.ScheduledAt,
			"is_completed":    event.IsCompleted,
			"completed_at":    event.CompletedAt,
			"priority":        string(event.Priority),
			"recurrence":      recurrenceColumn(event.Recurrence),
			"next_occurrence": event.NextOccurrence,
			"updated_at":      event.UpdatedAt,
		}).
		Where(sq.Eq{"id": event.ID, "owner_id": event.OwnerID})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}

// CompleteEvent writes the completion fields only while the event is still
// pending, so two racing completions cannot both succeed.
func (*Repository) CompleteEvent(ctx context.Context, q database.Queryable, event *model.Event) error {
	qb := database.PSQL.
		Update(database.EventsTable).
		SetMap(map[string]interface{}{
			"is_completed": true,
			"completed_at": event.CompletedAt,
			"notes":        event.Notes,
			"updated_at":   event.UpdatedAt,
		}).
		Where(sq.Eq{"id": event.ID, "owner_id": event.OwnerID, "is_completed": false})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrAlreadyCompleted
	}

	return nil
}
