package events

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

func (*Repository) CreateEvent(ctx context.Context, q database.Queryable, event *model.Event) (int64, error) {
	qb := database.PSQL.
		Insert(database.EventsTable).
		Columns(
			"owner_id",
			"target_type",
			"fish_id",
			"task_type",
			"title",
			"description",
			"notes",
			"scheduled_at",
			"is_completed",
			"completed_at",
			"priority",
			"recurrence",
			"next_occurrence",
			"created_at",
			"updated_at",
		).
		Values(
			event.OwnerID,
			string(event.Target.Type),
			fishIDColumn(event.Target),
			string(event.Type),
			event.Title,
			event.Description,
			event.Notes,
			event.ScheduledAt,
			event.IsCompleted,
			event.CompletedAt,
			string(event.Priority),
			recurrenceColumn(event.Recurrence),
			event.NextOccurrence,
			event.CreatedAt,
			event.UpdatedAt,
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
