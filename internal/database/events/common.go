package events

import "github.com/SergeyKozhin/aquacare-backend/internal/database"

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"id",
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
	From(database.EventsTable)
