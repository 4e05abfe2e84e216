package events

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

func (*Repository) GetEventByID(ctx context.Context, q database.Queryable, id, ownerID int64) (*model.Event, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": id, "owner_id": ownerID})

	var dtos []*eventDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	if len(dtos) == 0 {
		return nil, model.ErrNoRecord
	}

	return mapToEvent(dtos[0]), nil
}

func (*Repository) GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	qb := baseQuery.
		Where(sq.Eq{"owner_id": filter.OwnerID})

	if filter.FishID != 0 {
		qb = qb.Where(sq.Eq{"fish_id": filter.FishID})
	}

	if filter.Type != "" {
		qb = qb.Where(sq.Eq{"task_type": string(filter.Type)})
	}

	if filter.IsCompleted != nil {
		qb = qb.Where(sq.Eq{"is_completed": *filter.IsCompleted})
	}

	if filter.Priority != "" {
		qb = qb.Where(sq.Eq{"priority": string(filter.Priority)})
	}

	if filter.From != nil {
		qb = qb.Where(sq.GtOrEq{"scheduled_at": *filter.From})
	}

	if filter.To != nil {
		qb = qb.Where(sq.Lt{"scheduled_at": *filter.To})
	}

	switch filter.Sort {
	case model.SortScheduledAsc:
		qb = qb.OrderBy("scheduled_at asc", "id asc")
	default:
		qb = qb.OrderBy("scheduled_at desc", "id desc")
	}

	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}

	var dtos []*eventDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Event, len(dtos))
	for i, d := range dtos {
		res[i] = mapToEvent(d)
	}

	return res, nil
}
