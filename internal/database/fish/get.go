package fish

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

// Exists reports whether the fish belongs to the owner. A miss for another
// owner's fish is indistinguishable from a missing fish.
func (*Repository) Exists(ctx context.Context, q database.Queryable, id, ownerID int64) (bool, error) {
	qb := database.PSQL.
		Select("1").
		From(database.FishTable).
		Where(sq.Eq{"id": id, "owner_id": ownerID})

	var found []int
	if err := q.Select(ctx, &found, qb); err != nil {
		return false, fmt.Errorf("SQL request: %w", err)
	}

	return len(found) != 0, nil
}

func (*Repository) GetFishByID(ctx context.Context, q database.Queryable, id, ownerID int64) (*model.Fish, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": id, "owner_id": ownerID})

	var dtos []*fishDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	if len(dtos) == 0 {
		return nil, model.ErrNoRecord
	}

	return mapToFish(dtos[0]), nil
}

func (*Repository) GetFishByOwner(ctx context.Context, q database.Queryable, ownerID int64) ([]*model.Fish, error) {
	qb := baseQuery.
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("id")

	var dtos []*fishDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Fish, len(dtos))
	for i, d := range dtos {
		res[i] = mapToFish(d)
	}

	return res, nil
}
