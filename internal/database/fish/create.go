package fish

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

func (*Repository) CreateFish(ctx context.Context, q database.Queryable, fish *model.FishCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.FishTable).
		Columns("owner_id", "name").
		Values(fish.OwnerID, fish.Name).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
