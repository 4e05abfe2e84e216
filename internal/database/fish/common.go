package fish

import "github.com/SergeyKozhin/aquacare-backend/internal/database"

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"id",
		"owner_id",
		"name",
	).
	From(database.FishTable)
