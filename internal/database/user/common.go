package user

import "github.com/SergeyKozhin/aquacare-backend/internal/database"

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"id",
		"full_name",
		"email",
		"password_hash",
	).
	From(database.UsersTable)
