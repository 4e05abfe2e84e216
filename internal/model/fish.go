package model

type FishCreate struct {
	OwnerID int64
	Name    string
}

type Fish struct {
	ID      int64
	OwnerID int64
	Name    string
}
