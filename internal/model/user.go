package model

type UserCreate struct {
	FullName     string
	Email        string
	PasswordHash []byte
}

type User struct {
	ID int64
	UserCreate
}
