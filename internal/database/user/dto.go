package user

import "github.com/SergeyKozhin/aquacare-backend/internal/model"

type userDTO struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash []byte
}

func mapToUser(dto *userDTO) *model.User {
	return &model.User{
		ID: dto.ID,
		UserCreate: model.UserCreate{
			FullName:     dto.FullName,
			Email:        dto.Email,
			PasswordHash: dto.PasswordHash,
		},
	}
}
