package fish

import "github.com/SergeyKozhin/aquacare-backend/internal/model"

type fishDTO struct {
	ID      int64
	OwnerID int64
	Name    string
}

func mapToFish(dto *fishDTO) *model.Fish {
	return &model.Fish{
		ID:      dto.ID,
		OwnerID: dto.OwnerID,
		Name:    dto.Name,
	}
}
