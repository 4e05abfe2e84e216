package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.events.DeleteEvent(ctx, s.db, id, ownerID); err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return err
		}
		return fmt.Errorf("eventsRepository.DeleteEvent: %w", err)
	}

	s.changes.EventsChanged(ownerID)

	return nil
}
