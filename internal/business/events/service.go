// Package events implements the maintenance event lifecycle: creation,
// partial updates, completion with recurrence spawning, deletion and the
// per-owner statistics snapshot. Every store access is scoped by owner id.
package events

import (
	"context"
	"time"

	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

type Service struct {
	db      database.PGX
	events  eventsRepository
	fish    fishRegistry
	changes changeNotifier
	now     func() time.Time
}

type eventsRepository interface {
	CreateEvent(ctx context.Context, q database.Queryable, event *model.Event) (int64, error)
	GetEventByID(ctx context.Context, q database.Queryable, id, ownerID int64) (*model.Event, error)
	GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, q database.Queryable, event *model.Event) error
	CompleteEvent(ctx context.Context, q database.Queryable, event *model.Event) error
	DeleteEvent(ctx context.Context, q database.Queryable, id, ownerID int64) error
}

type fishRegistry interface {
	Exists(ctx context.Context, q database.Queryable, id, ownerID int64) (bool, error)
}

// changeNotifier observes committed mutations, keyed by owner.
type changeNotifier interface {
	EventsChanged(ownerID int64)
}

func NewService(db database.PGX, events eventsRepository, fish fishRegistry, changes changeNotifier) *Service {
	return &Service{
		db:      db,
		events:  events,
		fish:    fish,
		changes: changes,
		now:     time.Now,
	}
}
