// Package subscriptions delivers live, per-owner views over the event store:
// an initial result set (or stats snapshot) followed by incremental updates
// after every committed mutation for that owner.
package subscriptions

import (
	"context"
	"sync"
	"time"

	"github.com/SergeyKozhin/aquacare-backend/internal/business/events"
	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
	"go.uber.org/zap"
)

type Manager struct {
	db     database.PGX
	events eventsRepository
	logger *zap.SugaredLogger
	now    func() time.Time

	mu   sync.RWMutex
	subs map[int64]map[*Subscription]struct{}
}

type eventsRepository interface {
	GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error)
}

func NewManager(db database.PGX, events eventsRepository, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		db:     db,
		events: events,
		logger: logger,
		now:    time.Now,
		subs:   map[int64]map[*Subscription]struct{}{},
	}
}

// EventsChanged triggers a recheck on every live subscription of the owner.
// It never blocks the mutation path: a subscription that already has a
// pending trigger recomputes from the store state after this write anyway.
func (m *Manager) EventsChanged(ownerID int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for sub := range m.subs[ownerID] {
		sub.trigger()
	}
}

func (m *Manager) SubscribeAll(ctx context.Context, ownerID int64) *Subscription {
	return m.subscribe(ctx, ownerID, kindDocuments, model.EventsFilter{OwnerID: ownerID})
}

func (m *Manager) SubscribeByTarget(ctx context.Context, ownerID, fishID int64) *Subscription {
	return m.subscribe(ctx, ownerID, kindDocuments, model.EventsFilter{OwnerID: ownerID, FishID: fishID})
}

// SubscribeToday fixes the day window at subscription time.
func (m *Manager) SubscribeToday(ctx context.Context, ownerID int64) *Subscription {
	return m.subscribe(ctx, ownerID, kindDocuments, events.TodayFilter(ownerID, m.now()))
}

// SubscribeOverdue re-evaluates "now" on every recheck.
func (m *Manager) SubscribeOverdue(ctx context.Context, ownerID int64) *Subscription {
	return m.subscribe(ctx, ownerID, kindOverdue, events.OverdueFilter(ownerID, m.now()))
}

func (m *Manager) SubscribeFiltered(ctx context.Context, ownerID int64, filter model.EventsFilter) *Subscription {
	filter.OwnerID = ownerID
	if filter.Limit <= 0 || filter.Limit > model.MaxFilterLimit {
		filter.Limit = model.MaxFilterLimit
	}
	return m.subscribe(ctx, ownerID, kindDocuments, filter)
}

func (m *Manager) SubscribeStats(ctx context.Context, ownerID int64) *Subscription {
	return m.subscribe(ctx, ownerID, kindStats, model.EventsFilter{OwnerID: ownerID})
}

func (m *Manager) subscribe(ctx context.Context, ownerID int64, kind subscriptionKind, filter model.EventsFilter) *Subscription {
	sub := &Subscription{
		manager:   m,
		ownerID:   ownerID,
		kind:      kind,
		filter:    filter,
		updates:   make(chan Update, updateBuffer),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		known:     map[int64]*model.Event{},
	}

	m.mu.Lock()
	owner, ok := m.subs[ownerID]
	if !ok {
		owner = map[*Subscription]struct{}{}
		m.subs[ownerID] = owner
	}
	owner[sub] = struct{}{}
	m.mu.Unlock()

	go sub.run(ctx)

	return sub
}

func (m *Manager) remove(sub *Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner, ok := m.subs[sub.ownerID]
	if !ok {
		return
	}

	delete(owner, sub)
	if len(owner) == 0 {
		delete(m.subs, sub.ownerID)
	}
}

// ActiveSubscriptions reports how many live subscriptions the owner has.
func (m *Manager) ActiveSubscriptions(ownerID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.subs[ownerID])
}
