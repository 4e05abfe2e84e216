package subscriptions

import (
	"context"
	"sync"

	"github.com/SergeyKozhin/aquacare-backend/internal/business/events"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

type subscriptionKind int

const (
	kindDocuments subscriptionKind = iota
	kindOverdue
	kindStats
)

const updateBuffer = 16

// Update is one delivery on a live channel. The initial payload carries the
// whole matching set in Added (or the snapshot in Stats); later deliveries
// carry only the difference against the last delivered state.
type Update struct {
	Initial bool
	Added   []*model.Event
	Changed []*model.Event
	Removed []int64
	Stats   *model.StatsSnapshot
}

// Subscription is a live channel handle. It starts computing its initial
// payload immediately and keeps delivering until Stop releases it; Stop is
// safe to call from any exit path and any number of times.
type Subscription struct {
	manager *Manager
	ownerID int64
	kind    subscriptionKind
	filter  model.EventsFilter

	updates   chan Update
	triggerCh chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once

	// known is the last delivered document set, keyed by event id.
	// Owned by the run goroutine.
	known map[int64]*model.Event
}

func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

// Stop deregisters the subscription; no recomputation is scheduled for it
// afterwards. The updates channel closes once the delivery goroutine exits.
func (s *Subscription) Stop() {
	s.stopOnce.Do(func() {
		s.manager.remove(s)
		close(s.stopCh)
	})
}

func (s *Subscription) trigger() {
	select {
	case s.triggerCh <- struct{}{}:
	default:
	}
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.updates)
	defer s.Stop()

	s.recompute(ctx, true)

	for {
		select {
		case <-s.triggerCh:
			s.recompute(ctx, false)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Subscription) recompute(ctx context.Context, initial bool) {
	if s.kind == kindStats {
		s.recomputeStats(ctx, initial)
		return
	}

	filter := s.filter
	if s.kind == kindOverdue {
		to := s.manager.now()
		filter.To = &to
	}

	current, err := s.manager.events.GetEvents(ctx, s.manager.db, filter)
	if err != nil {
		s.manager.logger.Errorw("subscription recompute failed", "owner_id", s.ownerID, "err", err)
		return
	}

	update := Update{Initial: initial}
	seen := make(map[int64]*model.Event, len(current))

	for _, e := range current {
		seen[e.ID] = e

		prev, ok := s.known[e.ID]
		switch {
		case !ok:
			update.Added = append(update.Added, e)
		case !prev.UpdatedAt.Equal(e.UpdatedAt):
			update.Changed = append(update.Changed, e)
		}
	}

	for id := range s.known {
		if _, ok := seen[id]; !ok {
			update.Removed = append(update.Removed, id)
		}
	}

	s.known = seen

	if !initial && len(update.Added) == 0 && len(update.Changed) == 0 && len(update.Removed) == 0 {
		return
	}

	s.deliver(ctx, update)
}

func (s *Subscription) recomputeStats(ctx context.Context, initial bool) {
	all, err := s.manager.events.GetEvents(ctx, s.manager.db, model.EventsFilter{OwnerID: s.ownerID})
	if err != nil {
		s.manager.logger.Errorw("stats recompute failed", "owner_id", s.ownerID, "err", err)
		return
	}

	s.deliver(ctx, Update{
		Initial: initial,
		Stats:   events.ComputeStats(all, s.manager.now()),
	})
}

func (s *Subscription) deliver(ctx context.Context, update Update) {
	select {
	case s.updates <- update:
	case <-s.stopCh:
	case <-ctx.Done():
	}
}
