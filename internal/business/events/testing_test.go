package events

import (
	"context"
	"sort"
	"sync"

	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// fakeDB satisfies database.PGX for tests; the in-memory repository ignores
// the queryable it is handed.
type fakeDB struct{}

func (fakeDB) Exec(ctx context.Context, sqlizer database.Sqlizer) (pgconn.CommandTag, error) {
	return nil, nil
}

func (fakeDB) Get(ctx context.Context, dst interface{}, sqlizer database.Sqlizer) error {
	return nil
}

func (fakeDB) Select(ctx context.Context, dst interface{}, sqlizer database.Sqlizer) error {
	return nil
}

func (db fakeDB) BeginTx(ctx context.Context, txOptions *pgx.TxOptions) (database.Tx, error) {
	return fakeTx{db}, nil
}

type fakeTx struct{ fakeDB }

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

// memEventsRepository is a mutex-map store with the same contract as the
// postgres repository, including owner-scoped misses.
type memEventsRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.Event
}

func newMemEventsRepository() *memEventsRepository {
	return &memEventsRepository{byID: map[int64]*model.Event{}}
}

func (r *memEventsRepository) CreateEvent(_ context.Context, _ database.Queryable, event *model.Event) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *event
	stored.ID = r.nextID
	r.byID[stored.ID] = &stored

	return stored.ID, nil
}

func (r *memEventsRepository) GetEventByID(_ context.Context, _ database.Queryable, id, ownerID int64) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.byID[id]
	if !ok || event.OwnerID != ownerID {
		return nil, model.ErrNoRecord
	}

	copied := *event
	return &copied, nil
}

func (r *memEventsRepository) GetEvents(_ context.Context, _ database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []*model.Event
	for _, event := range r.byID {
		if !matchesFilter(event, filter) {
			continue
		}
		copied := *event
		res = append(res, &copied)
	}

	sort.Slice(res, func(i, j int) bool {
		if filter.Sort == model.SortScheduledAsc {
			return res[i].ScheduledAt.Before(res[j].ScheduledAt)
		}
		return res[j].ScheduledAt.Before(res[i].ScheduledAt)
	})

	if filter.Limit > 0 && len(res) > filter.Limit {
		res = res[:filter.Limit]
	}

	return res, nil
}

func matchesFilter(event *model.Event, filter model.EventsFilter) bool {
	if event.OwnerID != filter.OwnerID {
		return false
	}
	if filter.FishID != 0 && (event.Target.Type != model.TargetTypeFish || event.Target.FishID != filter.FishID) {
		return false
	}
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if filter.IsCompleted != nil && event.IsCompleted != *filter.IsCompleted {
		return false
	}
	if filter.Priority != "" && event.Priority != filter.Priority {
		return false
	}
	if filter.From != nil && event.ScheduledAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !event.ScheduledAt.Before(*filter.To) {
		return false
	}
	return true
}

func (r *memEventsRepository) UpdateEvent(_ context.Context, _ database.Queryable, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[event.ID]
	if !ok || existing.OwnerID != event.OwnerID {
		return model.ErrNoRecord
	}

	stored := *event
	r.byID[event.ID] = &stored

	return nil
}

func (r *memEventsRepository) CompleteEvent(_ context.Context, _ database.Queryable, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[event.ID]
	if !ok || existing.OwnerID != event.OwnerID || existing.IsCompleted {
		return model.ErrAlreadyCompleted
	}

	stored := *existing
	stored.IsCompleted = true
	stored.CompletedAt = event.CompletedAt
	stored.Notes = event.Notes
	stored.UpdatedAt = event.UpdatedAt
	r.byID[event.ID] = &stored

	return nil
}

func (r *memEventsRepository) DeleteEvent(_ context.Context, _ database.Queryable, id, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok || existing.OwnerID != ownerID {
		return model.ErrNoRecord
	}

	delete(r.byID, id)

	return nil
}

type fakeFishRegistry struct {
	owned map[int64]int64 // fish id -> owner id
}

func (f *fakeFishRegistry) Exists(_ context.Context, _ database.Queryable, id, ownerID int64) (bool, error) {
	owner, ok := f.owned[id]
	return ok && owner == ownerID, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	owners []int64
}

func (n *recordingNotifier) EventsChanged(ownerID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.owners = append(n.owners, ownerID)
}

func (n *recordingNotifier) calls() []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int64(nil), n.owners...)
}
