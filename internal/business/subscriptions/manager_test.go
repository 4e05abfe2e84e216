package subscriptions

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

const waitTimeout = 2 * time.Second

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
	return nil, nil
}

// memStore holds events behind the repository contract; tests mutate it
// directly and then signal the manager the way the mutation service does.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.Event
}

func newMemStore() *memStore {
	return &memStore{byID: map[int64]*model.Event{}}
}

func (s *memStore) put(event *model.Event) *model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == 0 {
		s.nextID++
		event.ID = s.nextID
	}
	stored := *event
	s.byID[stored.ID] = &stored

	return &stored
}

func (s *memStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

func (s *memStore) GetEvents(_ context.Context, _ database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*model.Event
	for _, event := range s.byID {
		if event.OwnerID != filter.OwnerID {
			continue
		}
		if filter.FishID != 0 && (event.Target.Type != model.TargetTypeFish || event.Target.FishID != filter.FishID) {
			continue
		}
		if filter.IsCompleted != nil && event.IsCompleted != *filter.IsCompleted {
			continue
		}
		if filter.From != nil && event.ScheduledAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !event.ScheduledAt.Before(*filter.To) {
			continue
		}
		copied := *event
		res = append(res, &copied)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	if filter.Limit > 0 && len(res) > filter.Limit {
		res = res[:filter.Limit]
	}

	return res, nil
}

func newTestManager(store *memStore) *Manager {
	m := NewManager(fakeDB{}, store, zap.NewNop().Sugar())
	m.now = func() time.Time { return testNow }
	return m
}

func receiveUpdate(t *testing.T, sub *Subscription) Update {
	t.Helper()

	select {
	case update, ok := <-sub.Updates():
		require.True(t, ok, "updates channel closed")
		return update
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func pendingEvent(owner int64, scheduledAt time.Time) *model.Event {
	return &model.Event{
		OwnerID:   owner,
		CreatedAt: testNow,
		UpdatedAt: testNow,
		EventCreate: model.EventCreate{
			Target:      model.Target{Type: model.TargetTypeAquarium},
			Type:        model.TaskTypeFeeding,
			Title:       "Feed the tetras",
			ScheduledAt: scheduledAt,
			Priority:    model.PriorityMedium,
		},
	}
}

func TestSubscriptionDeliversInitialSet(t *testing.T) {
	store := newMemStore()
	first := store.put(pendingEvent(1, testNow.Add(time.Hour)))
	store.put(pendingEvent(2, testNow.Add(time.Hour))) // other owner

	m := newTestManager(store)
	sub := m.SubscribeAll(context.Background(), 1)
	defer sub.Stop()

	update := receiveUpdate(t, sub)
	assert.True(t, update.Initial)
	require.Len(t, update.Added, 1)
	assert.Equal(t, first.ID, update.Added[0].ID)
}

func TestSubscriptionDeliversIncrementalChanges(t *testing.T) {
	store := newMemStore()
	existing := store.put(pendingEvent(1, testNow.Add(time.Hour)))

	m := newTestManager(store)
	sub := m.SubscribeAll(context.Background(), 1)
	defer sub.Stop()

	receiveUpdate(t, sub) // initial

	added := store.put(pendingEvent(1, testNow.Add(2*time.Hour)))
	m.EventsChanged(1)

	update := receiveUpdate(t, sub)
	assert.False(t, update.Initial)
	require.Len(t, update.Added, 1)
	assert.Equal(t, added.ID, update.Added[0].ID)
	assert.Empty(t, update.Changed)
	assert.Empty(t, update.Removed)

	changed := *existing
	changed.Title = "Feed the guppies"
	changed.UpdatedAt = testNow.Add(time.Minute)
	store.put(&changed)
	m.EventsChanged(1)

	update = receiveUpdate(t, sub)
	require.Len(t, update.Changed, 1)
	assert.Equal(t, "Feed the guppies", update.Changed[0].Title)

	store.remove(added.ID)
	m.EventsChanged(1)

	update = receiveUpdate(t, sub)
	assert.Equal(t, []int64{added.ID}, update.Removed)
}

func TestSubscriptionIgnoresOtherOwners(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)

	sub := m.SubscribeAll(context.Background(), 1)
	defer sub.Stop()
	receiveUpdate(t, sub)

	store.put(pendingEvent(2, testNow.Add(time.Hour)))
	m.EventsChanged(2)

	select {
	case update := <-sub.Updates():
		t.Fatalf("unexpected update: %+v", update)
	case <-time.After(100 * time.Millisecond):
	}
}

func fishEvent(owner, fishID int64, scheduledAt time.Time) *model.Event {
	e := pendingEvent(owner, scheduledAt)
	e.Target = model.Target{Type: model.TargetTypeFish, FishID: fishID}
	return e
}

func TestTargetSubscriptionFiltersByFish(t *testing.T) {
	store := newMemStore()
	tracked := store.put(fishEvent(1, 3, testNow.Add(time.Hour)))
	store.put(pendingEvent(1, testNow.Add(time.Hour))) // aquarium-wide

	m := newTestManager(store)
	sub := m.SubscribeByTarget(context.Background(), 1, 3)
	defer sub.Stop()

	update := receiveUpdate(t, sub)
	assert.True(t, update.Initial)
	require.Len(t, update.Added, 1)
	assert.Equal(t, tracked.ID, update.Added[0].ID)

	store.put(fishEvent(1, 4, testNow.Add(2*time.Hour)))
	m.EventsChanged(1)

	select {
	case update := <-sub.Updates():
		t.Fatalf("unexpected update for another fish: %+v", update)
	case <-time.After(100 * time.Millisecond):
	}

	added := store.put(fishEvent(1, 3, testNow.Add(3*time.Hour)))
	m.EventsChanged(1)

	update = receiveUpdate(t, sub)
	require.Len(t, update.Added, 1)
	assert.Equal(t, added.ID, update.Added[0].ID)
}

func TestTodaySubscriptionWindowFixedAtSubscribe(t *testing.T) {
	store := newMemStore()
	today := store.put(pendingEvent(1, testNow.Add(2*time.Hour)))

	m := newTestManager(store)
	sub := m.SubscribeToday(context.Background(), 1)
	defer sub.Stop()

	update := receiveUpdate(t, sub)
	require.Len(t, update.Added, 1)
	assert.Equal(t, today.ID, update.Added[0].ID)

	// Scheduled tomorrow, outside the window fixed at subscribe time.
	store.put(pendingEvent(1, testNow.Add(26*time.Hour)))
	m.EventsChanged(1)

	select {
	case update := <-sub.Updates():
		t.Fatalf("unexpected update outside the day window: %+v", update)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOverdueSubscriptionUsesFreshNow(t *testing.T) {
	store := newMemStore()
	overdue := store.put(pendingEvent(1, testNow.Add(-time.Hour)))
	store.put(pendingEvent(1, testNow.Add(time.Hour)))

	m := newTestManager(store)
	sub := m.SubscribeOverdue(context.Background(), 1)
	defer sub.Stop()

	update := receiveUpdate(t, sub)
	require.Len(t, update.Added, 1)
	assert.Equal(t, overdue.ID, update.Added[0].ID)

	// Time moves past the second event; the next recheck picks it up.
	m.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	m.EventsChanged(1)

	update = receiveUpdate(t, sub)
	require.Len(t, update.Added, 1)
}

func TestStatsSubscriptionRecomputesSnapshot(t *testing.T) {
	store := newMemStore()

	for i := 0; i < 6; i++ {
		e := pendingEvent(1, testNow.Add(time.Duration(i+1)*24*time.Hour))
		e.IsCompleted = true
		done := testNow
		e.CompletedAt = &done
		store.put(e)
	}
	for i := 0; i < 3; i++ {
		store.put(pendingEvent(1, testNow.Add(time.Duration(i+2)*24*time.Hour)))
	}
	store.put(pendingEvent(1, testNow.Add(-48*time.Hour)))

	m := newTestManager(store)
	sub := m.SubscribeStats(context.Background(), 1)
	defer sub.Stop()

	update := receiveUpdate(t, sub)
	require.NotNil(t, update.Stats)
	assert.Equal(t, 10, update.Stats.Total)
	assert.Equal(t, 6, update.Stats.Completed)
	assert.Equal(t, 4, update.Stats.Pending)
	assert.Equal(t, 1, update.Stats.Overdue)
	assert.Equal(t, 60, update.Stats.CompletionRate)

	store.put(pendingEvent(1, testNow.Add(5*24*time.Hour)))
	m.EventsChanged(1)

	update = receiveUpdate(t, sub)
	require.NotNil(t, update.Stats)
	assert.Equal(t, 11, update.Stats.Total)
	assert.Equal(t, 55, update.Stats.CompletionRate)
}

func TestStopReleasesSubscription(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)

	sub := m.SubscribeAll(context.Background(), 1)
	receiveUpdate(t, sub)
	require.Equal(t, 1, m.ActiveSubscriptions(1))

	sub.Stop()
	sub.Stop() // safe to repeat

	assert.Equal(t, 0, m.ActiveSubscriptions(1))

	select {
	case _, ok := <-sub.Updates():
		assert.False(t, ok, "updates channel should be closed")
	case <-time.After(waitTimeout):
		t.Fatal("updates channel not closed after stop")
	}

	// A write after stop schedules no recompute for this subscription.
	store.put(pendingEvent(1, testNow.Add(time.Hour)))
	m.EventsChanged(1)
}

func TestContextCancelReleasesSubscription(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)

	ctx, cancel := context.WithCancel(context.Background())
	sub := m.SubscribeAll(ctx, 1)
	receiveUpdate(t, sub)

	cancel()

	select {
	case _, ok := <-sub.Updates():
		assert.False(t, ok, "updates channel should be closed")
	case <-time.After(waitTimeout):
		t.Fatal("updates channel not closed after cancel")
	}

	assert.Equal(t, 0, m.ActiveSubscriptions(1))
}

func TestFilteredSubscriptionCapsLimit(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)

	sub := m.SubscribeFiltered(context.Background(), 1, model.EventsFilter{Limit: 1000})
	defer sub.Stop()

	assert.Equal(t, model.MaxFilterLimit, sub.filter.Limit)
}
