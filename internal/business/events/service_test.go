package events

import (
	"context"
	"testing"
	"time"

	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memEventsRepository, *fakeFishRegistry, *recordingNotifier) {
	t.Helper()

	repo := newMemEventsRepository()
	registry := &fakeFishRegistry{owned: map[int64]int64{}}
	notifier := &recordingNotifier{}

	s := NewService(fakeDB{}, repo, registry, notifier)
	s.now = func() time.Time { return testNow }

	return s, repo, registry, notifier
}

func validCreate() *model.EventCreate {
	return &model.EventCreate{
		Target:      model.Target{Type: model.TargetTypeAquarium},
		Type:        model.TaskTypeCleaning,
		Title:       "Clean the filter",
		ScheduledAt: testNow.Add(24 * time.Hour),
	}
}

func TestCreateDefaultsAndPersists(t *testing.T) {
	s, repo, _, notifier := newTestService(t)

	info := validCreate()
	info.Title = "  Clean the filter  "

	event, err := s.Create(context.Background(), 1, info)
	require.NoError(t, err)

	assert.Equal(t, "Clean the filter", event.Title)
	assert.Equal(t, model.PriorityMedium, event.Priority)
	assert.False(t, event.IsCompleted)
	assert.Nil(t, event.CompletedAt)
	assert.Nil(t, event.NextOccurrence)
	assert.Equal(t, testNow, event.CreatedAt)
	assert.Equal(t, testNow, event.UpdatedAt)

	stored, err := repo.GetEventByID(context.Background(), nil, event.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.OwnerID)

	assert.Equal(t, []int64{1}, notifier.calls())
}

func TestCreateComputesNextOccurrence(t *testing.T) {
	s, _, _, _ := newTestService(t)

	info := validCreate()
	info.Recurrence = model.RecurrenceWeekly

	event, err := s.Create(context.Background(), 1, info)
	require.NoError(t, err)

	require.NotNil(t, event.NextOccurrence)
	assert.Equal(t, info.ScheduledAt.Add(7*24*time.Hour), *event.NextOccurrence)
}

func TestCreateFishTargetMustBeOwned(t *testing.T) {
	s, repo, registry, notifier := newTestService(t)
	registry.owned[5] = 2 // someone else's fish

	info := validCreate()
	info.Target = model.Target{Type: model.TargetTypeFish, FishID: 5}

	_, err := s.Create(context.Background(), 1, info)
	assert.ErrorIs(t, err, model.ErrTargetNotFound)

	events, err := repo.GetEvents(context.Background(), nil, model.EventsFilter{OwnerID: 1})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Empty(t, notifier.calls())
}

func TestCreateAquariumMedicationCoherence(t *testing.T) {
	s, repo, registry, _ := newTestService(t)
	registry.owned[5] = 1

	info := validCreate()
	info.Target = model.Target{Type: model.TargetTypeFish, FishID: 5}
	info.Type = model.TaskTypeAquariumMedication

	_, err := s.Create(context.Background(), 1, info)

	validationErr := &model.ValidationError{}
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Violations, "aquarium medication must target the aquarium")

	events, err := repo.GetEvents(context.Background(), nil, model.EventsFilter{OwnerID: 1})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCreateCollectsAllViolations(t *testing.T) {
	s, _, _, _ := newTestService(t)

	_, err := s.Create(context.Background(), 1, &model.EventCreate{
		Target:      model.Target{Type: "plant"},
		Type:        "snack",
		Title:       "x",
		ScheduledAt: time.Date(2019, time.May, 1, 0, 0, 0, 0, time.UTC),
	})

	validationErr := &model.ValidationError{}
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{
		"target type must be fish or aquarium",
		"unknown task type",
		"title must be between 2 and 100 characters",
		"scheduled at must not be before 2020",
	}, validationErr.Violations)
}

func TestUpdateRecomputesNextOccurrence(t *testing.T) {
	s, _, _, _ := newTestService(t)

	info := validCreate()
	info.Recurrence = model.RecurrenceDaily
	event, err := s.Create(context.Background(), 1, info)
	require.NoError(t, err)

	newSchedule := testNow.Add(48 * time.Hour)
	updated, err := s.Update(context.Background(), 1, event.ID, &model.EventUpdate{ScheduledAt: &newSchedule})
	require.NoError(t, err)

	require.NotNil(t, updated.NextOccurrence)
	assert.Equal(t, newSchedule.Add(24*time.Hour), *updated.NextOccurrence)
}

func TestUpdateClearingRecurrenceClearsNextOccurrence(t *testing.T) {
	s, _, _, _ := newTestService(t)

	info := validCreate()
	info.Recurrence = model.RecurrenceDaily
	event, err := s.Create(context.Background(), 1, info)
	require.NoError(t, err)

	cleared := model.RecurrenceNone
	updated, err := s.Update(context.Background(), 1, event.ID, &model.EventUpdate{Recurrence: &cleared})
	require.NoError(t, err)

	assert.Nil(t, updated.NextOccurrence)
}

func TestUpdateOtherOwnerIsNotFound(t *testing.T) {
	s, _, _, _ := newTestService(t)

	event, err := s.Create(context.Background(), 1, validCreate())
	require.NoError(t, err)

	title := "hijacked"
	_, err = s.Update(context.Background(), 2, event.ID, &model.EventUpdate{Title: &title})
	assert.ErrorIs(t, err, model.ErrNoRecord)

	stored, err := s.GetEvent(context.Background(), 1, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clean the filter", stored.Title)
}

func TestUpdateFishIDOnlyRetargets(t *testing.T) {
	s, _, registry, _ := newTestService(t)
	registry.owned[5] = 1
	registry.owned[7] = 1

	info := validCreate()
	info.Target = model.Target{Type: model.TargetTypeFish, FishID: 5}
	info.Type = model.TaskTypeFeeding
	event, err := s.Create(context.Background(), 1, info)
	require.NoError(t, err)

	updated, err := s.Update(context.Background(), 1, event.ID, &model.EventUpdate{
		Target: &model.Target{FishID: 7},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Target{Type: model.TargetTypeFish, FishID: 7}, updated.Target)

	_, err = s.Update(context.Background(), 1, event.ID, &model.EventUpdate{
		Target: &model.Target{FishID: 9},
	})
	assert.ErrorIs(t, err, model.ErrTargetNotFound)
}

func TestUpdateTargetRequiresFishID(t *testing.T) {
	s, _, _, _ := newTestService(t)

	event, err := s.Create(context.Background(), 1, validCreate())
	require.NoError(t, err)

	_, err = s.Update(context.Background(), 1, event.ID, &model.EventUpdate{
		Target: &model.Target{Type: model.TargetTypeFish},
	})
	assert.ErrorIs(t, err, model.ErrTargetRequired)
}

func TestDeleteTwiceIsNotFound(t *testing.T) {
	s, _, _, _ := newTestService(t)

	event, err := s.Create(context.Background(), 1, validCreate())
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), 1, event.ID))
	assert.ErrorIs(t, s.Delete(context.Background(), 1, event.ID), model.ErrNoRecord)
}

func TestCompleteMarksAndSpawnsNext(t *testing.T) {
	s, repo, _, _ := newTestService(t)

	info := validCreate()
	info.Recurrence = model.RecurrenceDaily
	info.Notes = "old notes"
	event, err := s.Create(context.Background(), 1, info)
	require.NoError(t, err)
	expectedSpawnAt := *event.NextOccurrence

	completed, err := s.Complete(context.Background(), 1, event.ID, "  all done  ")
	require.NoError(t, err)

	assert.True(t, completed.IsCompleted)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, testNow, *completed.CompletedAt)
	assert.Equal(t, "all done", completed.Notes)

	all, err := repo.GetEvents(context.Background(), nil, model.EventsFilter{OwnerID: 1})
	require.NoError(t, err)
	require.Len(t, all, 2)

	var spawn *model.Event
	for _, e := range all {
		if e.ID != event.ID {
			spawn = e
		}
	}
	require.NotNil(t, spawn)
	assert.Equal(t, expectedSpawnAt, spawn.ScheduledAt)
	assert.False(t, spawn.IsCompleted)
	assert.Nil(t, spawn.CompletedAt)
	assert.Empty(t, spawn.Notes)
	require.NotNil(t, spawn.NextOccurrence)
	assert.Equal(t, expectedSpawnAt.Add(24*time.Hour), *spawn.NextOccurrence)
}

func TestCompleteWithoutRecurrenceSpawnsNothing(t *testing.T) {
	s, repo, _, _ := newTestService(t)

	event, err := s.Create(context.Background(), 1, validCreate())
	require.NoError(t, err)

	_, err = s.Complete(context.Background(), 1, event.ID, "")
	require.NoError(t, err)

	all, err := repo.GetEvents(context.Background(), nil, model.EventsFilter{OwnerID: 1})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// staleReadRepository serves a fixed snapshot on reads while writes go to
// the live store, like a racing caller whose read predates another's write.
type staleReadRepository struct {
	*memEventsRepository
	stale model.Event
}

func (r *staleReadRepository) GetEventByID(_ context.Context, _ database.Queryable, _, _ int64) (*model.Event, error) {
	copied := r.stale
	return &copied, nil
}

func TestCompleteRechecksStateAtWrite(t *testing.T) {
	s, repo, _, notifier := newTestService(t)

	event, err := s.Create(context.Background(), 1, validCreate())
	require.NoError(t, err)

	_, err = s.Complete(context.Background(), 1, event.ID, "")
	require.NoError(t, err)

	// Second completion whose read saw the event before the first one won.
	s.events = &staleReadRepository{memEventsRepository: repo, stale: *event}

	_, err = s.Complete(context.Background(), 1, event.ID, "")
	assert.ErrorIs(t, err, model.ErrAlreadyCompleted)
	assert.Len(t, notifier.calls(), 2)
}

func TestCompleteTwiceIsConflict(t *testing.T) {
	s, _, _, _ := newTestService(t)

	event, err := s.Create(context.Background(), 1, validCreate())
	require.NoError(t, err)

	_, err = s.Complete(context.Background(), 1, event.ID, "")
	require.NoError(t, err)

	_, err = s.Complete(context.Background(), 1, event.ID, "")
	assert.ErrorIs(t, err, model.ErrAlreadyCompleted)
}

func TestMonthlyCompletionChain(t *testing.T) {
	s, repo, _, _ := newTestService(t)

	info := validCreate()
	info.ScheduledAt = time.Date(2024, time.January, 31, 8, 0, 0, 0, time.UTC)
	info.Recurrence = model.RecurrenceMonthly

	event, err := s.Create(context.Background(), 1, info)
	require.NoError(t, err)

	// RFC 5545 month arithmetic: February has no 31st, so the chain
	// continues on March 31.
	require.NotNil(t, event.NextOccurrence)
	assert.Equal(t, time.Date(2024, time.March, 31, 8, 0, 0, 0, time.UTC), *event.NextOccurrence)

	_, err = s.Complete(context.Background(), 1, event.ID, "")
	require.NoError(t, err)

	pending := false
	spawns, err := repo.GetEvents(context.Background(), nil, model.EventsFilter{OwnerID: 1, IsCompleted: &pending})
	require.NoError(t, err)
	require.Len(t, spawns, 1)
	assert.Equal(t, time.Date(2024, time.March, 31, 8, 0, 0, 0, time.UTC), spawns[0].ScheduledAt)
}
