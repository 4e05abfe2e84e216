package api

import (
	"fmt"
	"time"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
)

// dateTime (de)serializes timestamps as RFC 3339 strings.
type dateTime time.Time

func (d dateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).UTC().Format(time.RFC3339) + `"`), nil
}

func (d *dateTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid datetime %s", s)
	}

	ts, err := time.Parse(time.RFC3339, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid datetime %s: %w", s, err)
	}

	*d = dateTime(ts)
	return nil
}

type eventResp struct {
	ID             int64     `json:"id"`
	TargetType     string    `json:"target_type"`
	FishID         *int64    `json:"fish_id,omitempty"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	ScheduledAt    dateTime  `json:"scheduled_at"`
	IsCompleted    bool      `json:"is_completed"`
	CompletedAt    *dateTime `json:"completed_at,omitempty"`
	Priority       string    `json:"priority"`
	Recurrence     string    `json:"recurrence,omitempty"`
	NextOccurrence *dateTime `json:"next_occurrence,omitempty"`
	CreatedAt      dateTime  `json:"created_at"`
	UpdatedAt      dateTime  `json:"updated_at"`
}

func mapToEventResp(event *model.Event) (*eventResp, error) {
	resp := &eventResp{
		ID:          event.ID,
		TargetType:  string(event.Target.Type),
		Type:        string(event.Type),
		Title:       event.Title,
		Description: event.Description,
		Notes:       event.Notes,
		ScheduledAt: dateTime(event.ScheduledAt),
		IsCompleted: event.IsCompleted,
		Priority:    string(event.Priority),
		Recurrence:  string(event.Recurrence),
		CreatedAt:   dateTime(event.CreatedAt),
		UpdatedAt:   dateTime(event.UpdatedAt),
	}

	if event.Target.Type == model.TargetTypeFish {
		id := event.Target.FishID
		resp.FishID = &id
	}
	if event.CompletedAt != nil {
		ts := dateTime(*event.CompletedAt)
		resp.CompletedAt = &ts
	}
	if event.NextOccurrence != nil {
		ts := dateTime(*event.NextOccurrence)
		resp.NextOccurrence = &ts
	}

	return resp, nil
}

type statsResp struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	Pending        int            `json:"pending"`
	Overdue        int            `json:"overdue"`
	Today          todayStatsResp `json:"today"`
	CompletionRate int            `json:"completion_rate"`
}

type todayStatsResp struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

func mapToStatsResp(stats *model.StatsSnapshot) *statsResp {
	return &statsResp{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Pending:        stats.Pending,
		Overdue:        stats.Overdue,
		CompletionRate: stats.CompletionRate,
		Today: todayStatsResp{
			Total:     stats.Today.Total,
			Completed: stats.Today.Completed,
			Remaining: stats.Today.Remaining,
		},
	}
}

type userResp struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email"`
}

func mapToUserResp(user *model.User) *userResp {
	return &userResp{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}
}
