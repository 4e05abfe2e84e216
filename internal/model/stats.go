package model

// StatsSnapshot is derived from one owner's current event set, never persisted.
type StatsSnapshot struct {
	Total          int
	Completed      int
	Pending        int
	Overdue        int
	Today          TodayStats
	CompletionRate int
}

type TodayStats struct {
	Total     int
	Completed int
	Remaining int
}
