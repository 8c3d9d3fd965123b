package entity

import (
	"time"
)

// CompletionRecord marks one user's reading for one day in one group.
// Date is always a canonical YYYY-MM-DD key.
type CompletionRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	GroupID   string    `json:"group_id"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

type GroupMember struct {
	UserID    string    `json:"user_id"`
	GroupID   string    `json:"group_id"`
	UserName  string    `json:"user_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

type DerivedStats struct {
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	MonthCompleted int    `json:"month_completed"`
	LastActiveDate string `json:"last_active_date,omitempty"`
}

type DayCompletion struct {
	CompletedCount  int  `json:"completed_count"`
	TotalMembers    int  `json:"total_members"`
	Percentage      int  `json:"percentage"`
	IsFullyComplete bool `json:"is_fully_complete"`
}

type WeeklyView struct {
	GroupID          string                   `json:"group_id"`
	WeekStart        string                   `json:"week_start"`
	Days             []string                 `json:"days"`
	Members          []GroupMember            `json:"members"`
	Entries          []CompletionRecord       `json:"entries"`
	PercentagesByDay map[string]DayCompletion `json:"percentages_by_day"`
}

type MonthlyView struct {
	GroupID          string                   `json:"group_id"`
	Month            string                   `json:"month"`
	Days             []string                 `json:"days"`
	Members          []GroupMember            `json:"members"`
	Entries          []CompletionRecord       `json:"entries"`
	PercentagesByDay map[string]DayCompletion `json:"percentages_by_day"`
}
