package service

import (
	"context"
	"time"

	"github.com/limbo/readtogether/pkg/entity"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/limbo/readtogether/internal/service CalendarServiceI

type ToggleDayRequest struct {
	UserID    string `validate:"required,entity_id"`
	GroupID   string `validate:"required,entity_id"`
	Date      string `validate:"required,datekey"`
	Completed bool
}

type WeekRequest struct {
	GroupID   string `validate:"required,entity_id"`
	WeekStart string `validate:"required,datekey"`
}

type MonthRequest struct {
	GroupID string `validate:"required,entity_id"`
	Year    int    `validate:"min=1,max=9999"`
	Month   int    `validate:"min=1,max=12"`
}

type EntriesRequest struct {
	UserID  string `validate:"required,entity_id"`
	GroupID string `validate:"required,entity_id"`
	From    string `validate:"required,datekey"`
	To      string `validate:"required,datekey"`
}

type StatsRequest struct {
	UserID  string `validate:"required,entity_id"`
	GroupID string `validate:"required,entity_id"`
}

type GroupRequest struct {
	GroupID string `validate:"required,entity_id"`
}

type CalendarServiceI interface {
	// Members, the week's entries and per-day group completion for the 7 days starting at weekStart
	GetWeeklyView(ctx context.Context, groupID, weekStart string) (*entity.WeeklyView, error)
	// Same as GetWeeklyView over every day of the month
	GetMonthlyView(ctx context.Context, groupID string, year int, month time.Month) (*entity.MonthlyView, error)
	// Streaks and month count of the user in the group, as of today
	GetUserStats(ctx context.Context, userID, groupID string) (*entity.DerivedStats, error)
	// User's own records in [from, to]
	GetUserEntries(ctx context.Context, userID, groupID, from, to string) ([]entity.CompletionRecord, error)
	// Sets completed flag of the user's day, creating the record if needed. Returns the stored record
	ToggleDay(ctx context.Context, req ToggleDayRequest) (*entity.CompletionRecord, error)
	// Deletes every record of the group. Called when the group itself is deleted
	PurgeGroup(ctx context.Context, groupID string) (int64, error)
	// Fails with ErrNotGroupMember unless the user belongs to the group
	EnsureMember(ctx context.Context, userID, groupID string) error
}

// CompletionPublisherI announces stored completions. Implementations must not block on failure.
type CompletionPublisherI interface {
	PublishCompletion(ctx context.Context, record *entity.CompletionRecord)
}
