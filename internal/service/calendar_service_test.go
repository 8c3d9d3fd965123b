package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limbo/readtogether/internal/cache"
	errorvalues "github.com/limbo/readtogether/internal/error_values"
	"github.com/limbo/readtogether/internal/repository"
	"github.com/limbo/readtogether/internal/repository/mocks"
	"github.com/limbo/readtogether/internal/service"
	"github.com/limbo/readtogether/pkg/entity"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

var (
	today      = "2024-01-12"
	fixedNow   = func() time.Time { return time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC) }
	testGroup  = "g1"
	testUser   = "u1"
	twoMembers = []entity.GroupMember{
		{UserID: "u1", GroupID: "g1", UserName: "Anna"},
		{UserID: "u2", GroupID: "g1", UserName: "Boris"},
	}
)

func newMockedService(ctrl *gomock.Controller, opts ...service.Option) (*service.CalendarService, *mocks.MockCompletionsRepositoryI, *mocks.MockMembersRepositoryI) {
	completionsRepo := mocks.NewMockCompletionsRepositoryI(ctrl)
	membersRepo := mocks.NewMockMembersRepositoryI(ctrl)
	opts = append([]service.Option{service.WithClock(fixedNow), service.WithLocation(time.UTC)}, opts...)
	serv := service.NewCalendarService(completionsRepo, membersRepo, cache.New(cache.WithClock(fixedNow)), opts...)
	return serv, completionsRepo, membersRepo
}

func dayFilter(date string) repository.CompletionFilter {
	return repository.CompletionFilter{UserID: testUser, DateFrom: date, DateTo: date, Limit: 1}
}

type recordingPublisher struct {
	published []*entity.CompletionRecord
}

func (p *recordingPublisher) PublishCompletion(ctx context.Context, record *entity.CompletionRecord) {
	p.published = append(p.published, record)
}

func TestGetUserStats(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	historyFilter := repository.CompletionFilter{UserID: testUser, CompletedOnly: true, Limit: 50}
	testCases := []struct {
		Desc         string
		UserID       string
		Error        error
		Result       *entity.DerivedStats
		MockPrepFunc func(completionsRepo *mocks.MockCompletionsRepositoryI)
	}{
		{
			Desc:   "success",
			UserID: testUser,
			Result: &entity.DerivedStats{CurrentStreak: 3, LongestStreak: 3, MonthCompleted: 3, LastActiveDate: "2024-01-12"},
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI) {
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, historyFilter).Return([]entity.CompletionRecord{
					{ID: "r3", UserID: testUser, GroupID: testGroup, Date: "2024-01-12", Completed: true},
					{ID: "r2", UserID: testUser, GroupID: testGroup, Date: "2024-01-11", Completed: true},
					{ID: "r1", UserID: testUser, GroupID: testGroup, Date: "2024-01-10", Completed: true},
				}, nil)
			},
		},
		{
			Desc:   "no history is a valid zero state",
			UserID: testUser,
			Result: &entity.DerivedStats{},
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI) {
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, historyFilter).Return([]entity.CompletionRecord{}, nil)
			},
		},
		{
			Desc:   "store failure is a fetch error",
			UserID: testUser,
			Error:  errors.New("connection refused"),
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI) {
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, historyFilter).Return(nil, errors.New("connection refused"))
			},
		},
		{
			Desc:   "malformed stored date",
			UserID: testUser,
			Error:  &errorvalues.ValidationError{},
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI) {
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, historyFilter).Return([]entity.CompletionRecord{
					{ID: "r1", UserID: testUser, GroupID: testGroup, Date: "12/01/2024", Completed: true},
				}, nil)
			},
		},
		{
			Desc:         "invalid user id",
			UserID:       "u:1",
			Error:        &errorvalues.ValidationError{},
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI) {},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			serv, completionsRepo, _ := newMockedService(ctrl, service.WithHistoryLimit(50))
			tc.MockPrepFunc(completionsRepo)
			stats, err := serv.GetUserStats(ctx, tc.UserID, testGroup)
			switch {
			case tc.Error == nil:
				require.NoError(t, err)
				assert.Equal(t, tc.Result, stats)
			case errorvalues.IsValidationError(tc.Error):
				assert.True(t, errorvalues.IsValidationError(err), "got %v", err)
				assert.Nil(t, stats)
			default:
				var fetchErr *errorvalues.FetchError
				require.ErrorAs(t, err, &fetchErr)
				assert.ErrorContains(t, err, tc.Error.Error())
				assert.Nil(t, stats)
			}
		})
	}
}

func TestGetUserStatsServedFromCache(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	serv, completionsRepo, _ := newMockedService(ctrl)
	completionsRepo.EXPECT().List(gomock.Any(), testGroup, gomock.Any()).Return([]entity.CompletionRecord{
		{ID: "r1", UserID: testUser, GroupID: testGroup, Date: "2024-01-11", Completed: true},
	}, nil).Times(1)
	ctx := context.Background()
	for range 3 {
		stats, err := serv.GetUserStats(ctx, testUser, testGroup)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.CurrentStreak)
	}
}

func TestGetWeeklyView(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	weekFilter := repository.CompletionFilter{DateFrom: "2024-01-08", DateTo: "2024-01-14"}
	testCases := []struct {
		Desc         string
		WeekStart    string
		Error        bool
		MockPrepFunc func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI)
	}{
		{
			Desc:      "success",
			WeekStart: "2024-01-08",
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil)
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, weekFilter).Return([]entity.CompletionRecord{
					{ID: "r1", UserID: "u1", GroupID: testGroup, Date: "2024-01-09", Completed: true},
					{ID: "r2", UserID: "u2", GroupID: testGroup, Date: "2024-01-09", Completed: true},
					{ID: "r3", UserID: "u1", GroupID: testGroup, Date: "2024-01-10", Completed: true},
					{ID: "r4", UserID: "u2", GroupID: testGroup, Date: "2024-01-10", Completed: false},
				}, nil)
			},
		},
		{
			Desc:      "members failure",
			WeekStart: "2024-01-08",
			Error:     true,
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(nil, errors.New("timeout"))
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, weekFilter).Return([]entity.CompletionRecord{}, nil).AnyTimes()
			},
		},
		{
			Desc:      "entries failure",
			WeekStart: "2024-01-08",
			Error:     true,
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil).AnyTimes()
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, weekFilter).Return(nil, errors.New("timeout"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			serv, completionsRepo, membersRepo := newMockedService(ctrl)
			tc.MockPrepFunc(completionsRepo, membersRepo)
			view, err := serv.GetWeeklyView(ctx, testGroup, tc.WeekStart)
			if tc.Error {
				assert.True(t, errorvalues.IsFetchError(err), "got %v", err)
				assert.Nil(t, view)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12", "2024-01-13", "2024-01-14"}, view.Days)
			assert.Len(t, view.Members, 2)
			assert.Len(t, view.Entries, 4)
			assert.Equal(t, entity.DayCompletion{CompletedCount: 2, TotalMembers: 2, Percentage: 100, IsFullyComplete: true}, view.PercentagesByDay["2024-01-09"])
			assert.Equal(t, entity.DayCompletion{CompletedCount: 1, TotalMembers: 2, Percentage: 50}, view.PercentagesByDay["2024-01-10"])
			assert.Equal(t, entity.DayCompletion{TotalMembers: 2}, view.PercentagesByDay["2024-01-14"])
		})
	}
}

func TestGetWeeklyViewInvalidStart(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	serv, _, _ := newMockedService(ctrl)
	_, err := serv.GetWeeklyView(context.Background(), testGroup, "2024-1-8")
	var validationErr *errorvalues.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "week_start", validationErr.Field)
}

func TestGetMonthlyView(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	serv, completionsRepo, membersRepo := newMockedService(ctrl)
	membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil)
	completionsRepo.EXPECT().List(gomock.Any(), testGroup, repository.CompletionFilter{
		DateFrom: "2024-02-01",
		DateTo:   "2024-02-29",
	}).Return([]entity.CompletionRecord{
		{ID: "r1", UserID: "u1", GroupID: testGroup, Date: "2024-02-29", Completed: true},
	}, nil)

	view, err := serv.GetMonthlyView(context.Background(), testGroup, 2024, time.February)
	require.NoError(t, err)
	assert.Equal(t, "2024-02", view.Month)
	assert.Len(t, view.Days, 29)
	assert.Equal(t, 50, view.PercentagesByDay["2024-02-29"].Percentage)

	_, err = serv.GetMonthlyView(context.Background(), testGroup, 2024, time.Month(13))
	assert.True(t, errorvalues.IsValidationError(err))
}

func TestGetUserEntries(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	serv, completionsRepo, _ := newMockedService(ctrl)
	ctx := context.Background()
	completionsRepo.EXPECT().List(gomock.Any(), testGroup, repository.CompletionFilter{
		UserID:   testUser,
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-31",
	}).Return([]entity.CompletionRecord{
		{ID: "r1", UserID: testUser, GroupID: testGroup, Date: "2024-01-03", Completed: false},
	}, nil).Times(1)

	entries, err := serv.GetUserEntries(ctx, testUser, testGroup, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entries[0].Completed = true

	again, err := serv.GetUserEntries(ctx, testUser, testGroup, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.False(t, again[0].Completed, "callers must not be able to mutate cached entries")

	_, err = serv.GetUserEntries(ctx, testUser, testGroup, "2024-01-31", "2024-01-01")
	assert.True(t, errorvalues.IsValidationError(err))
}

func TestToggleDay(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	stored := &entity.CompletionRecord{ID: "r1", UserID: testUser, GroupID: testGroup, Date: today, Completed: true}
	testCases := []struct {
		Desc         string
		Request      service.ToggleDayRequest
		Error        error
		Published    int
		MockPrepFunc func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI)
	}{
		{
			Desc:      "creates missing day",
			Request:   service.ToggleDayRequest{UserID: testUser, GroupID: testGroup, Date: today, Completed: true},
			Published: 1,
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil)
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, dayFilter(today)).Return([]entity.CompletionRecord{}, nil)
				completionsRepo.EXPECT().Create(gomock.Any(), testUser, testGroup, today, true).Return(stored, nil)
			},
		},
		{
			Desc:      "updates existing day",
			Request:   service.ToggleDayRequest{UserID: testUser, GroupID: testGroup, Date: today, Completed: true},
			Published: 1,
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil)
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, dayFilter(today)).Return([]entity.CompletionRecord{
					{ID: "r1", UserID: testUser, GroupID: testGroup, Date: today, Completed: false},
				}, nil)
				completionsRepo.EXPECT().Update(gomock.Any(), "r1", true).Return(stored, nil)
			},
		},
		{
			Desc:      "concurrent create resolved by update",
			Request:   service.ToggleDayRequest{UserID: testUser, GroupID: testGroup, Date: today, Completed: true},
			Published: 1,
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil)
				gomock.InOrder(
					completionsRepo.EXPECT().List(gomock.Any(), testGroup, dayFilter(today)).Return([]entity.CompletionRecord{}, nil),
					completionsRepo.EXPECT().Create(gomock.Any(), testUser, testGroup, today, true).Return(nil, errorvalues.ErrCompletionExists),
					completionsRepo.EXPECT().List(gomock.Any(), testGroup, dayFilter(today)).Return([]entity.CompletionRecord{
						{ID: "r1", UserID: testUser, GroupID: testGroup, Date: today, Completed: false},
					}, nil),
					completionsRepo.EXPECT().Update(gomock.Any(), "r1", true).Return(stored, nil),
				)
			},
		},
		{
			Desc:    "unknown group",
			Request: service.ToggleDayRequest{UserID: testUser, GroupID: testGroup, Date: today, Completed: true},
			Error:   errorvalues.ErrGroupNotFound,
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil)
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, dayFilter(today)).Return([]entity.CompletionRecord{}, nil)
				completionsRepo.EXPECT().Create(gomock.Any(), testUser, testGroup, today, true).Return(nil, errorvalues.ErrGroupNotFound)
			},
		},
		{
			Desc:    "update failure",
			Request: service.ToggleDayRequest{UserID: testUser, GroupID: testGroup, Date: today, Completed: false},
			Error:   errorvalues.ErrCompletionNotFound,
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil)
				completionsRepo.EXPECT().List(gomock.Any(), testGroup, dayFilter(today)).Return([]entity.CompletionRecord{
					{ID: "r1", UserID: testUser, GroupID: testGroup, Date: today, Completed: true},
				}, nil)
				completionsRepo.EXPECT().Update(gomock.Any(), "r1", false).Return(nil, errorvalues.ErrCompletionNotFound)
			},
		},
		{
			Desc:    "not a member",
			Request: service.ToggleDayRequest{UserID: "u9", GroupID: testGroup, Date: today, Completed: true},
			Error:   errorvalues.ErrNotGroupMember,
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil).Times(2)
			},
		},
		{
			Desc:    "malformed date",
			Request: service.ToggleDayRequest{UserID: testUser, GroupID: testGroup, Date: "2024-02-30", Completed: true},
			Error:   &errorvalues.ValidationError{},
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
			},
		},
		{
			Desc:    "future date",
			Request: service.ToggleDayRequest{UserID: testUser, GroupID: testGroup, Date: "2024-01-20", Completed: true},
			Error:   &errorvalues.ValidationError{},
			MockPrepFunc: func(completionsRepo *mocks.MockCompletionsRepositoryI, membersRepo *mocks.MockMembersRepositoryI) {
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			publisher := &recordingPublisher{}
			serv, completionsRepo, membersRepo := newMockedService(ctrl, service.WithPublisher(publisher))
			tc.MockPrepFunc(completionsRepo, membersRepo)
			record, err := serv.ToggleDay(ctx, tc.Request)
			switch {
			case tc.Error == nil:
				require.NoError(t, err)
				assert.Equal(t, stored, record)
			case errorvalues.IsValidationError(tc.Error):
				assert.True(t, errorvalues.IsValidationError(err), "got %v", err)
			default:
				assert.ErrorIs(t, err, tc.Error)
				assert.Nil(t, record)
			}
			assert.Len(t, publisher.published, tc.Published)
		})
	}
}

func TestPurgeGroup(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	serv, completionsRepo, _ := newMockedService(ctrl)
	ctx := context.Background()

	completionsRepo.EXPECT().DeleteByGroup(gomock.Any(), testGroup).Return(int64(7), nil)
	deleted, err := serv.PurgeGroup(ctx, testGroup)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)

	completionsRepo.EXPECT().DeleteByGroup(gomock.Any(), testGroup).Return(int64(0), errors.New("db error"))
	_, err = serv.PurgeGroup(ctx, testGroup)
	assert.True(t, errorvalues.IsFetchError(err))

	_, err = serv.PurgeGroup(ctx, "")
	assert.True(t, errorvalues.IsValidationError(err))
}

func TestEnsureMember(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		Desc         string
		UserID       string
		Error        error
		FetchError   bool
		MockPrepFunc func(membersRepo *mocks.MockMembersRepositoryI)
	}{
		{
			Desc:   "member",
			UserID: testUser,
			MockPrepFunc: func(membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil)
			},
		},
		{
			Desc:   "stranger",
			UserID: "u9",
			Error:  errorvalues.ErrNotGroupMember,
			MockPrepFunc: func(membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(twoMembers, nil).Times(2)
			},
		},
		{
			Desc:       "members unavailable",
			UserID:     testUser,
			FetchError: true,
			MockPrepFunc: func(membersRepo *mocks.MockMembersRepositoryI) {
				membersRepo.EXPECT().ListByGroup(gomock.Any(), testGroup).Return(nil, errors.New("db error"))
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			serv, _, membersRepo := newMockedService(ctrl)
			tc.MockPrepFunc(membersRepo)
			err := serv.EnsureMember(context.Background(), tc.UserID, testGroup)
			switch {
			case tc.FetchError:
				assert.True(t, errorvalues.IsFetchError(err))
			case tc.Error != nil:
				assert.ErrorIs(t, err, tc.Error)
			default:
				assert.NoError(t, err)
			}
		})
	}

	ctrl := gomock.NewController(t)
	serv, _, _ := newMockedService(ctrl)
	err := serv.EnsureMember(context.Background(), "", testGroup)
	assert.True(t, errorvalues.IsValidationError(err))
}
