package service

import (
	"context"
	"errors"
	"log"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/limbo/readtogether/internal/aggregate"
	"github.com/limbo/readtogether/internal/cache"
	errorvalues "github.com/limbo/readtogether/internal/error_values"
	"github.com/limbo/readtogether/internal/repository"
	"github.com/limbo/readtogether/internal/streak"
	"github.com/limbo/readtogether/pkg/datekey"
	"github.com/limbo/readtogether/pkg/entity"
)

const (
	// DefaultHistoryLimit bounds how many completed records feed a user's stats.
	DefaultHistoryLimit = 500
	// DefaultFetchTimeout bounds a shared store read, whoever is waiting on it.
	DefaultFetchTimeout = 15 * time.Second
)

type CalendarService struct {
	completionsRepo repository.CompletionsRepositoryI
	membersRepo     repository.MembersRepositoryI
	cache           *cache.ResultCache
	calc            *streak.Calculator
	publisher       CompletionPublisherI
	flights         singleflight.Group

	now          func() time.Time
	loc          *time.Location
	historyLimit int
	fetchTimeout time.Duration
	statsTTL     time.Duration
	entriesTTL   time.Duration
	logger       *zap.Logger
}

type Option func(*CalendarService)

func WithCalculator(c *streak.Calculator) Option {
	return func(s *CalendarService) {
		s.calc = c
	}
}

func WithPublisher(p CompletionPublisherI) Option {
	return func(s *CalendarService) {
		s.publisher = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *CalendarService) {
		s.now = now
	}
}

// WithLocation sets the calendar whose day boundaries define "today".
func WithLocation(loc *time.Location) Option {
	return func(s *CalendarService) {
		s.loc = loc
	}
}

func WithHistoryLimit(n int) Option {
	return func(s *CalendarService) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

func WithFetchTimeout(d time.Duration) Option {
	return func(s *CalendarService) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

func WithTTLs(stats, entries time.Duration) Option {
	return func(s *CalendarService) {
		if stats > 0 {
			s.statsTTL = stats
		}
		if entries > 0 {
			s.entriesTTL = entries
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *CalendarService) {
		s.logger = l
	}
}

func NewCalendarService(completionsRepo repository.CompletionsRepositoryI, membersRepo repository.MembersRepositoryI, resultCache *cache.ResultCache, opts ...Option) *CalendarService {
	if completionsRepo == nil || membersRepo == nil {
		log.Fatal("on calendar service provided nil repos")
	}
	s := &CalendarService{
		completionsRepo: completionsRepo,
		membersRepo:     membersRepo,
		cache:           resultCache,
		now:             time.Now,
		loc:             time.Local,
		historyLimit:    DefaultHistoryLimit,
		fetchTimeout:    DefaultFetchTimeout,
		statsTTL:        cache.DefaultStatsTTL,
		entriesTTL:      cache.DefaultEntriesTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.New()
	}
	if s.calc == nil {
		s.calc = streak.New(streak.MaxStreakLookbackDays)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *CalendarService) today() string {
	return datekey.Today(s.now(), s.loc)
}

// cachedFetch serves key from the cache or runs fetch once for all concurrent
// callers of the same key. Callers that arrive after an invalidation never
// join a fetch that started before it, and such a fetch is not stored.
//
// The shared fetch runs detached from any single caller: a caller whose ctx
// ends stops waiting, the others keep theirs.
func cachedFetch[T any](ctx context.Context, s *CalendarService, key cache.Key, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := s.cache.Get(ctx, key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	gen := s.cache.Generation(key)
	ch := s.flights.DoChan(key.String()+"@"+gen.String(), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		result, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		s.cache.SetIfCurrent(fetchCtx, key, result, ttl, gen)
		return result, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (s *CalendarService) members(ctx context.Context, groupID string) ([]entity.GroupMember, error) {
	key := cache.Key{Kind: cache.KindMembers, GroupID: groupID}
	return cachedFetch(ctx, s, key, s.entriesTTL, func(ctx context.Context) ([]entity.GroupMember, error) {
		members, err := s.membersRepo.ListByGroup(ctx, groupID)
		if err != nil {
			return nil, errorvalues.NewFetchError("list members", err)
		}
		return members, nil
	})
}

// groupWindow loads members and the group's entries for days concurrently and
// derives per-day completion.
func (s *CalendarService) groupWindow(ctx context.Context, groupID string, days []string) ([]entity.GroupMember, []entity.CompletionRecord, map[string]entity.DayCompletion, error) {
	var (
		members []entity.GroupMember
		entries []entity.CompletionRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.members(gctx, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.completionsRepo.List(gctx, groupID, repository.CompletionFilter{
			DateFrom: days[0],
			DateTo:   days[len(days)-1],
		})
		if err != nil {
			return errorvalues.NewFetchError("list completions", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return members, entries, aggregate.PercentagesByDay(days, members, entries), nil
}

func (s *CalendarService) GetWeeklyView(ctx context.Context, groupID, weekStart string) (*entity.WeeklyView, error) {
	if err := validateRequest(WeekRequest{GroupID: groupID, WeekStart: weekStart}); err != nil {
		return nil, err
	}
	key := cache.Key{Kind: cache.KindWeek, GroupID: groupID, Period: weekStart}
	view, err := cachedFetch(ctx, s, key, s.entriesTTL, func(ctx context.Context) (*entity.WeeklyView, error) {
		days, err := datekey.WeekDays(weekStart)
		if err != nil {
			return nil, err
		}
		members, entries, percentages, err := s.groupWindow(ctx, groupID, days)
		if err != nil {
			return nil, err
		}
		return &entity.WeeklyView{
			GroupID:          groupID,
			WeekStart:        weekStart,
			Days:             days,
			Members:          members,
			Entries:          entries,
			PercentagesByDay: percentages,
		}, nil
	})
	if err != nil {
		s.logger.Debug("weekly view failed", zap.String("group_id", groupID), zap.Error(err))
		return nil, err
	}
	return cloneWeek(view), nil
}

func (s *CalendarService) GetMonthlyView(ctx context.Context, groupID string, year int, month time.Month) (*entity.MonthlyView, error) {
	if err := validateRequest(MonthRequest{GroupID: groupID, Year: year, Month: int(month)}); err != nil {
		return nil, err
	}
	period := datekey.MonthKey(year, month)
	key := cache.Key{Kind: cache.KindMonth, GroupID: groupID, Period: period}
	view, err := cachedFetch(ctx, s, key, s.entriesTTL, func(ctx context.Context) (*entity.MonthlyView, error) {
		first, last := datekey.MonthBounds(year, month)
		days, err := datekey.Range(first, last)
		if err != nil {
			return nil, err
		}
		members, entries, percentages, err := s.groupWindow(ctx, groupID, days)
		if err != nil {
			return nil, err
		}
		return &entity.MonthlyView{
			GroupID:          groupID,
			Month:            period,
			Days:             days,
			Members:          members,
			Entries:          entries,
			PercentagesByDay: percentages,
		}, nil
	})
	if err != nil {
		s.logger.Debug("monthly view failed", zap.String("group_id", groupID), zap.Error(err))
		return nil, err
	}
	return cloneMonth(view), nil
}

// history returns the user's most recent completed records, bounded by historyLimit.
func (s *CalendarService) history(ctx context.Context, userID, groupID string) ([]entity.CompletionRecord, error) {
	key := cache.Key{Kind: cache.KindHistory, UserID: userID, GroupID: groupID}
	return cachedFetch(ctx, s, key, s.entriesTTL, func(ctx context.Context) ([]entity.CompletionRecord, error) {
		records, err := s.completionsRepo.List(ctx, groupID, repository.CompletionFilter{
			UserID:        userID,
			CompletedOnly: true,
			Limit:         s.historyLimit,
		})
		if err != nil {
			return nil, errorvalues.NewFetchError("list user history", err)
		}
		return records, nil
	})
}

func (s *CalendarService) GetUserStats(ctx context.Context, userID, groupID string) (*entity.DerivedStats, error) {
	if err := validateRequest(StatsRequest{UserID: userID, GroupID: groupID}); err != nil {
		return nil, err
	}
	today := s.today()
	key := cache.Key{Kind: cache.KindStats, UserID: userID, GroupID: groupID, Period: today}
	stats, err := cachedFetch(ctx, s, key, s.statsTTL, func(ctx context.Context) (entity.DerivedStats, error) {
		records, err := s.history(ctx, userID, groupID)
		if err != nil {
			return entity.DerivedStats{}, err
		}
		return s.calc.Stats(records, today)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *CalendarService) GetUserEntries(ctx context.Context, userID, groupID, from, to string) ([]entity.CompletionRecord, error) {
	if err := validateRequest(EntriesRequest{UserID: userID, GroupID: groupID, From: from, To: to}); err != nil {
		return nil, err
	}
	if span, _ := datekey.DaysBetween(from, to); span < 0 {
		return nil, &errorvalues.ValidationError{Field: "to", Value: to, Reason: "must not be before from"}
	}
	key := cache.Key{Kind: cache.KindUserEntries, UserID: userID, GroupID: groupID, Period: from + ".." + to}
	records, err := cachedFetch(ctx, s, key, s.entriesTTL, func(ctx context.Context) ([]entity.CompletionRecord, error) {
		records, err := s.completionsRepo.List(ctx, groupID, repository.CompletionFilter{
			UserID:   userID,
			DateFrom: from,
			DateTo:   to,
		})
		if err != nil {
			return nil, errorvalues.NewFetchError("list user entries", err)
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(records), nil
}

func (s *CalendarService) ToggleDay(ctx context.Context, req ToggleDayRequest) (*entity.CompletionRecord, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	// A reader ahead of the server's timezone may already be on tomorrow.
	if ahead, _ := datekey.DaysBetween(s.today(), req.Date); ahead > 1 {
		return nil, &errorvalues.ValidationError{Field: "date", Value: req.Date, Reason: "is in the future"}
	}
	if err := s.checkMember(ctx, req.UserID, req.GroupID); err != nil {
		return nil, err
	}

	record, err := s.upsert(ctx, req)
	if err != nil {
		s.logger.Warn("toggling day failed",
			zap.String("user_id", req.UserID),
			zap.String("group_id", req.GroupID),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		return nil, err
	}
	removed := s.cache.InvalidateUserGroup(ctx, req.UserID, req.GroupID)
	s.logger.Debug("day toggled",
		zap.String("user_id", req.UserID),
		zap.String("group_id", req.GroupID),
		zap.String("date", req.Date),
		zap.Bool("completed", record.Completed),
		zap.Int("invalidated", removed),
	)
	if s.publisher != nil {
		s.publisher.PublishCompletion(ctx, record)
	}
	return record, nil
}

// EnsureMember reports ErrNotGroupMember unless userID belongs to groupID.
func (s *CalendarService) EnsureMember(ctx context.Context, userID, groupID string) error {
	if err := validateRequest(StatsRequest{UserID: userID, GroupID: groupID}); err != nil {
		return err
	}
	return s.checkMember(ctx, userID, groupID)
}

// checkMember consults the cached member list first and the store only when
// the user is missing from it, so a member who joined recently can write.
func (s *CalendarService) checkMember(ctx context.Context, userID, groupID string) error {
	isMember := func(members []entity.GroupMember) bool {
		return slices.ContainsFunc(members, func(m entity.GroupMember) bool { return m.UserID == userID })
	}
	members, err := s.members(ctx, groupID)
	if err != nil {
		return err
	}
	if isMember(members) {
		return nil
	}
	fresh, err := s.membersRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return errorvalues.NewFetchError("list members", err)
	}
	if !isMember(fresh) {
		return errorvalues.ErrNotGroupMember
	}
	s.cache.Set(ctx, cache.Key{Kind: cache.KindMembers, GroupID: groupID}, fresh, s.entriesTTL)
	return nil
}

// upsert updates the existing record of the day or creates it. A concurrent
// create for the same day is resolved by updating the winner's record.
func (s *CalendarService) upsert(ctx context.Context, req ToggleDayRequest) (*entity.CompletionRecord, error) {
	existing, err := s.findDay(ctx, req)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		record, err := s.completionsRepo.Create(ctx, req.UserID, req.GroupID, req.Date, req.Completed)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, errorvalues.ErrCompletionExists) {
			return nil, errorvalues.NewFetchError("create completion", err)
		}
		existing, err = s.findDay(ctx, req)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errorvalues.NewFetchError("create completion", errorvalues.ErrCompletionNotFound)
		}
	}
	record, err := s.completionsRepo.Update(ctx, existing.ID, req.Completed)
	if err != nil {
		return nil, errorvalues.NewFetchError("update completion", err)
	}
	return record, nil
}

func (s *CalendarService) findDay(ctx context.Context, req ToggleDayRequest) (*entity.CompletionRecord, error) {
	records, err := s.completionsRepo.List(ctx, req.GroupID, repository.CompletionFilter{
		UserID:   req.UserID,
		DateFrom: req.Date,
		DateTo:   req.Date,
		Limit:    1,
	})
	if err != nil {
		return nil, errorvalues.NewFetchError("find completion", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (s *CalendarService) PurgeGroup(ctx context.Context, groupID string) (int64, error) {
	if err := validateRequest(GroupRequest{GroupID: groupID}); err != nil {
		return 0, err
	}
	deleted, err := s.completionsRepo.DeleteByGroup(ctx, groupID)
	if err != nil {
		return 0, errorvalues.NewFetchError("delete group completions", err)
	}
	removed := s.cache.InvalidateGroup(ctx, groupID)
	s.logger.Info("group completions purged",
		zap.String("group_id", groupID),
		zap.Int64("deleted", deleted),
		zap.Int("invalidated", removed),
	)
	return deleted, nil
}

func cloneWeek(v *entity.WeeklyView) *entity.WeeklyView {
	c := *v
	c.Days = slices.Clone(v.Days)
	c.Members = slices.Clone(v.Members)
	c.Entries = slices.Clone(v.Entries)
	c.PercentagesByDay = maps.Clone(v.PercentagesByDay)
	return &c
}

func cloneMonth(v *entity.MonthlyView) *entity.MonthlyView {
	c := *v
	c.Days = slices.Clone(v.Days)
	c.Members = slices.Clone(v.Members)
	c.Entries = slices.Clone(v.Entries)
	c.PercentagesByDay = maps.Clone(v.PercentagesByDay)
	return &c
}
