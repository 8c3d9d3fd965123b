// Package streak derives reading streaks and monthly counts from a user's
// completion records. Everything here is a pure function of its input.
package streak

import (
	"slices"
	"time"

	"github.com/limbo/readtogether/pkg/datekey"
	"github.com/limbo/readtogether/pkg/entity"
)

// MaxStreakLookbackDays bounds the backward walk of CurrentStreak. It is a
// safety cap on the loop, not a product rule: a streak longer than this is
// reported as exactly this long.
const MaxStreakLookbackDays = 365

type Calculator struct {
	maxLookback int
}

// New returns a calculator with the given lookback cap. Non-positive values
// fall back to MaxStreakLookbackDays.
func New(maxLookbackDays int) *Calculator {
	if maxLookbackDays <= 0 {
		maxLookbackDays = MaxStreakLookbackDays
	}
	return &Calculator{maxLookback: maxLookbackDays}
}

// completedDays collects the distinct completed day keys, rejecting any
// record whose date is not canonical.
func completedDays(records []entity.CompletionRecord) (map[string]struct{}, error) {
	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		if err := datekey.Validate(r.Date); err != nil {
			return nil, err
		}
		if r.Completed {
			days[r.Date] = struct{}{}
		}
	}
	return days, nil
}

// CurrentStreak counts consecutive completed days ending at asOf.
//
// A streak stays alive through the day it is due: when asOf itself has no
// completion yet, counting starts from the day before, so a reader who has
// not read yet today still sees yesterday's streak. It breaks only after a
// whole day passes without a completion.
func (c *Calculator) CurrentStreak(records []entity.CompletionRecord, asOf string) (int, error) {
	if err := datekey.Validate(asOf); err != nil {
		return 0, err
	}
	days, err := completedDays(records)
	if err != nil {
		return 0, err
	}
	return c.walkBack(days, asOf)
}

func (c *Calculator) walkBack(days map[string]struct{}, asOf string) (int, error) {
	cursor := asOf
	if _, ok := days[cursor]; !ok {
		prev, err := datekey.DaysBefore(cursor, 1)
		if err != nil {
			return 0, err
		}
		cursor = prev
	}
	streak := 0
	for i := 0; i < c.maxLookback; i++ {
		if _, ok := days[cursor]; !ok {
			break
		}
		streak++
		prev, err := datekey.DaysBefore(cursor, 1)
		if err != nil {
			return 0, err
		}
		cursor = prev
	}
	return streak, nil
}

// LongestStreak returns the longest run of consecutive completed days.
func LongestStreak(records []entity.CompletionRecord) (int, error) {
	days, err := completedDays(records)
	if err != nil {
		return 0, err
	}
	return longestRun(days)
}

func longestRun(days map[string]struct{}) (int, error) {
	if len(days) == 0 {
		return 0, nil
	}
	sorted := make([]string, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	// canonical keys sort chronologically as strings
	slices.Sort(sorted)

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		gap, err := datekey.DaysBetween(sorted[i-1], sorted[i])
		if err != nil {
			return 0, err
		}
		if gap == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest, nil
}

// MonthCompleted counts completed days that fall in the given month.
func MonthCompleted(records []entity.CompletionRecord, year int, month time.Month) (int, error) {
	days, err := completedDays(records)
	if err != nil {
		return 0, err
	}
	return monthCount(days, year, month), nil
}

func monthCount(days map[string]struct{}, year int, month time.Month) int {
	count := 0
	for d := range days {
		if datekey.InMonth(d, year, month) {
			count++
		}
	}
	return count
}

// LastActiveDate returns the most recent completed day, or "" when none.
func LastActiveDate(records []entity.CompletionRecord) (string, error) {
	days, err := completedDays(records)
	if err != nil {
		return "", err
	}
	return lastDay(days), nil
}

func lastDay(days map[string]struct{}) string {
	last := ""
	for d := range days {
		if d > last {
			last = d
		}
	}
	return last
}

// Stats derives every DerivedStats field in one pass over records, with asOf
// as "today" and its month as the current month.
func (c *Calculator) Stats(records []entity.CompletionRecord, asOf string) (entity.DerivedStats, error) {
	today, err := datekey.Parse(asOf)
	if err != nil {
		return entity.DerivedStats{}, err
	}
	days, err := completedDays(records)
	if err != nil {
		return entity.DerivedStats{}, err
	}
	current, err := c.walkBack(days, asOf)
	if err != nil {
		return entity.DerivedStats{}, err
	}
	longest, err := longestRun(days)
	if err != nil {
		return entity.DerivedStats{}, err
	}
	return entity.DerivedStats{
		CurrentStreak:  current,
		LongestStreak:  max(longest, current),
		MonthCompleted: monthCount(days, today.Year(), today.Month()),
		LastActiveDate: lastDay(days),
	}, nil
}
