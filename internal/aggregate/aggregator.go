package aggregate

import (
	"math"

	"github.com/limbo/readtogether/pkg/entity"
)

// DayCompletion summarizes one day for a group. Only current members count:
// records of users missing from members are ignored.
func DayCompletion(members []entity.GroupMember, recordsForDay map[string]entity.CompletionRecord) entity.DayCompletion {
	total := len(members)
	completed := 0
	for _, m := range members {
		if r, ok := recordsForDay[m.UserID]; ok && r.Completed {
			completed++
		}
	}
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return entity.DayCompletion{
		CompletedCount:  completed,
		TotalMembers:    total,
		Percentage:      percentage,
		IsFullyComplete: total > 0 && completed == total,
	}
}

// IndexByDay groups records as day -> user -> record. With duplicates the
// completed one wins.
func IndexByDay(records []entity.CompletionRecord) map[string]map[string]entity.CompletionRecord {
	index := make(map[string]map[string]entity.CompletionRecord)
	for _, r := range records {
		byUser, ok := index[r.Date]
		if !ok {
			byUser = make(map[string]entity.CompletionRecord)
			index[r.Date] = byUser
		}
		if prev, ok := byUser[r.UserID]; ok && prev.Completed {
			continue
		}
		byUser[r.UserID] = r
	}
	return index
}

// PercentagesByDay applies DayCompletion to every day in days.
func PercentagesByDay(days []string, members []entity.GroupMember, records []entity.CompletionRecord) map[string]entity.DayCompletion {
	index := IndexByDay(records)
	result := make(map[string]entity.DayCompletion, len(days))
	for _, day := range days {
		result[day] = DayCompletion(members, index[day])
	}
	return result
}
