package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/daily/pkg/bullet"
	"tableflip.dev/daily/pkg/timeutil"
)

// UserStat counts the reports written by one user.
type UserStat struct {
	User    string `json:"user"`
	Dept    string `json:"dept"`
	Reports int    `json:"reports"`
	Items   int    `json:"items"`
}

// StatsResult summarizes history in a date window.
type StatsResult struct {
	Since   time.Time  `json:"since,omitempty"`
	Until   time.Time  `json:"until,omitempty"`
	Reports int        `json:"reports"`
	Items   int        `json:"items"`
	Users   []UserStat `json:"users"`
}

// Stats counts reports and bullet items between the provided bounds by
// report date. Zero bounds include everything.
func (s *Service) Stats(ctx context.Context, since, until time.Time) (StatsResult, error) {
	if since.After(until) && !until.IsZero() {
		since, until = until, since
	}
	all, err := s.History(ctx)
	if err != nil {
		return StatsResult{}, err
	}

	result := StatsResult{Since: since, Until: until, Users: []UserStat{}}
	byUser := make(map[string]*UserStat)
	for _, e := range all {
		if e == nil {
			continue
		}
		if !since.IsZero() || !until.IsZero() {
			lo, hi := since, until
			if hi.IsZero() {
				hi = s.now()
			}
			if !timeutil.InWindow(e.Date, lo, hi) {
				continue
			}
		}
		items := 0
		for _, key := range e.Order {
			items += bullet.Count(e.Section(key))
		}
		result.Reports++
		result.Items += items

		key := e.UserKey()
		stat, ok := byUser[key]
		if !ok {
			stat = &UserStat{User: e.User, Dept: e.Dept}
			byUser[key] = stat
		}
		stat.Reports++
		stat.Items += items
	}

	for _, stat := range byUser {
		result.Users = append(result.Users, *stat)
	}
	sort.Slice(result.Users, func(i, j int) bool {
		if result.Users[i].User != result.Users[j].User {
			return result.Users[i].User < result.Users[j].User
		}
		return result.Users[i].Dept < result.Users[j].Dept
	})
	return result, nil
}
