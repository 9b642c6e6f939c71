package catalog

import (
	"slices"
	"time"
)

// TimeRange limits the dashboard counters to recent records.
type TimeRange string

const (
	RangeWeek    TimeRange = "1W"
	RangeMonth   TimeRange = "1M"
	RangeQuarter TimeRange = "3M"
	RangeYear    TimeRange = "1Y"
	RangeAllTime TimeRange = "ALL"
)

const topMovieLimit = 5

// TimeRanges lists the ranges in display order.
var TimeRanges = []TimeRange{RangeWeek, RangeMonth, RangeQuarter, RangeYear, RangeAllTime}

const day = 24 * time.Hour

func ParseTimeRange(s string) TimeRange {
	tr := TimeRange(s)
	if slices.Contains(TimeRanges, tr) {
		return tr
	}
	return RangeAllTime
}

func (tr TimeRange) window() time.Duration {
	switch tr {
	case RangeWeek:
		return 7 * day
	case RangeMonth:
		return 30 * day
	case RangeQuarter:
		return 90 * day
	case RangeYear:
		return 365 * day
	}
	return 0
}

// Contains reports whether the epoch millis timestamp falls in the range.
func (tr TimeRange) Contains(now time.Time, ts int64) bool {
	w := tr.window()
	if w == 0 {
		return true
	}
	return now.UnixMilli()-ts <= w.Milliseconds()
}

type Stats struct {
	Range          TimeRange
	Movies         int
	Requests       int
	TotalDownloads int64
	Trending       int
	Top            []Movie
}

// ComputeStats builds the dashboard counters. Movie and request counts honour
// the range; downloads, trending and the top list cover everything.
func ComputeStats(movies []Movie, requests []MovieRequest, tr TimeRange, now time.Time) Stats {
	st := Stats{Range: tr}
	for i := range movies {
		if tr.Contains(now, movies[i].AddedAt) {
			st.Movies++
		}
		st.TotalDownloads += movies[i].DownloadCount
		if movies[i].IsTrending {
			st.Trending++
		}
	}
	for i := range requests {
		if tr.Contains(now, requests[i].Timestamp) {
			st.Requests++
		}
	}

	top := slices.Clone(movies)
	slices.SortStableFunc(top, func(a, b Movie) int {
		switch {
		case a.DownloadCount > b.DownloadCount:
			return -1
		case a.DownloadCount < b.DownloadCount:
			return 1
		}
		return 0
	})
	st.Top = top[:min(topMovieLimit, len(top))]
	return st
}

// FilterRequests keeps requests inside the range.
func FilterRequests(requests []MovieRequest, tr TimeRange, now time.Time) []MovieRequest {
	out := []MovieRequest{}
	for _, r := range requests {
		if tr.Contains(now, r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}
