package models

import (
	"fmt"
	"time"
)

// Period selects the trailing window of a brief analysis.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod validates a period token.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// WindowStart returns the start of the trailing window ending at now.
func (p Period) WindowStart(now time.Time) time.Time {
	switch p {
	case PeriodDay:
		return now.AddDate(0, 0, -1)
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	default:
		return now.AddDate(-1, 0, 0)
	}
}

// CategoryCount is one row of a category popularity distribution, ordered by
// count descending then category ascending so results stay deterministic.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryShare is a region-level per-capita distribution row: the raw
// category count divided by the number of distinct cities in the region with
// any petition.
type CategoryShare struct {
	Category string  `json:"category"`
	PerCity  float64 `json:"count_per_city"`
}

// StatusCount is one row of a status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// RankedPetition is a most-endorsed listing row.
type RankedPetition struct {
	ID             int64     `json:"id"`
	Header         string    `json:"header"`
	Category       string    `json:"category"`
	SubmissionTime time.Time `json:"submission_time"`
	Endorsements   int       `json:"endorsement_count"`
}

// DayCount is one day of a zero-filled daily time series. Day is formatted
// as YYYY-MM-DD.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// BriefReport bundles the eight rolling-window aggregates.
type BriefReport struct {
	TopCityInitiatives   []CategoryCount `json:"most_popular_city_initiatives"`
	TopCityComplaints    []CategoryCount `json:"most_popular_city_complaints"`
	TopRegionInitiatives []CategoryCount `json:"most_popular_region_initiatives"`
	TopRegionComplaints  []CategoryCount `json:"most_popular_region_complaints"`

	CityInitiativesPerStatus   []StatusCount `json:"city_initiatives_count_per_status"`
	CityComplaintsPerStatus    []StatusCount `json:"city_complaints_count_per_status"`
	RegionInitiativesPerStatus []StatusCount `json:"region_initiatives_count_per_status"`
	RegionComplaintsPerStatus  []StatusCount `json:"region_complaints_count_per_status"`
}

// DetailedReport bundles the eight explicit-window aggregates.
type DetailedReport struct {
	CityComplaintsPerCategory  []CategoryCount `json:"count_per_category_city"`
	CityInitiativesPerCategory []CategoryCount `json:"init_count_per_category_city"`
	RegionComplaintsPerCapita  []CategoryShare `json:"count_per_category_region"`
	RegionInitiativesPerCapita []CategoryShare `json:"init_count_per_category_region"`

	TopInitiatives []RankedPetition `json:"most_popular_city_initiatives"`
	TopComplaints  []RankedPetition `json:"most_popular_city_complaints"`

	InitiativesPerDay []DayCount `json:"init_per_day"`
	ComplaintsPerDay  []DayCount `json:"comp_per_day"`
}
