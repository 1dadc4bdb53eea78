package service

import (
	"context"
	"sort"

	"github.com/pro4tech/assistant/internal/domain"
)

// AgentCount is one bar of the per-agent access chart
type AgentCount struct {
	AgentID int
	Count   int
}

// DayCount is one bucket of the per-day access series
type DayCount struct {
	Day   string // YYYY-MM-DD
	Count int
}

// AccessReport is the aggregated view behind the dashboard
type AccessReport struct {
	Total   int
	ByAgent []AgentCount
	ByDay   []DayCount
}

// BuildAccessReport groups raw access records into the dashboard's
// aggregates. Pure function: ByAgent is sorted by count descending (agent
// id ascending on ties), ByDay chronologically.
func BuildAccessReport(records []domain.AccessRecord) AccessReport {
	byAgent := map[int]int{}
	byDay := map[string]int{}
	for _, r := range records {
		byAgent[r.AgentID]++
		byDay[r.Timestamp.Format("2006-01-02")]++
	}

	report := AccessReport{Total: len(records)}

	for id, n := range byAgent {
		report.ByAgent = append(report.ByAgent, AgentCount{AgentID: id, Count: n})
	}
	sort.Slice(report.ByAgent, func(i, j int) bool {
		a, b := report.ByAgent[i], report.ByAgent[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.AgentID < b.AgentID
	})

	for day, n := range byDay {
		report.ByDay = append(report.ByDay, DayCount{Day: day, Count: n})
	}
	sort.Slice(report.ByDay, func(i, j int) bool {
		return report.ByDay[i].Day < report.ByDay[j].Day
	})

	return report
}

// FetchAccessReport loads the access log and aggregates it
func FetchAccessReport(ctx context.Context, log domain.AccessLog) (AccessReport, error) {
	records, err := log.ListAccesses(ctx)
	if err != nil {
		return AccessReport{}, err
	}
	return BuildAccessReport(records), nil
}
