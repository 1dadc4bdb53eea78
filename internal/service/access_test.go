package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pro4tech/assistant/internal/apierr"
	"github.com/pro4tech/assistant/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildAccessReport(t *testing.T) {
	records := []domain.AccessRecord{
		{ID: 1, UserID: 2, AgentID: 1, Timestamp: day("2026-08-27")},
		{ID: 2, UserID: 2, AgentID: 1, Timestamp: day("2026-08-28")},
		{ID: 3, UserID: 1, AgentID: 2, Timestamp: day("2026-08-28")},
		{ID: 4, UserID: 3, AgentID: 3, Timestamp: day("2026-08-28")},
		{ID: 5, UserID: 3, AgentID: 2, Timestamp: day("2026-08-29")},
		{ID: 6, UserID: 3, AgentID: 2, Timestamp: day("2026-08-29")},
	}

	report := BuildAccessReport(records)

	assert.Equal(t, 6, report.Total)
	assert.Equal(t, []AgentCount{
		{AgentID: 2, Count: 3},
		{AgentID: 1, Count: 2},
		{AgentID: 3, Count: 1},
	}, report.ByAgent)
	assert.Equal(t, []DayCount{
		{Day: "2026-08-27", Count: 1},
		{Day: "2026-08-28", Count: 3},
		{Day: "2026-08-29", Count: 2},
	}, report.ByDay)
}

func TestBuildAccessReport_Empty(t *testing.T) {
	report := BuildAccessReport(nil)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.ByAgent)
	assert.Empty(t, report.ByDay)
}

func TestFetchAccessReport(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		accessLog := new(MockAccessLog)
		accessLog.On("ListAccesses", mock.Anything).Return([]domain.AccessRecord{
			{ID: 1, AgentID: 1, Timestamp: day("2026-08-29")},
		}, nil)

		report, err := FetchAccessReport(context.Background(), accessLog)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Total)
	})

	t.Run("remote failure propagates", func(t *testing.T) {
		accessLog := new(MockAccessLog)
		accessLog.On("ListAccesses", mock.Anything).Return(nil, &apierr.RemoteError{Status: 502})

		_, err := FetchAccessReport(context.Background(), accessLog)
		assert.Error(t, err)
	})
}
