package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"farmstay-go/pkg/model"
)

func init() {
	color.NoColor = true
}

func TestPrintBackfillReport(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	PrintBackfillReport(&buf, &model.BackfillReport{
		RunID:          "run-1",
		Total:          5,
		Processed:      5,
		Applied:        2,
		AlreadyApplied: 1,
		Skipped:        1,
		SkippedReasons: map[string]int{"unmapped-region": 1},
		Failed:         1,
		FailedDetails:  []model.BackfillFailure{{ReviewID: 9, Error: "not found: review 9"}},
		StartedAt:      start,
		FinishedAt:     start.Add(1500 * time.Millisecond),
	})

	out := buf.String()
	assert.Contains(t, out, "Backfill run-1")
	assert.Contains(t, out, "processed:       5/5")
	assert.Contains(t, out, "applied:         2")
	assert.Contains(t, out, "unmapped-region: 1")
	assert.Contains(t, out, "review 9: not found: review 9")
	assert.Contains(t, out, "duration:        1.5s")
	assert.NotContains(t, out, "CANCELLED")
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	PrintStats(&buf, &model.StampStats{
		AggregateRows: 4,
		VisitRows:     9,
		Users:         2,
		TopUsers:      []model.UserRegions{{UserID: 7, RegionCount: 3}, {UserID: 3, RegionCount: 1}},
	})

	out := buf.String()
	assert.Contains(t, out, "visits:       9")
	assert.Contains(t, out, "participants: 2")
	assert.Regexp(t, `1\s+7\s+3`, out)
	assert.Regexp(t, `2\s+3\s+1`, out)
}

func TestPrintDrifts(t *testing.T) {
	var buf bytes.Buffer
	PrintDrifts(&buf, nil)
	assert.Contains(t, buf.String(), "all aggregates match")

	buf.Reset()
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	PrintDrifts(&buf, []model.AggregateDrift{{
		UserID:     5,
		RegionCode: "20",
		Stored:     &model.RegionAggregate{VisitCount: 3, UniqueFarmCount: 1, FirstVisitDate: day, LastVisitDate: day},
	}})
	out := buf.String()
	assert.Contains(t, out, "1 aggregates drifted")
	assert.Contains(t, out, "3 visits, 1 farms, 2024-01-02..2024-01-02")
	assert.Contains(t, out, "(none)")
}
