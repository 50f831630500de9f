package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"farmstay-go/pkg/model"
)

// PrintBackfillReport writes a human readable backfill summary
func PrintBackfillReport(w io.Writer, r *model.BackfillReport) {
	fmt.Fprintf(w, "Backfill %s\n", r.RunID)
	fmt.Fprintf(w, "  processed:       %d/%d\n", r.Processed, r.Total)
	fmt.Fprintf(w, "  applied:         %s\n", color.New(color.FgGreen).Sprint(r.Applied))
	fmt.Fprintf(w, "  already applied: %d\n", r.AlreadyApplied)
	fmt.Fprintf(w, "  skipped:         %s\n", color.New(color.FgYellow).Sprint(r.Skipped))

	reasons := make([]string, 0, len(r.SkippedReasons))
	for reason := range r.SkippedReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(w, "    %s: %d\n", reason, r.SkippedReasons[reason])
	}

	failed := fmt.Sprint(r.Failed)
	if r.Failed > 0 {
		failed = color.New(color.FgRed).Sprint(r.Failed)
	}
	fmt.Fprintf(w, "  failed:          %s\n", failed)
	for _, f := range r.FailedDetails {
		fmt.Fprintf(w, "    review %d: %s\n", f.ReviewID, f.Error)
	}

	fmt.Fprintf(w, "  duration:        %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	if r.Cancelled {
		fmt.Fprintln(w, color.New(color.FgRed).Sprint("  CANCELLED"))
	}
}

// PrintStats writes ledger totals and the top users table
func PrintStats(w io.Writer, s *model.StampStats) {
	fmt.Fprintln(w, "Stamp totals:")
	fmt.Fprintf(w, "  aggregates:   %d\n", s.AggregateRows)
	fmt.Fprintf(w, "  visits:       %d\n", s.VisitRows)
	fmt.Fprintf(w, "  participants: %d\n", s.Users)

	if len(s.TopUsers) == 0 {
		return
	}
	fmt.Fprintln(w, "Top users:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  RANK\tUSER\tPREFECTURES")
	for i, u := range s.TopUsers {
		fmt.Fprintf(tw, "  %d\t%d\t%d\n", i+1, u.UserID, u.RegionCount)
	}
	tw.Flush()
}

// PrintDrifts lists aggregates that disagree with the ledger
func PrintDrifts(w io.Writer, drifts []model.AggregateDrift) {
	if len(drifts) == 0 {
		fmt.Fprintf(w, "%s all aggregates match the ledger\n", color.New(color.FgGreen).Sprint("✓"))
		return
	}

	fmt.Fprintf(w, "%s %d aggregates drifted:\n", color.New(color.FgRed).Sprint("✗"), len(drifts))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  USER\tPREFECTURE\tSTORED\tEXPECTED")
	for _, d := range drifts {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", d.UserID, d.RegionCode, describe(d.Stored), describe(d.Expected))
	}
	tw.Flush()
}

func describe(a *model.RegionAggregate) string {
	if a == nil {
		return "(none)"
	}
	return fmt.Sprintf("%d visits, %d farms, %s..%s", a.VisitCount, a.UniqueFarmCount,
		a.FirstVisitDate.Format("2006-01-02"), a.LastVisitDate.Format("2006-01-02"))
}
