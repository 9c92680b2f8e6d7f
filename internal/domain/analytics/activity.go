package analytics

import (
	"github.com/okian/cfcoach/internal/domain/model"
	"github.com/okian/cfcoach/internal/domain/types"
)

// AggregateActivity counts accepted submissions per calendar day inside w.
// Malformed records are skipped. The result always has w.Days+1 points,
// zero-filled, oldest first.
func AggregateActivity(subs []model.Submission, w Window) types.ActivityTimeline {
	perDay := make(map[string]int)
	for _, s := range subs {
		if s.Malformed() || s.CreatedAt.IsZero() || !s.Verdict.Accepted() || !w.Contains(s.CreatedAt) {
			continue
		}
		perDay[w.DateOf(s.CreatedAt)]++
	}

	labels := w.Labels()
	tl := types.ActivityTimeline{Days: make([]types.DailyActivityPoint, len(labels))}
	for i, label := range labels {
		n := perDay[label]
		tl.Days[i] = types.DailyActivityPoint{Date: label, SolvedCount: n}
		tl.TotalSolved += n
	}
	return tl
}
