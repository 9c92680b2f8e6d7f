package analytics

import (
	"math"

	"github.com/okian/cfcoach/internal/domain/model"
	"github.com/okian/cfcoach/internal/domain/types"
)

type problemTally struct {
	attempts int
	solved   bool
}

// CalculateStatistics groups in-window submissions by problem. A problem is
// solved when any of its in-window submissions is accepted; every in-window
// submission counts as one attempt.
func CalculateStatistics(subs []model.Submission, w Window) types.ProblemStatsSummary {
	problems := make(map[model.ProblemKey]*problemTally)
	for _, s := range subs {
		if s.Malformed() || s.CreatedAt.IsZero() || !w.Contains(s.CreatedAt) {
			continue
		}
		k := s.Key()
		p, ok := problems[k]
		if !ok {
			p = &problemTally{}
			problems[k] = p
		}
		p.attempts++
		if s.Verdict.Accepted() {
			p.solved = true
		}
	}

	var out types.ProblemStatsSummary
	out.TotalProblemsAttempted = len(problems)
	for _, p := range problems {
		out.TotalAttempts += p.attempts
		if p.solved {
			out.TotalSolved++
		}
	}
	if out.TotalProblemsAttempted == 0 {
		return out
	}
	n := float64(out.TotalProblemsAttempted)
	out.AvgAttemptsPerProblem = round(float64(out.TotalAttempts)/n, 2)
	out.SuccessRatePercent = round(float64(out.TotalSolved)/n*100, 1)
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
