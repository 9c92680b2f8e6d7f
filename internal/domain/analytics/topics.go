package analytics

import (
	"github.com/okian/cfcoach/internal/domain/model"
	"github.com/okian/cfcoach/internal/domain/types"
)

// AggregateTopics folds submissions into per-topic counts. Each tag of a
// submission's problem receives one increment: solved when the verdict is
// accepted, attempted otherwise, so the two counts are disjoint.
// Malformed and untagged submissions contribute nothing.
func AggregateTopics(subs []model.Submission) types.TopicStatsMap {
	out := make(types.TopicStatsMap)
	for _, s := range subs {
		if s.Malformed() {
			continue
		}
		accepted := s.Verdict.Accepted()
		for _, tag := range s.Problem.Tags {
			if tag == "" {
				continue
			}
			st := out[tag]
			if accepted {
				st.Solved++
			} else {
				st.Attempted++
			}
			out[tag] = st
		}
	}
	return out
}
