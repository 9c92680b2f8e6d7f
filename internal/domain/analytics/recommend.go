package analytics

import (
	"fmt"
	"sort"

	"github.com/okian/cfcoach/internal/domain/model"
	"github.com/okian/cfcoach/internal/domain/types"
)

// Default recommender configuration constants.
const (
	DefaultWeakThreshold      = 0.5
	DefaultMaxRecommendations = 5
	DefaultAffirmation        = "Great job! You're doing well across all topics."
)

// Option applies a configuration option to the Recommender.
type Option func(*Recommender)

// WithThreshold sets the success rate below which a topic is weak.
func WithThreshold(threshold float64) Option {
	return func(r *Recommender) {
		if threshold > 0 && threshold <= 1 {
			r.threshold = threshold
		}
	}
}

// WithMaxRecommendations caps the number of focus strings.
func WithMaxRecommendations(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.max = n
		}
	}
}

// WithExclusions adds meta topics that are never recommended. The default
// meta topics stay excluded.
func WithExclusions(ex model.TopicExclusions) Option {
	return func(r *Recommender) {
		r.exclusions = ex.WithDefaults()
	}
}

// WithAffirmation sets the message returned when no topic is weak. An empty
// string makes Recommend return an empty slice instead.
func WithAffirmation(msg string) Option {
	return func(r *Recommender) {
		r.affirmation = msg
	}
}

// Recommender turns topic aggregates into short focus guidance.
type Recommender struct {
	threshold   float64
	max         int
	exclusions  model.TopicExclusions
	affirmation string
}

// NewRecommender creates a Recommender with defaults.
func NewRecommender(opts ...Option) *Recommender {
	r := &Recommender{
		threshold:   DefaultWeakThreshold,
		max:         DefaultMaxRecommendations,
		exclusions:  model.DefaultTopicExclusions(),
		affirmation: DefaultAffirmation,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type weakTopic struct {
	name string
	rate float64
}

// Recommend lists the weakest topics, lowest success rate first.
func (r *Recommender) Recommend(topics types.TopicStatsMap) []string {
	weak := make([]weakTopic, 0, len(topics))
	for name, st := range topics {
		if r.exclusions.Excludes(name) {
			continue
		}
		if rate := st.SuccessRate(); rate < r.threshold {
			weak = append(weak, weakTopic{name: name, rate: rate})
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].rate != weak[j].rate {
			return weak[i].rate < weak[j].rate
		}
		return weak[i].name < weak[j].name
	})
	if len(weak) > r.max {
		weak = weak[:r.max]
	}

	if len(weak) == 0 {
		if r.affirmation == "" {
			return []string{}
		}
		return []string{r.affirmation}
	}
	out := make([]string, len(weak))
	for i, w := range weak {
		out[i] = fmt.Sprintf("Focus on %s problems (current success rate: %.1f%%)", w.name, w.rate*100)
	}
	return out
}
