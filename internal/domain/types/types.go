// Package types contains the report shapes shared across the application.
package types

import (
	"encoding/json"

	"github.com/okian/cfcoach/internal/domain/model"
)

// TopicStats counts accepted and non-accepted submissions for one topic.
type TopicStats struct {
	Solved    int `json:"solved"`
	Attempted int `json:"attempted"`
}

// Total is the number of submissions folded into the topic.
func (t TopicStats) Total() int { return t.Solved + t.Attempted }

// SuccessRate is solved/(solved+attempted), 0 when the topic is empty.
func (t TopicStats) SuccessRate() float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.Solved) / float64(total)
}

// TopicStatsMap maps topic label to its stats.
type TopicStatsMap map[string]TopicStats

// DailyActivityPoint is the accepted count for one calendar day.
type DailyActivityPoint struct {
	Date        string // YYYY-MM-DD
	SolvedCount int
}

// ActivityTimeline is a dense, chronologically ordered window of days.
type ActivityTimeline struct {
	Days        []DailyActivityPoint
	TotalSolved int
}

type activityWire struct {
	Labels      []string `json:"labels"`
	Values      []int    `json:"values"`
	TotalSolved int      `json:"total_solved"`
}

// MarshalJSON emits the chart-friendly {labels, values, total_solved} shape.
func (a ActivityTimeline) MarshalJSON() ([]byte, error) {
	w := activityWire{
		Labels:      make([]string, len(a.Days)),
		Values:      make([]int, len(a.Days)),
		TotalSolved: a.TotalSolved,
	}
	for i, d := range a.Days {
		w.Labels[i] = d.Date
		w.Values[i] = d.SolvedCount
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the shape produced by MarshalJSON.
func (a *ActivityTimeline) UnmarshalJSON(b []byte) error {
	var w activityWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	a.TotalSolved = w.TotalSolved
	a.Days = make([]DailyActivityPoint, len(w.Labels))
	for i, l := range w.Labels {
		a.Days[i].Date = l
		if i < len(w.Values) {
			a.Days[i].SolvedCount = w.Values[i]
		}
	}
	return nil
}

// ProblemStatsSummary aggregates solve/attempt metrics over distinct problems.
type ProblemStatsSummary struct {
	TotalSolved            int     `json:"total_solved"`
	AvgAttemptsPerProblem  float64 `json:"avg_attempts"`
	SuccessRatePercent     float64 `json:"success_rate"`
	TotalProblemsAttempted int     `json:"total_problems_attempted"`
	TotalAttempts          int     `json:"total_attempts"`
}

// ProblemRef is a practice problem recommended in a training step.
type ProblemRef struct {
	Platform   string `json:"platform"`
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"`
	URL        string `json:"url"`
}

// ResourceRef is a learning resource attached to a training step.
type ResourceRef struct {
	Type string `json:"type" yaml:"-"`
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// TrainingPathStep is one topic in the curriculum.
type TrainingPathStep struct {
	Topic               string        `json:"topic"`
	Difficulty          string        `json:"difficulty"`
	SuccessRate         string        `json:"success_rate"`
	RecommendedProblems []ProblemRef  `json:"recommended_problems"`
	Description         string        `json:"description"`
	EstimatedTime       string        `json:"estimated_time"`
	LearningResources   []ResourceRef `json:"learning_resources"`
}

// Report is the full analysis of one account.
type Report struct {
	UserInfo        model.Profile       `json:"user_info"`
	Topics          TopicStatsMap       `json:"topics"`
	MonthlyActivity ActivityTimeline    `json:"monthly_activity"`
	Statistics      ProblemStatsSummary `json:"statistics"`
	TrainingPath    []TrainingPathStep  `json:"training_path"`
	Recommendations []string            `json:"recommendations"`
}
