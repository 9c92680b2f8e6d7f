package analytics_test

import (
	"testing"
	"time"

	"github.com/okian/cfcoach/internal/domain/analytics"
	"github.com/okian/cfcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func sub(contest int, index string, verdict model.Verdict, at time.Time, tags ...string) model.Submission {
	return model.Submission{
		Problem:   &model.Problem{ContestID: intPtr(contest), Index: index, Tags: tags},
		Verdict:   verdict,
		CreatedAt: at,
	}
}

func daysAgo(d int) time.Time { return now.AddDate(0, 0, -d) }

func TestWindow(t *testing.T) {
	Convey("Given a 90 day window ending at noon on 2024-03-31 UTC", t, func() {
		w := analytics.NewWindow(now, analytics.DefaultWindowDays, time.UTC)

		Convey("Then it starts 90 calendar days earlier at the same wall time", func() {
			So(w.Start, ShouldEqual, time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))
		})

		Convey("Then both endpoints are inside", func() {
			So(w.Contains(w.Start), ShouldBeTrue)
			So(w.Contains(w.End), ShouldBeTrue)
			So(w.Contains(w.Start.Add(-time.Second)), ShouldBeFalse)
			So(w.Contains(w.End.Add(time.Second)), ShouldBeFalse)
		})

		Convey("Then it yields 91 labels from start to end date", func() {
			labels := w.Labels()
			So(len(labels), ShouldEqual, 91)
			So(labels[0], ShouldEqual, "2024-01-01")
			So(labels[90], ShouldEqual, "2024-03-31")
		})
	})

	Convey("Given a location east of UTC", t, func() {
		loc := time.FixedZone("UTC+5", 5*3600)
		w := analytics.NewWindow(now, 90, loc)

		Convey("Then days are bucketed in that location", func() {
			late := time.Date(2024, time.March, 30, 20, 0, 0, 0, time.UTC)
			So(w.DateOf(late), ShouldEqual, "2024-03-31")
			So(w.Labels()[90], ShouldEqual, "2024-03-31")
		})
	})
}

func TestAggregateTopics(t *testing.T) {
	Convey("Given submissions across topics", t, func() {
		subs := []model.Submission{
			sub(100, "A", "WRONG_ANSWER", daysAgo(3), "dp"),
			sub(100, "A", "WRONG_ANSWER", daysAgo(2), "dp"),
			sub(100, "A", model.VerdictOK, daysAgo(1), "dp"),
			sub(200, "B", model.VerdictOK, daysAgo(400), "math", "greedy"),
			sub(201, "C", "TIME_LIMIT_EXCEEDED", daysAgo(5), "math"),
			{Verdict: model.VerdictOK, CreatedAt: daysAgo(1)},
			sub(202, "D", model.VerdictOK, daysAgo(1)),
		}

		topics := analytics.AggregateTopics(subs)

		Convey("Then accepted submissions count as solved and others as attempted", func() {
			So(topics["dp"].Solved, ShouldEqual, 1)
			So(topics["dp"].Attempted, ShouldEqual, 2)
			So(topics["math"].Solved, ShouldEqual, 1)
			So(topics["math"].Attempted, ShouldEqual, 1)
			So(topics["greedy"].Solved, ShouldEqual, 1)
		})

		Convey("Then history outside the activity window still counts", func() {
			So(topics["greedy"].Total(), ShouldEqual, 1)
		})

		Convey("Then malformed and untagged records contribute nothing", func() {
			So(len(topics), ShouldEqual, 3)
		})

		Convey("Then the counts equal the number of submission-tag pairs", func() {
			total := 0
			for _, st := range topics {
				So(st.Solved, ShouldBeGreaterThanOrEqualTo, 0)
				So(st.Attempted, ShouldBeGreaterThanOrEqualTo, 0)
				total += st.Total()
			}
			So(total, ShouldEqual, 6)
		})
	})

	Convey("Given no submissions", t, func() {
		So(analytics.AggregateTopics(nil), ShouldBeEmpty)
	})
}

func TestAggregateActivity(t *testing.T) {
	w := analytics.NewWindow(now, analytics.DefaultWindowDays, time.UTC)

	Convey("Given no submissions", t, func() {
		tl := analytics.AggregateActivity(nil, w)

		Convey("Then the timeline is 91 zero points", func() {
			So(len(tl.Days), ShouldEqual, 91)
			So(tl.TotalSolved, ShouldEqual, 0)
			for _, d := range tl.Days {
				So(d.SolvedCount, ShouldEqual, 0)
			}
		})
	})

	Convey("Given accepted and rejected submissions in and out of the window", t, func() {
		subs := []model.Submission{
			sub(1, "A", model.VerdictOK, now, "dp"),
			sub(1, "B", model.VerdictOK, now.Add(-time.Hour), "dp"),
			sub(1, "C", "WRONG_ANSWER", now, "dp"),
			sub(2, "A", model.VerdictOK, w.Start, "math"),
			sub(2, "B", model.VerdictOK, w.Start.Add(-time.Minute), "math"),
			sub(3, "A", model.VerdictOK, now.Add(time.Hour), "math"),
			{Verdict: model.VerdictOK, CreatedAt: daysAgo(10)},
			sub(4, "A", model.VerdictOK, time.Time{}, "math"),
		}

		tl := analytics.AggregateActivity(subs, w)

		Convey("Then only accepted, well-formed, in-window submissions are counted per day", func() {
			So(tl.Days[90].Date, ShouldEqual, "2024-03-31")
			So(tl.Days[90].SolvedCount, ShouldEqual, 2)
			So(tl.Days[0].Date, ShouldEqual, "2024-01-01")
			So(tl.Days[0].SolvedCount, ShouldEqual, 1)
			So(tl.Days[80].SolvedCount, ShouldEqual, 0)
		})

		Convey("Then the total equals the sum of daily counts", func() {
			sum := 0
			for _, d := range tl.Days {
				sum += d.SolvedCount
			}
			So(tl.TotalSolved, ShouldEqual, sum)
			So(tl.TotalSolved, ShouldEqual, 3)
		})
	})
}

func TestCalculateStatistics(t *testing.T) {
	w := analytics.NewWindow(now, analytics.DefaultWindowDays, time.UTC)

	Convey("Given no submissions", t, func() {
		st := analytics.CalculateStatistics(nil, w)

		Convey("Then every metric is exactly zero", func() {
			So(st.TotalProblemsAttempted, ShouldEqual, 0)
			So(st.TotalSolved, ShouldEqual, 0)
			So(st.TotalAttempts, ShouldEqual, 0)
			So(st.AvgAttemptsPerProblem, ShouldEqual, 0)
			So(st.SuccessRatePercent, ShouldEqual, 0)
		})
	})

	Convey("Given two wrong answers followed by an accept on one problem", t, func() {
		subs := []model.Submission{
			sub(100, "A", "WRONG_ANSWER", daysAgo(3), "dp"),
			sub(100, "A", "WRONG_ANSWER", daysAgo(2), "dp"),
			sub(100, "A", model.VerdictOK, daysAgo(1), "dp"),
		}

		st := analytics.CalculateStatistics(subs, w)

		Convey("Then one problem is solved in three attempts", func() {
			So(st.TotalProblemsAttempted, ShouldEqual, 1)
			So(st.TotalSolved, ShouldEqual, 1)
			So(st.TotalAttempts, ShouldEqual, 3)
			So(st.AvgAttemptsPerProblem, ShouldEqual, 3.0)
			So(st.SuccessRatePercent, ShouldEqual, 100.0)
		})
	})

	Convey("Given three problems with mixed outcomes", t, func() {
		subs := []model.Submission{
			sub(1, "A", model.VerdictOK, daysAgo(1)),
			sub(1, "B", "WRONG_ANSWER", daysAgo(1)),
			sub(1, "B", "WRONG_ANSWER", daysAgo(1)),
			sub(1, "C", "WRONG_ANSWER", daysAgo(1)),
			sub(1, "C", "WRONG_ANSWER", daysAgo(1)),
			sub(1, "C", "WRONG_ANSWER", daysAgo(1)),
			sub(1, "C", model.VerdictOK, daysAgo(200)),
			{Verdict: model.VerdictOK, CreatedAt: daysAgo(1)},
		}

		st := analytics.CalculateStatistics(subs, w)

		Convey("Then out-of-window and malformed records are ignored", func() {
			So(st.TotalProblemsAttempted, ShouldEqual, 3)
			So(st.TotalSolved, ShouldEqual, 1)
			So(st.TotalAttempts, ShouldEqual, 6)
		})

		Convey("Then averages are rounded", func() {
			So(st.AvgAttemptsPerProblem, ShouldEqual, 2.0)
			So(st.SuccessRatePercent, ShouldEqual, 33.3)
		})
	})

	Convey("Given submissions missing contest ids", t, func() {
		subs := []model.Submission{
			{Problem: &model.Problem{Index: "A"}, Verdict: "WRONG_ANSWER", CreatedAt: daysAgo(1)},
			{Problem: &model.Problem{Index: "A"}, Verdict: model.VerdictOK, CreatedAt: daysAgo(1)},
			{Problem: &model.Problem{Index: "B"}, Verdict: "WRONG_ANSWER", CreatedAt: daysAgo(1)},
		}

		st := analytics.CalculateStatistics(subs, w)

		Convey("Then they group under the unknown contest", func() {
			So(st.TotalProblemsAttempted, ShouldEqual, 2)
			So(st.TotalSolved, ShouldEqual, 1)
			So(st.AvgAttemptsPerProblem, ShouldEqual, 1.5)
			So(st.SuccessRatePercent, ShouldEqual, 50.0)
		})
	})
}
