package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/cfcoach/internal/adapters/repository"
	service "github.com/okian/cfcoach/internal/app"
	"github.com/okian/cfcoach/internal/domain/analytics"
	"github.com/okian/cfcoach/internal/domain/curriculum"
	"github.com/okian/cfcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	mu    sync.Mutex
	data  model.UserData
	err   error
	calls int
}

func (f *fakeSource) FetchUser(context.Context, string) (model.UserData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.data, f.err
}

type staticCatalog []model.CatalogProblem

func (c staticCatalog) Query(context.Context, string, int, int) ([]model.CatalogProblem, error) {
	return c, nil
}

func intp(v int) *int { return &v }

func sub(id int64, contest int, index string, verdict model.Verdict, at time.Time, tags ...string) model.Submission {
	return model.Submission{
		ID:        id,
		Problem:   &model.Problem{ContestID: intp(contest), Index: index, Tags: tags},
		Verdict:   verdict,
		CreatedAt: at,
	}
}

func dpHistory() model.UserData {
	day := now.Add(-48 * time.Hour)
	return model.UserData{
		Profile: model.Profile{Handle: "tourist", Rating: intp(1500)},
		Submissions: []model.Submission{
			sub(3, 100, "A", model.VerdictOK, day.Add(2*time.Hour), "dp"),
			sub(2, 100, "A", "WRONG_ANSWER", day.Add(time.Hour), "dp"),
			sub(1, 100, "A", "WRONG_ANSWER", day, "dp"),
			{ID: 4, Verdict: model.VerdictOK, CreatedAt: day},
		},
	}
}

func newService(src service.SubmissionSource, opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithClock(func() time.Time { return now }),
		service.WithLocation(time.UTC),
	}
	return service.New(src, append(base, opts...)...)
}

func TestNormalizeHandle(t *testing.T) {
	Convey("Given candidate handles", t, func() {
		h, err := service.NormalizeHandle("  tourist ")
		So(err, ShouldBeNil)
		So(h, ShouldEqual, "tourist")

		_, err = service.NormalizeHandle("   ")
		So(errors.Is(err, service.ErrInvalidHandle), ShouldBeTrue)

		_, err = service.NormalizeHandle(strings.Repeat("x", service.MaxHandleLength+1))
		So(errors.Is(err, service.ErrInvalidHandle), ShouldBeTrue)

		_, err = service.NormalizeHandle(strings.Repeat("x", service.MaxHandleLength))
		So(err, ShouldBeNil)
	})

	Convey("Given report keys", t, func() {
		So(service.ReportKey("Tourist", now), ShouldEqual, service.ReportKey("tourist", now.Add(-time.Minute)))
		So(service.ReportKey("tourist", now), ShouldNotEqual, service.ReportKey("tourist", now.Add(time.Hour)))
	})
}

func TestService_Analyze(t *testing.T) {
	ctx := context.Background()

	Convey("Given a user who solved a dp problem on the third try", t, func() {
		src := &fakeSource{data: dpHistory()}
		catalog := staticCatalog{{Name: "Knapsack", Rating: 1400, ReferenceID: "200/B", Tags: []string{"dp"}}}
		svc := newService(src, service.WithBuilder(curriculum.NewBuilder(catalog, nil)))

		report, err := svc.Analyze(ctx, "tourist")

		Convey("Then statistics count one problem with three attempts", func() {
			So(err, ShouldBeNil)
			So(report.Statistics.TotalSolved, ShouldEqual, 1)
			So(report.Statistics.TotalProblemsAttempted, ShouldEqual, 1)
			So(report.Statistics.TotalAttempts, ShouldEqual, 3)
			So(report.Statistics.AvgAttemptsPerProblem, ShouldEqual, 3.0)
			So(report.Statistics.SuccessRatePercent, ShouldEqual, 100.0)
		})

		Convey("Then topics split accepted and rejected submissions", func() {
			So(report.Topics["dp"].Solved, ShouldEqual, 1)
			So(report.Topics["dp"].Attempted, ShouldEqual, 2)
		})

		Convey("Then the timeline covers the whole window", func() {
			So(len(report.MonthlyActivity.Days), ShouldEqual, analytics.DefaultWindowDays+1)
			So(report.MonthlyActivity.TotalSolved, ShouldEqual, 1)
		})

		Convey("Then the training path uses the medium tier", func() {
			So(len(report.TrainingPath), ShouldEqual, 1)
			step := report.TrainingPath[0]
			So(step.Topic, ShouldEqual, "dp")
			So(step.Difficulty, ShouldEqual, "medium")
			So(step.SuccessRate, ShouldEqual, "33.3%")
			So(len(step.RecommendedProblems), ShouldEqual, 1)
			So(step.RecommendedProblems[0].URL, ShouldEqual, "https://codeforces.com/problemset/problem/200/B")
		})

		Convey("Then dp is flagged as weak", func() {
			So(report.Recommendations, ShouldResemble, []string{
				"Focus on dp problems (current success rate: 33.3%)",
			})
		})

		Convey("Then the profile is passed through", func() {
			So(report.UserInfo.Handle, ShouldEqual, "tourist")
		})
	})

	Convey("Given a user with no submissions", t, func() {
		src := &fakeSource{data: model.UserData{Profile: model.Profile{Handle: "newbie"}}}
		svc := newService(src)

		report, err := svc.Analyze(ctx, "newbie")

		Convey("Then every section has its empty default", func() {
			So(err, ShouldBeNil)
			So(report.Topics, ShouldBeEmpty)
			So(len(report.MonthlyActivity.Days), ShouldEqual, 91)
			So(report.Statistics.AvgAttemptsPerProblem, ShouldEqual, 0)
			So(report.Statistics.SuccessRatePercent, ShouldEqual, 0)
			So(report.TrainingPath, ShouldBeEmpty)
			So(report.Recommendations, ShouldResemble, []string{analytics.DefaultAffirmation})
		})
	})

	Convey("Given a failing submission source", t, func() {
		src := &fakeSource{err: errors.New("handle not found")}
		svc := newService(src)

		report, err := svc.Analyze(ctx, "ghost")

		Convey("Then the account is reported invalid", func() {
			So(report, ShouldBeNil)
			So(errors.Is(err, service.ErrInvalidAccount), ShouldBeTrue)
			So(svc.GetStats()["failures"], ShouldEqual, int64(1))
		})
	})

	Convey("Given an empty handle", t, func() {
		src := &fakeSource{}
		svc := newService(src)

		_, err := svc.Analyze(ctx, "")

		Convey("Then the source is never called", func() {
			So(errors.Is(err, service.ErrInvalidHandle), ShouldBeTrue)
			So(src.calls, ShouldEqual, 0)
		})
	})

	Convey("Given identical input analysed twice", t, func() {
		src := &fakeSource{data: dpHistory()}
		a, err1 := newService(src).Analyze(ctx, "tourist")
		b, err2 := newService(src).Analyze(ctx, "tourist")

		Convey("Then the serialized reports are byte-identical", func() {
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			ja, _ := json.Marshal(a)
			jb, _ := json.Marshal(b)
			So(string(ja), ShouldEqual, string(jb))
		})
	})
}

func TestService_ReportCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a report cache", t, func() {
		src := &fakeSource{data: dpHistory()}
		store := repository.NewMemoryStore(repository.WithSweepInterval(0))
		defer func() { _ = store.Close() }()
		svc := newService(src, service.WithReportCache(store, time.Hour))

		first, err1 := svc.Analyze(ctx, "tourist")
		second, err2 := svc.Analyze(ctx, "Tourist")

		Convey("Then the second analysis within the hour is served from cache", func() {
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(src.calls, ShouldEqual, 1)
			So(svc.GetStats()["cacheHits"], ShouldEqual, int64(1))

			ja, _ := json.Marshal(first)
			jb, _ := json.Marshal(second)
			So(string(jb), ShouldEqual, string(ja))
		})

		Convey("Then a later hour fetches again", func() {
			_, err := svc.AnalyzeAt(ctx, "tourist", now.Add(time.Hour))
			So(err, ShouldBeNil)
			So(src.calls, ShouldEqual, 2)
		})
	})

	Convey("Given a failing source and a cache", t, func() {
		src := &fakeSource{err: errors.New("down")}
		store := repository.NewMemoryStore(repository.WithSweepInterval(0))
		defer func() { _ = store.Close() }()
		svc := newService(src, service.WithReportCache(store, time.Hour))

		_, err := svc.Analyze(ctx, "ghost")

		Convey("Then nothing is cached", func() {
			So(err, ShouldNotBeNil)
			So(store.Len(), ShouldEqual, 0)
		})
	})
}

func TestService_HealthCheck(t *testing.T) {
	Convey("Given a service without a cache", t, func() {
		svc := newService(&fakeSource{})
		So(svc.HealthCheck(context.Background()), ShouldBeNil)
		So(svc.GetStats()["cacheEnabled"], ShouldBeFalse)
	})
}
