package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/cfcoach/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTopicStats(t *testing.T) {
	Convey("Given topic stats", t, func() {
		Convey("When the topic has no submissions", func() {
			s := types.TopicStats{}

			Convey("Then the success rate is zero", func() {
				So(s.Total(), ShouldEqual, 0)
				So(s.SuccessRate(), ShouldEqual, 0)
			})
		})

		Convey("When one of ten submissions is accepted", func() {
			s := types.TopicStats{Solved: 1, Attempted: 9}

			Convey("Then the success rate is 10%", func() {
				So(s.Total(), ShouldEqual, 10)
				So(s.SuccessRate(), ShouldAlmostEqual, 0.1)
			})
		})
	})
}

func TestActivityTimelineJSON(t *testing.T) {
	Convey("Given a three day timeline", t, func() {
		tl := types.ActivityTimeline{
			Days: []types.DailyActivityPoint{
				{Date: "2024-03-01", SolvedCount: 0},
				{Date: "2024-03-02", SolvedCount: 2},
				{Date: "2024-03-03", SolvedCount: 1},
			},
			TotalSolved: 3,
		}

		Convey("When marshalled", func() {
			b, err := json.Marshal(tl)
			So(err, ShouldBeNil)

			Convey("Then it uses the labels/values shape", func() {
				So(string(b), ShouldEqual,
					`{"labels":["2024-03-01","2024-03-02","2024-03-03"],"values":[0,2,1],"total_solved":3}`)
			})

			Convey("And it reads back into the same timeline", func() {
				var back types.ActivityTimeline
				So(json.Unmarshal(b, &back), ShouldBeNil)
				So(back, ShouldResemble, tl)
			})
		})

		Convey("When the timeline is empty", func() {
			b, err := json.Marshal(types.ActivityTimeline{})
			So(err, ShouldBeNil)

			Convey("Then arrays are empty rather than null", func() {
				So(string(b), ShouldEqual, `{"labels":[],"values":[],"total_solved":0}`)
			})
		})
	})
}
