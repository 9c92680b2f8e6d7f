package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/cfcoach/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.WindowDays, convey.ShouldEqual, 90)
			convey.So(cfg.MaxPathSteps, convey.ShouldEqual, 5)
			convey.So(cfg.ProblemsPerStep, convey.ShouldEqual, 3)
			convey.So(cfg.MaxSubmissions, convey.ShouldEqual, 3000)
			convey.So(cfg.RateLimitPerHour, convey.ShouldEqual, 30)
			convey.So(cfg.ExcludedTopics, convey.ShouldResemble, []string{"special problems", "*special"})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then durations derive from the millisecond and second fields", func() {
			convey.So(cfg.HTTPTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.LookupTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.CatalogCacheTTL(), convey.ShouldEqual, time.Hour)
			convey.So(cfg.ReportCacheTTL(), convey.ShouldEqual, time.Hour)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid fields", t, func() {
		cases := map[string]func(c *config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = " " },
			"zero window":         func(c *config.Config) { c.WindowDays = 0 },
			"zero steps":          func(c *config.Config) { c.MaxPathSteps = 0 },
			"zero problems":       func(c *config.Config) { c.ProblemsPerStep = 0 },
			"zero submissions":    func(c *config.Config) { c.MaxSubmissions = 0 },
			"zero timeout":        func(c *config.Config) { c.LookupTimeoutMS = 0 },
			"negative rate limit": func(c *config.Config) { c.RateLimitPerHour = -1 },
			"bad difficulty":      func(c *config.Config) { c.TopicDifficulty = map[string]int{"dp": 0} },
			"unknown timezone":    func(c *config.Config) { c.Timezone = "Mars/Olympus" },
		}
		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			_ = name
		}
	})

	convey.Convey("Given a named timezone", t, func() {
		cfg := config.New()
		cfg.Timezone = "UTC"

		loc, err := cfg.Location()
		convey.So(err, convey.ShouldBeNil)
		convey.So(loc, convey.ShouldEqual, time.UTC)
	})

	convey.Convey("Given the Local timezone", t, func() {
		loc, err := config.New().Location()
		convey.So(err, convey.ShouldBeNil)
		convey.So(loc, convey.ShouldEqual, time.Local)
	})
}
