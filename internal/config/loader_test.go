package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/cfcoach/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WindowDays, convey.ShouldEqual, 90)
				convey.So(cfg.CacheURL, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CFCOACH_ADDR", ":9090")
			_ = os.Setenv("CFCOACH_WINDOW_DAYS", "30")
			_ = os.Setenv("CFCOACH_CACHE_URL", "redis://localhost:6379/0")
			_ = os.Setenv("CFCOACH_EXCLUDED_TOPICS", "special problems,interactive")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WindowDays, convey.ShouldEqual, 30)
				convey.So(cfg.CacheURL, convey.ShouldEqual, "redis://localhost:6379/0")
				convey.So(cfg.ExcludedTopics, convey.ShouldResemble, []string{"special problems", "interactive"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":7070"
window_days: 60
timezone: UTC
max_path_steps: 4
topic_difficulty:
  dp: 2
  interactive: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CFCOACH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.WindowDays, convey.ShouldEqual, 60)
				convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
				convey.So(cfg.MaxPathSteps, convey.ShouldEqual, 4)
				convey.So(cfg.TopicDifficulty, convey.ShouldResemble, map[string]int{"dp": 2, "interactive": 5})
				convey.So(cfg.ProblemsPerStep, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":7070\"\nwindow_days: 60\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CFCOACH_CONFIG", tmpFile)
			_ = os.Setenv("CFCOACH_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.WindowDays, convey.ShouldEqual, 60)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CFCOACH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CFCOACH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CFCOACH_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CFCOACH_WINDOW_DAYS", "ninety")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	envVars := []string{
		"CFCOACH_CONFIG",
		"CFCOACH_ADDR",
		"CFCOACH_WINDOW_DAYS",
		"CFCOACH_CACHE_URL",
		"CFCOACH_EXCLUDED_TOPICS",
		"CFCOACH_TRUST_PROXY_HEADERS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "cfcoach-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}

func TestConfigLoader_Lists(t *testing.T) {
	convey.Convey("Given a single excluded topic in the environment", t, func() {
		_ = os.Setenv("CFCOACH_EXCLUDED_TOPICS", " interactive ")
		defer clearConfigEnvVars()

		cfg, err := config.LoadFile("")

		convey.Convey("Then it replaces the default list entirely", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.ExcludedTopics, convey.ShouldResemble, []string{"interactive"})
		})
	})
}

func TestConfigLoader_TrustProxyHeaders(t *testing.T) {
	convey.Convey("Given no proxy setting", t, func() {
		clearConfigEnvVars()

		cfg, err := config.LoadFile("")

		convey.Convey("Then forwarding headers are not trusted", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.TrustProxyHeaders, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given CFCOACH_TRUST_PROXY_HEADERS=true", t, func() {
		_ = os.Setenv("CFCOACH_TRUST_PROXY_HEADERS", "true")
		defer clearConfigEnvVars()

		cfg, err := config.LoadFile("")

		convey.Convey("Then forwarding headers are trusted", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.TrustProxyHeaders, convey.ShouldBeTrue)
		})
	})
}
