// Package service provides the analysis service that implements the
// dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/cfcoach/internal/adapters/repository"
	"github.com/okian/cfcoach/internal/domain/analytics"
	"github.com/okian/cfcoach/internal/domain/curriculum"
	"github.com/okian/cfcoach/internal/domain/model"
	"github.com/okian/cfcoach/internal/domain/types"
	"github.com/okian/cfcoach/pkg/logger"
	"github.com/okian/cfcoach/pkg/metrics"
)

// MaxHandleLength is the longest handle accepted by Analyze.
const MaxHandleLength = 24

const reportCacheName = "report"

// SubmissionSource returns the profile and submission history of a handle.
type SubmissionSource interface {
	FetchUser(ctx context.Context, handle string) (model.UserData, error)
}

// Service runs the analysis pipeline for one handle at a time. It holds no
// per-call state and is safe for concurrent use.
type Service struct {
	source      SubmissionSource
	builder     *curriculum.Builder
	recommender *analytics.Recommender

	cache     repository.Store
	reportTTL time.Duration

	now        func() time.Time
	windowDays int
	location   *time.Location

	logger logger.Logger

	startedAt time.Time
	analyses  atomic.Int64
	failures  atomic.Int64
	cacheHits atomic.Int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBuilder sets the training path builder.
func WithBuilder(b *curriculum.Builder) Option {
	return func(s *Service) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithRecommender sets the weak-topic recommender.
func WithRecommender(r *analytics.Recommender) Option {
	return func(s *Service) {
		if r != nil {
			s.recommender = r
		}
	}
}

// WithReportCache memoizes finished reports per handle and hour. A
// non-positive ttl disables the cache.
func WithReportCache(store repository.Store, ttl time.Duration) Option {
	return func(s *Service) {
		if store != nil && ttl > 0 {
			s.cache = store
			s.reportTTL = ttl
		}
	}
}

// WithClock sets the time source used as "now" for each analysis.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWindowDays sets the trailing activity window length.
func WithWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// WithLocation sets the location used for calendar-day bucketing.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over source with default configuration.
func New(source SubmissionSource, opts ...Option) *Service {
	s := &Service{
		source:      source,
		builder:     curriculum.NewBuilder(nil, nil),
		recommender: analytics.NewRecommender(),
		now:         time.Now,
		windowDays:  analytics.DefaultWindowDays,
		location:    time.Local,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// NormalizeHandle trims a handle and checks its length.
func NormalizeHandle(handle string) (string, error) {
	h := strings.TrimSpace(handle)
	switch {
	case h == "":
		return "", fmt.Errorf("%w: handle is required", ErrInvalidHandle)
	case len(h) > MaxHandleLength:
		return "", fmt.Errorf("%w: handle longer than %d characters", ErrInvalidHandle, MaxHandleLength)
	}
	return h, nil
}

// ReportKey is the cache key of a report for handle during the hour of now.
func ReportKey(handle string, now time.Time) string {
	return fmt.Sprintf("analysis:%s:%d", strings.ToLower(handle), now.Unix()/3600)
}

// Analyze fetches a handle's history and returns its full report.
func (s *Service) Analyze(ctx context.Context, handle string) (*types.Report, error) {
	h, err := NormalizeHandle(handle)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeAt(ctx, h, s.now())
}

// AnalyzeAt is Analyze with an explicit reference time.
func (s *Service) AnalyzeAt(ctx context.Context, handle string, now time.Time) (*types.Report, error) {
	h, err := NormalizeHandle(handle)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	s.analyses.Add(1)
	key := ReportKey(h, now)

	if report, ok := s.cached(ctx, key); ok {
		s.cacheHits.Add(1)
		metrics.RecordAnalysis(true, true, float64(time.Since(start).Milliseconds()))
		return report, nil
	}

	data, err := s.source.FetchUser(ctx, h)
	if err != nil {
		s.failures.Add(1)
		metrics.RecordAnalysis(false, false, float64(time.Since(start).Milliseconds()))
		s.logger.Warn(ctx, "fetching user failed",
			logger.String("handle", h),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidAccount, h, err)
	}

	report, err := s.Report(ctx, data, now)
	if err != nil {
		s.failures.Add(1)
		metrics.RecordAnalysis(false, false, float64(time.Since(start).Milliseconds()))
		return nil, err
	}

	s.store(ctx, key, report)
	metrics.RecordAnalysis(true, false, float64(time.Since(start).Milliseconds()))
	s.logger.Info(ctx, "analysis completed",
		logger.String("handle", h),
		logger.Int("submissions", len(data.Submissions)),
		logger.Int("steps", len(report.TrainingPath)),
		logger.Duration("took", time.Since(start)),
	)
	return report, nil
}

// Report derives a report from already fetched data. It performs no
// submission fetch and never consults the report cache.
func (s *Service) Report(ctx context.Context, data model.UserData, now time.Time) (*types.Report, error) {
	if malformed := countMalformed(data.Submissions); malformed > 0 {
		metrics.RecordMalformedSubmissions(malformed)
		s.logger.Debug(ctx, "skipping malformed submissions",
			logger.String("handle", data.Profile.Handle),
			logger.Int("count", malformed),
		)
	}

	w := analytics.NewWindow(now, s.windowDays, s.location)

	var (
		topics   types.TopicStatsMap
		activity types.ActivityTimeline
		stats    types.ProblemStatsSummary
	)
	var g errgroup.Group
	g.Go(func() error {
		topics = analytics.AggregateTopics(data.Submissions)
		return nil
	})
	g.Go(func() error {
		activity = analytics.AggregateActivity(data.Submissions, w)
		return nil
	})
	g.Go(func() error {
		stats = analytics.CalculateStatistics(data.Submissions, w)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.builder.Build(ctx, topics, data.Profile.CurrentRating())
	metrics.RecordTrainingPathSteps(len(path))

	return &types.Report{
		UserInfo:        data.Profile,
		Topics:          topics,
		MonthlyActivity: activity,
		Statistics:      stats,
		TrainingPath:    path,
		Recommendations: s.recommender.Recommend(topics),
	}, nil
}

func (s *Service) cached(ctx context.Context, key string) (*types.Report, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, err := s.cache.Get(ctx, key)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		metrics.RecordCacheMiss(reportCacheName)
		return nil, false
	case err != nil:
		metrics.RecordCacheError(reportCacheName)
		s.logger.Warn(ctx, "report cache read failed", logger.String("key", key), logger.Error(err))
		return nil, false
	}
	var report types.Report
	if err := json.Unmarshal(b, &report); err != nil {
		metrics.RecordCacheError(reportCacheName)
		return nil, false
	}
	metrics.RecordCacheHit(reportCacheName)
	return &report, true
}

func (s *Service) store(ctx context.Context, key string, report *types.Report) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.reportTTL); err != nil {
		metrics.RecordCacheError(reportCacheName)
		s.logger.Warn(ctx, "report cache write failed", logger.String("key", key), logger.Error(err))
	}
}

func countMalformed(subs []model.Submission) int {
	n := 0
	for _, sub := range subs {
		if sub.Malformed() || sub.CreatedAt.IsZero() {
			n++
		}
	}
	return n
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"analyses":     s.analyses.Load(),
		"failures":     s.failures.Load(),
		"cacheHits":    s.cacheHits.Load(),
		"cacheEnabled": s.cache != nil,
		"windowDays":   s.windowDays,
		"timezone":     s.location.String(),
		"uptime":       s.now().Sub(s.startedAt).Round(time.Second).String(),
	}
}

// HealthCheck reports whether the report cache, when it can check its
// backend, is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if hc, ok := s.cache.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
