// Package curriculum ranks a user's topics into a short, difficulty-ordered
// training path and attaches practice problems and learning resources.
package curriculum

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/cfcoach/internal/domain/model"
	"github.com/okian/cfcoach/internal/domain/types"
	"github.com/okian/cfcoach/pkg/logger"
	"github.com/okian/cfcoach/pkg/metrics"
)

// Default builder configuration constants.
const (
	defaultMaxSteps        = 5
	defaultProblemsPerStep = 3
	defaultLookupTimeout   = 5 * time.Second
	defaultPlatform        = "Codeforces"
	defaultProblemURL      = "https://codeforces.com/problemset/problem/%s"
	estimatedTime          = "1-2 weeks"
	descriptionFormat      = "Master %s fundamentals through carefully selected problems"
)

// ProblemCatalog finds practice problems for a topic within a rating range.
type ProblemCatalog interface {
	Query(ctx context.Context, topic string, minRating, maxRating int) ([]model.CatalogProblem, error)
}

// ResourceDirectory returns learning resources for a topic.
type ResourceDirectory interface {
	Lookup(ctx context.Context, topic string) ([]types.ResourceRef, error)
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithDifficultyTable sets the topic difficulty ranking.
func WithDifficultyTable(t DifficultyTable) Option {
	return func(b *Builder) {
		b.difficulty = t
	}
}

// WithExclusions adds meta topics left out of the path. The default meta
// topics stay excluded.
func WithExclusions(ex model.TopicExclusions) Option {
	return func(b *Builder) {
		b.exclusions = ex.WithDefaults()
	}
}

// WithMaxSteps caps the number of steps in the path.
func WithMaxSteps(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxSteps = n
		}
	}
}

// WithProblemsPerStep caps the recommended problems per step.
func WithProblemsPerStep(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.problemsPerStep = n
		}
	}
}

// WithLookupTimeout bounds each per-topic catalog and directory lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(b *Builder) {
		if d > 0 {
			b.lookupTimeout = d
		}
	}
}

// WithPlatform sets the platform name and the problem URL format; the format
// receives the catalog reference id ("<contest>/<index>").
func WithPlatform(name, urlFormat string) Option {
	return func(b *Builder) {
		if name != "" {
			b.platform = name
		}
		if urlFormat != "" {
			b.problemURL = urlFormat
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// Builder produces training paths. It holds no per-call state and is safe for
// concurrent use.
type Builder struct {
	catalog         ProblemCatalog
	directory       ResourceDirectory
	difficulty      DifficultyTable
	exclusions      model.TopicExclusions
	maxSteps        int
	problemsPerStep int
	lookupTimeout   time.Duration
	platform        string
	problemURL      string
	logger          logger.Logger
}

// NewBuilder creates a Builder over the given collaborators. A nil directory
// falls back to DefaultDirectory.
func NewBuilder(catalog ProblemCatalog, directory ResourceDirectory, opts ...Option) *Builder {
	if directory == nil {
		directory = DefaultDirectory()
	}
	b := &Builder{
		catalog:         catalog,
		directory:       directory,
		difficulty:      DefaultDifficultyTable(),
		exclusions:      model.DefaultTopicExclusions(),
		maxSteps:        defaultMaxSteps,
		problemsPerStep: defaultProblemsPerStep,
		lookupTimeout:   defaultLookupTimeout,
		platform:        defaultPlatform,
		problemURL:      defaultProblemURL,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type rankedTopic struct {
	name string
	rate float64
	rank int
}

// order sorts non-meta topics by (difficulty rank, success rate, name)
// ascending and keeps at most maxSteps.
func (b *Builder) order(topics types.TopicStatsMap) []rankedTopic {
	ranked := make([]rankedTopic, 0, len(topics))
	for name, st := range topics {
		if b.exclusions.Excludes(name) {
			continue
		}
		ranked = append(ranked, rankedTopic{name: name, rate: st.SuccessRate(), rank: b.difficulty.Rank(name)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, c := ranked[i], ranked[j]
		if a.rank != c.rank {
			return a.rank < c.rank
		}
		if a.rate != c.rate {
			return a.rate < c.rate
		}
		return a.name < c.name
	})
	if len(ranked) > b.maxSteps {
		ranked = ranked[:b.maxSteps]
	}
	return ranked
}

// Build returns the training path for a user with the given topic stats and
// rating. Lookups for each step run concurrently; a failed lookup degrades
// that step only.
func (b *Builder) Build(ctx context.Context, topics types.TopicStatsMap, rating int) []types.TrainingPathStep {
	ranked := b.order(topics)
	steps := make([]types.TrainingPathStep, len(ranked))
	if len(ranked) == 0 {
		return steps
	}

	tier := TierForRating(rating)
	band := tier.Band()

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range ranked {
		g.Go(func() error {
			steps[i] = types.TrainingPathStep{
				Topic:               t.name,
				Difficulty:          string(tier),
				SuccessRate:         fmt.Sprintf("%.1f%%", t.rate*100),
				RecommendedProblems: b.problems(gctx, t.name, band),
				Description:         fmt.Sprintf(descriptionFormat, t.name),
				EstimatedTime:       estimatedTime,
				LearningResources:   b.resources(gctx, t.name),
			}
			return nil
		})
	}
	_ = g.Wait()
	return steps
}

func (b *Builder) problems(ctx context.Context, topic string, band Band) []types.ProblemRef {
	out := make([]types.ProblemRef, 0, b.problemsPerStep)
	if b.catalog == nil {
		return out
	}

	lctx, cancel := context.WithTimeout(ctx, b.lookupTimeout)
	defer cancel()

	start := time.Now()
	found, err := b.catalog.Query(lctx, topic, band.Min, band.Max)
	metrics.RecordCatalogLookup(float64(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		b.logger.Warn(ctx, "catalog lookup failed; step has no problems",
			logger.String("topic", topic),
			logger.Error(err),
		)
		return out
	}

	for _, p := range found {
		if len(out) == b.problemsPerStep {
			break
		}
		if !band.Contains(p.Rating) || !p.HasTag(topic) {
			continue
		}
		out = append(out, types.ProblemRef{
			Platform:   b.platform,
			Name:       p.Name,
			Difficulty: p.Rating,
			URL:        fmt.Sprintf(b.problemURL, p.ReferenceID),
		})
	}
	return out
}

func (b *Builder) resources(ctx context.Context, topic string) []types.ResourceRef {
	lctx, cancel := context.WithTimeout(ctx, b.lookupTimeout)
	defer cancel()

	refs, err := b.directory.Lookup(lctx, topic)
	if err == nil {
		return refs
	}
	b.logger.Warn(ctx, "resource lookup failed; using defaults",
		logger.String("topic", topic),
		logger.Error(err),
	)
	if sd, ok := b.directory.(*StaticDirectory); ok {
		return sd.Defaults()
	}
	return DefaultDirectory().Defaults()
}
