package service

import (
	"context"
	"fmt"

	"github.com/okian/cfcoach/internal/adapters/codeforces"
	"github.com/okian/cfcoach/internal/adapters/repository"
	"github.com/okian/cfcoach/internal/config"
	"github.com/okian/cfcoach/internal/domain/analytics"
	"github.com/okian/cfcoach/internal/domain/curriculum"
	"github.com/okian/cfcoach/internal/domain/model"
	"github.com/okian/cfcoach/pkg/logger"
)

// upstreamBurst lets a single analysis fire user.info and user.status
// together.
const upstreamBurst = 2

// NewFromConfig wires a Service from configuration: the Codeforces client as
// submission source and problem catalog, a Redis or in-memory cache, and the
// resource directory. The returned close function releases the cache.
func NewFromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, func() error, error) {
	if log == nil {
		log = logger.Nop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	client := codeforces.NewClient(
		codeforces.WithBaseURL(cfg.CodeforcesBaseURL),
		codeforces.WithTimeout(cfg.HTTPTimeout()),
		codeforces.WithMaxSubmissions(cfg.MaxSubmissions),
		codeforces.WithRequestRate(cfg.UpstreamRatePerSec, upstreamBurst),
		codeforces.WithLogger(log.Named("codeforces")),
	)

	store, err := newStore(ctx, cfg.CacheURL)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CacheURL != "" {
		log.Info(ctx, "using redis cache")
	} else {
		log.Info(ctx, "using in-memory cache")
	}

	directory := curriculum.DefaultDirectory()
	if cfg.ResourcesFile != "" {
		directory, err = curriculum.LoadDirectory(cfg.ResourcesFile, directory)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		log.Info(ctx, "loaded resource directory",
			logger.String("path", cfg.ResourcesFile),
			logger.Int("topics", directory.Topics()),
		)
	}

	exclusions := ExclusionsFromConfig(cfg)
	catalog := repository.NewCachedCatalog(client, store, cfg.CatalogCacheTTL(), log.Named("catalog"))

	builder := curriculum.NewBuilder(catalog, directory,
		curriculum.WithDifficultyTable(curriculum.DefaultDifficultyTable().With(cfg.TopicDifficulty)),
		curriculum.WithExclusions(exclusions),
		curriculum.WithMaxSteps(cfg.MaxPathSteps),
		curriculum.WithProblemsPerStep(cfg.ProblemsPerStep),
		curriculum.WithLookupTimeout(cfg.LookupTimeout()),
		curriculum.WithLogger(log.Named("curriculum")),
	)
	recommender := analytics.NewRecommender(
		analytics.WithExclusions(exclusions),
		analytics.WithMaxRecommendations(cfg.MaxRecommendations),
	)

	svc := New(client,
		WithBuilder(builder),
		WithRecommender(recommender),
		WithReportCache(store, cfg.ReportCacheTTL()),
		WithWindowDays(cfg.WindowDays),
		WithLocation(loc),
		WithLogger(log.Named("service")),
	)
	return svc, store.Close, nil
}

// ExclusionsFromConfig returns the configured meta topics plus the defaults,
// which cannot be switched off.
func ExclusionsFromConfig(cfg *config.Config) model.TopicExclusions {
	return model.NewTopicExclusions(cfg.ExcludedTopics...).WithDefaults()
}

func newStore(ctx context.Context, url string) (repository.Store, error) {
	if url == "" {
		return repository.NewMemoryStore(), nil
	}
	store, err := repository.NewRedisStore(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting cache: %w", err)
	}
	return store, nil
}
