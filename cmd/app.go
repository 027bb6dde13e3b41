package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/naka-gawa/github-skills/internal/config"
	"github.com/naka-gawa/github-skills/internal/gateway"
	"github.com/naka-gawa/github-skills/internal/logging"
	"github.com/naka-gawa/github-skills/internal/metrics"
	"github.com/naka-gawa/github-skills/internal/recommend"
	"github.com/naka-gawa/github-skills/internal/store"
	"github.com/naka-gawa/github-skills/internal/usecase"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app wires the use cases shared by every subcommand.
type app struct {
	cfg        *config.Config
	logger     zerolog.Logger
	metrics    *metrics.Metrics
	store      *store.Store
	skills     *usecase.SkillService
	sync       *usecase.SyncService
	aggregator *usecase.RecommendationAggregator
	portfolio  *usecase.PortfolioService
}

// loadConfig reads the configuration named by --config and builds the logger.
// The CLI stays quiet unless --verbose is set; serve always logs.
func loadConfig(cmd *cobra.Command, alwaysLog bool) (*config.Config, zerolog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logCfg := logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr}
	if alwaysLog {
		if verbose {
			logCfg.Level = "debug"
		}
		return cfg, logging.New(logCfg), nil
	}
	return cfg, logging.NewCLI(logCfg, verbose), nil
}

func newApp(cmd *cobra.Command, alwaysLog bool) (*app, error) {
	cfg, logger, err := loadConfig(cmd, alwaysLog)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	endpoints := gateway.Endpoints{GraphQLURL: cfg.GitHubGraphQLURL, RESTURL: cfg.GitHubRESTURL}
	newFetcher := func(token string) (gateway.Fetcher, error) {
		return gateway.NewGitHubGateway(token, endpoints, logger)
	}

	client := recommend.NewClient(recommend.Config{
		BaseURL:         cfg.MLURL,
		Timeout:         cfg.MLTimeout,
		BreakerFailures: cfg.MLBreakerFailures,
		BreakerTimeout:  cfg.MLBreakerTimeout,
	}, logger, recommend.WithMetrics(m))

	skills := usecase.NewSkillService(st, logger)
	return &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
		store:     st,
		skills:    skills,
		sync:      usecase.NewSyncService(st, st, skills, newFetcher, logger, m),
		portfolio: usecase.NewPortfolioService(st, st),
		aggregator: usecase.NewRecommendationAggregator(st, client, logger,
			usecase.WithEmptyMessage(cfg.EmptyMessage),
			usecase.WithAggregatorMetrics(m)),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("failed to close store")
	}
}

// printJSON pretty-prints v to standard output.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
