package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/banshee-data/sensorcluster/internal/cluster"
	"github.com/banshee-data/sensorcluster/internal/records"
	"github.com/banshee-data/sensorcluster/internal/timeutil"
)

// Report summarises a completed run.
type Report struct {
	RunID          uuid.UUID
	Observations   int
	Clusters       int
	LargestCluster int
	Elapsed        time.Duration
}

// Pipeline runs source → clusterer → sink.
type Pipeline struct {
	source    records.Source
	clusterer cluster.Clusterer
	sink      records.Sink
	logger    zerolog.Logger
	clock     timeutil.Clock
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithClock sets the clock used to time runs.
func WithClock(c timeutil.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// New creates a Pipeline.
func New(source records.Source, clusterer cluster.Clusterer, sink records.Sink, opts ...Option) (*Pipeline, error) {
	if source == nil || clusterer == nil || sink == nil {
		return nil, errors.New("pipeline: source, clusterer and sink are required")
	}
	p := &Pipeline{
		source:    source,
		clusterer: clusterer,
		sink:      sink,
		logger:    zerolog.Nop(),
		clock:     timeutil.RealClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes one run. Any error aborts the run before the sink is
// written, except a failure of the sink itself.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.New()}
	log := p.logger.With().Str("run_id", report.RunID.String()).Logger()
	start := p.clock.Now()

	observations, err := p.source.Observations(ctx)
	if err != nil {
		return report, fmt.Errorf("load observations: %w", err)
	}
	report.Observations = len(observations)
	log.Debug().Int("observations", report.Observations).Msg("observations loaded")

	summaries, err := p.clusterer.Cluster(observations)
	if err != nil {
		return report, fmt.Errorf("cluster observations: %w", err)
	}
	report.Clusters = len(summaries)
	for _, s := range summaries {
		report.LargestCluster = max(report.LargestCluster, s.Size)
	}
	log.Debug().Int("clusters", report.Clusters).Msg("observations clustered")

	if err := p.sink.WriteSummaries(ctx, summaries); err != nil {
		return report, fmt.Errorf("write summaries: %w", err)
	}

	report.Elapsed = p.clock.Since(start)
	log.Info().
		Int("observations", report.Observations).
		Int("clusters", report.Clusters).
		Int("largest_cluster", report.LargestCluster).
		Dur("elapsed", report.Elapsed).
		Msg("run complete")
	return report, nil
}
