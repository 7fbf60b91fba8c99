package cluster

import (
	"fmt"
	"math"
)

// DefaultThreshold is the default linking distance, in position units.
const DefaultThreshold = 2.0

// Params holds the clustering parameters.
type Params struct {
	Threshold float64 // Maximum distance (inclusive) linking two observations
}

// DefaultParams returns the default clustering parameters.
func DefaultParams() Params {
	return Params{Threshold: DefaultThreshold}
}

// Validate checks that the parameters can be used for clustering.
func (p Params) Validate() error {
	if math.IsNaN(p.Threshold) || math.IsInf(p.Threshold, 0) {
		return fmt.Errorf("threshold must be finite, got %v", p.Threshold)
	}
	if p.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %v", p.Threshold)
	}
	return nil
}

// Clusterer turns observations into per-cluster summaries.
type Clusterer interface {
	Cluster(observations []Observation) ([]Summary, error)
}

// ThresholdClusterer implements Clusterer with greedy threshold linking.
type ThresholdClusterer struct {
	params Params
	ids    IDGenerator
}

// NewThresholdClusterer creates a clusterer. A nil ids uses a randomly
// seeded RandomIDs.
func NewThresholdClusterer(params Params, ids IDGenerator) (*ThresholdClusterer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = NewRandomIDs(0)
	}
	return &ThresholdClusterer{params: params, ids: ids}, nil
}

// Cluster groups the observations and summarises every cluster.
// A timestamp that cannot be parsed aborts the whole call and no summaries
// are returned.
func (c *ThresholdClusterer) Cluster(observations []Observation) ([]Summary, error) {
	clusters := Group(observations, c.params.Threshold)
	if len(clusters) == 0 {
		return nil, nil
	}

	summaries := make([]Summary, 0, len(clusters))
	for i, cl := range clusters {
		s, err := Summarise(cl, c.ids)
		if err != nil {
			return nil, fmt.Errorf("cluster %d: %w", i, err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Group assigns observations to clusters in a single forward pass.
//
// Each observation joins the first cluster, in creation order, that has a
// member within threshold; otherwise it starts a new cluster. Assignments
// are final and clusters are never merged, so two clusters later bridged
// by a third observation stay separate and the result depends on input
// order.
func Group(observations []Observation, threshold float64) []Cluster {
	var clusters []Cluster
	for _, o := range observations {
		joined := false
		for i := range clusters {
			if withinThreshold(clusters[i], o, threshold) {
				clusters[i].Members = append(clusters[i].Members, o)
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, Cluster{Members: []Observation{o}})
		}
	}
	return clusters
}

// Summarise reconciles a single cluster into its output row.
func Summarise(c Cluster, ids IDGenerator) (Summary, error) {
	ts, err := ReconcileTimestamp(c.Members)
	if err != nil {
		return Summary{}, err
	}
	data, err := EncodePayload(c)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Timestamp: ts,
		ID:        ids.Next(),
		Data:      data,
		UniqueID:  FirstUniqueID(c),
		Size:      c.Size(),
	}, nil
}

// Verify at compile time that *ThresholdClusterer implements Clusterer.
var _ Clusterer = (*ThresholdClusterer)(nil)
