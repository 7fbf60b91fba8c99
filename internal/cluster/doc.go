// Package cluster owns the grouping and reconciliation of sensor observations.
//
// Responsibilities: greedy threshold clustering of 2D observations,
// Euclidean distance, per-cluster timestamp reconciliation, cluster
// identifier generation and the member payload written to CLUSTER_DATA.
// Key types: Observation, Cluster, Summary.
//
// Dependency rule: no file, database or network code is allowed in this
// package. Callers hand in a slice of observations and receive a slice of
// summaries.
package cluster
