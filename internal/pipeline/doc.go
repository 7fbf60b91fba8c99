// Package pipeline orchestrates one clustering run.
//
// It wires a records.Source, a cluster.Clusterer and a records.Sink into a
// read, cluster, write flow. The pipeline does not own domain logic: it
// delegates to the cluster and records packages and reports what happened.
// Output is all-or-nothing: the sink is only called once clustering has
// succeeded for every observation.
package pipeline
