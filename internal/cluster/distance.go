package cluster

import "gonum.org/v1/gonum/floats"

// EuclideanDistance returns the 2D distance between two observations.
func EuclideanDistance(a, b Observation) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}

// withinThreshold reports whether any member of c is within threshold of o.
// Members are checked in insertion order.
func withinThreshold(c Cluster, o Observation, threshold float64) bool {
	for _, m := range c.Members {
		if EuclideanDistance(o, m) <= threshold {
			return true
		}
	}
	return false
}
