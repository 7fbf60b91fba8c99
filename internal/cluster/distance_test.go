package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEuclideanDistance(t *testing.T) {
	a := Observation{X: 0, Y: 0}
	b := Observation{X: 3, Y: 4}

	assert.InDelta(t, 5.0, EuclideanDistance(a, b), 1e-12)
	assert.InDelta(t, EuclideanDistance(a, b), EuclideanDistance(b, a), 1e-12)
	assert.Zero(t, EuclideanDistance(b, b))
	assert.InDelta(t, 2.0, EuclideanDistance(Observation{X: -1, Y: 1}, Observation{X: 1, Y: 1}), 1e-12)
}

func TestEuclideanDistance_TriangleInequality(t *testing.T) {
	points := []Observation{{X: 0, Y: 0}, {X: 1.5, Y: -2}, {X: 7, Y: 3}, {X: -4, Y: 0.5}}
	for _, a := range points {
		for _, b := range points {
			for _, c := range points {
				assert.LessOrEqual(t, EuclideanDistance(a, c), EuclideanDistance(a, b)+EuclideanDistance(b, c)+1e-9)
			}
		}
	}
}
