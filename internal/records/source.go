package records

import (
	"context"

	"github.com/banshee-data/sensorcluster/internal/cluster"
)

// Observation column names, shared by every source.
const (
	ColumnX         = "x_position"
	ColumnY         = "y_position"
	ColumnSensorID  = "sensor_id"
	ColumnTimestamp = "timestamp_id"
	ColumnUniqueID  = "unique_id"
)

// ObservationColumns lists the columns every source must provide.
var ObservationColumns = []string{ColumnX, ColumnY, ColumnSensorID, ColumnTimestamp, ColumnUniqueID}

// Source yields observations in their stored order.
type Source interface {
	Observations(ctx context.Context) ([]cluster.Observation, error)
}
