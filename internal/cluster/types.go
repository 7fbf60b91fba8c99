package cluster

// AbsentUniqueID is the unique_id value meaning "no identifier".
const AbsentUniqueID = "0"

// Observation is a single sensor reading as read from the record source.
// Timestamp is kept verbatim so identical values round-trip without drift.
type Observation struct {
	X         float64 // x_position
	Y         float64 // y_position
	SensorID  string  // sensor_id
	Timestamp string  // timestamp_id, ISO-8601
	UniqueID  string  // unique_id, AbsentUniqueID when not set
}

// Cluster is an ordered, non-empty group of observations.
// Members are only ever appended while clustering runs.
type Cluster struct {
	Members []Observation
}

// Size returns the number of members in the cluster.
func (c Cluster) Size() int {
	return len(c.Members)
}

// MemberProjection is the per-member entry serialised into CLUSTER_DATA.
type MemberProjection struct {
	X        float64 `json:"x_position"`
	Y        float64 `json:"y_position"`
	SensorID string  `json:"sensor_id"`
}

// Summary is the output row for one cluster.
type Summary struct {
	Timestamp string // F_TIMESTAMP
	ID        int    // F_ID
	Data      string // CLUSTER_DATA, JSON array of MemberProjection
	UniqueID  string // F_U_ID

	// Size is the member count. It is not written to the output file.
	Size int
}
