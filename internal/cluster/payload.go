package cluster

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Project returns the CLUSTER_DATA entries for the cluster, in member order.
func Project(c Cluster) []MemberProjection {
	out := make([]MemberProjection, len(c.Members))
	for i, m := range c.Members {
		out[i] = MemberProjection{X: m.X, Y: m.Y, SensorID: m.SensorID}
	}
	return out
}

// EncodePayload serialises the member projections to a JSON array.
func EncodePayload(c Cluster) (string, error) {
	data, err := json.Marshal(Project(c))
	if err != nil {
		return "", fmt.Errorf("encode cluster data: %w", err)
	}
	return string(data), nil
}

// DecodePayload parses a CLUSTER_DATA value back into projections.
func DecodePayload(data string) ([]MemberProjection, error) {
	var out []MemberProjection
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("decode cluster data: %w", err)
	}
	return out, nil
}

// FirstUniqueID returns the unique_id of the first member whose value is not
// AbsentUniqueID. Scanning stops at that member: if its value is empty the
// result is AbsentUniqueID, even when a later member carries an id.
func FirstUniqueID(c Cluster) string {
	for _, m := range c.Members {
		if m.UniqueID == AbsentUniqueID {
			continue
		}
		if m.UniqueID == "" {
			return AbsentUniqueID
		}
		return m.UniqueID
	}
	return AbsentUniqueID
}
