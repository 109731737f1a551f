package telemetry

import "fmt"

var defaultRegistry = []NodeInfo{
	{ID: "Node-01", Lat: 10.0765, Lon: 76.3472, Status: StatusActive},
	{ID: "Node-02", Lat: 10.0783, Lon: 76.3481, Status: StatusActive},
	{ID: "Node-03", Lat: 10.0791, Lon: 76.3500, Status: StatusActive},
	{ID: "Node-04", Lat: 10.0801, Lon: 76.3490, Status: StatusActive},
	{ID: "Node-05", Lat: 10.0810, Lon: 76.3510, Status: StatusMaintenance},
	{ID: "Node-06", Lat: 10.0820, Lon: 76.3520, Status: StatusMaintenance},
}

// DefaultRegistry returns a copy of the built-in node list.
func DefaultRegistry() []NodeInfo {
	out := make([]NodeInfo, len(defaultRegistry))
	copy(out, defaultRegistry)
	return out
}

// ValidateRegistry checks that every node has a unique ID and a known status.
func ValidateRegistry(nodes []NodeInfo) error {
	if len(nodes) == 0 {
		return fmt.Errorf("registry is empty")
	}
	seen := make(map[string]struct{}, len(nodes))
	for i, n := range nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: missing id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("node %s: duplicate id", n.ID)
		}
		seen[n.ID] = struct{}{}
		switch n.Status {
		case StatusActive, StatusMaintenance:
		default:
			return fmt.Errorf("node %s: unknown status %q", n.ID, n.Status)
		}
	}
	return nil
}
