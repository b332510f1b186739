// internal/status/snapshot.go
package status

import "github.com/tamzrod/rtu-poller/internal/poller"

// Health codes for one device within one poll cycle.
const (
	HealthUnknown uint16 = 0
	HealthOK      uint16 = 1
	// HealthDegraded means the device answered but at least one register failed.
	HealthDegraded    uint16 = 2
	HealthUnreachable uint16 = 3
)

// Snapshot summarizes one device's poll cycle.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Device      string
	Health      uint16
	TotalReads  int
	FailedReads int
}

// Build derives a Snapshot from a poll result. No IO. No side effects.
func Build(res poller.DeviceResult) Snapshot {
	s := Snapshot{Device: res.Device}

	if res.Err != nil {
		s.Health = HealthUnreachable
		return s
	}

	s.TotalReads = len(res.Outcomes)
	for _, out := range res.Outcomes {
		if out.Err != nil {
			s.FailedReads++
		}
	}

	if s.FailedReads > 0 {
		s.Health = HealthDegraded
	} else {
		s.Health = HealthOK
	}

	return s
}
