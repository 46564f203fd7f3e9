// Package system holds the process-backed Clock and IDGenerator shared by
// the durable store drivers.
package system

import "time"

// Clock implements ports.Clock using wall-clock UTC time.
type Clock struct{}

func (Clock) Now() time.Time {
	return time.Now().UTC()
}
