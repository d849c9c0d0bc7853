// README: Driver profile and pool entry definitions.
package driver

import "lifeline/internal/types"

// Profile is the driver-supplied identity shown to patients.
type Profile struct {
	Name    string `json:"name"`
	Vehicle string `json:"vehicle"`
}

// Driver is one entry in the availability pool. Location is nil until the
// driver has reported a position; such drivers are stored but never matched.
type Driver struct {
	ID       types.ID     `json:"id"`
	Profile  Profile      `json:"profile"`
	Location *types.Point `json:"location,omitempty"`
}
