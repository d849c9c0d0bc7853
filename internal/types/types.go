// README: Common value types shared across modules.
package types

// ID identifies a live session (patient or driver). It is opaque and stable
// for exactly the lifetime of the underlying transport connection.
type ID string

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
