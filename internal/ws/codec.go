// README: JSON envelope codec between wire events and engine events.
package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"lifeline/internal/modules/dispatch"
	"lifeline/internal/modules/driver"
	"lifeline/internal/types"
)

// envelope frames every message in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound wire event names.
const (
	eventDriverOnline   = "driver-online"
	eventRequestBooking = "request-booking"
	eventPickupComplete = "driver-picked-up-patient"
	eventLocationUpdate = "driver-location-update"
	eventRideFinished   = "ride-finished"
	eventCancelBooking  = "cancel-booking"
)

// rawPoint distinguishes absent coordinates from zero values; a half or
// non-numeric pair decodes to nil downstream.
type rawPoint struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (p *rawPoint) point() *types.Point {
	if p == nil || p.Lat == nil || p.Lng == nil {
		return nil
	}
	return &types.Point{Lat: *p.Lat, Lng: *p.Lng}
}

type driverOnlinePayload struct {
	Name     string    `json:"name"`
	Vehicle  string    `json:"vehicle"`
	Location *rawPoint `json:"location"`
}

type requestBookingPayload struct {
	Pickup *rawPoint     `json:"pickup"`
	Route  []types.Point `json:"route"`
}

type pickupCompletePayload struct {
	PatientID string `json:"patient_id"`
}

type rideFinishedPayload struct {
	Location *rawPoint `json:"location"`
}

// decodeEvent maps one inbound envelope to an engine event. A returned error
// means the frame is dropped; the sender is never answered, matching the
// engine's malformed-input policy.
func decodeEvent(env envelope) (dispatch.Event, error) {
	switch env.Event {
	case eventDriverOnline:
		var p driverOnlinePayload
		if err := unmarshalData(env.Data, &p); err != nil {
			return nil, err
		}
		return dispatch.DriverOnline{
			Profile:  driver.Profile{Name: p.Name, Vehicle: p.Vehicle},
			Location: p.Location.point(),
		}, nil

	case eventRequestBooking:
		var p requestBookingPayload
		if err := unmarshalData(env.Data, &p); err != nil {
			return nil, err
		}
		// A nil pickup flows through; the engine drops it silently.
		return dispatch.RequestBooking{Pickup: p.Pickup.point(), Route: p.Route}, nil

	case eventPickupComplete:
		var p pickupCompletePayload
		if len(env.Data) > 0 {
			if err := unmarshalData(env.Data, &p); err != nil {
				return nil, err
			}
		}
		return dispatch.PickupComplete{PatientID: types.ID(p.PatientID)}, nil

	case eventLocationUpdate:
		var p rawPoint
		if err := unmarshalData(env.Data, &p); err != nil {
			return nil, err
		}
		pt := p.point()
		if pt == nil {
			return nil, fmt.Errorf("location update without coordinates")
		}
		return dispatch.LocationUpdate{Location: *pt}, nil

	case eventRideFinished:
		var p rideFinishedPayload
		if len(env.Data) > 0 {
			if err := unmarshalData(env.Data, &p); err != nil {
				return nil, err
			}
		}
		return dispatch.RideFinished{Location: p.Location.point()}, nil

	case eventCancelBooking:
		return dispatch.CancelBooking{}, nil
	}
	return nil, fmt.Errorf("unknown event %q", env.Event)
}

func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("missing payload")
	}
	return json.Unmarshal(data, v)
}

// marshalData encodes an outbound payload, degrading to an empty payload on
// the (unexpected) marshal failure rather than suppressing the event.
func marshalData(logger *slog.Logger, payload any) json.RawMessage {
	if payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("outbound payload marshal failed", "error", err)
		return nil
	}
	return data
}
