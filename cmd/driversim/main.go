// README: Scripted driver client; plays out assigned rides on timers.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"lifeline/internal/logging"
	"lifeline/internal/types"
)

// The simulator is a stand-in driver for demos and manual testing: it goes
// online at a fixed position, and whenever the server assigns it a ride it
// replays pickup, a stream of location updates toward the destination, and
// the finish. All timing lives here, never in the server.

type config struct {
	Server       string
	Name         string
	Vehicle      string
	Lat          float64
	Lng          float64
	PickupDelay  time.Duration
	StepInterval time.Duration
	Steps        int
}

func loadConfig() config {
	var cfg config
	flag.StringVar(&cfg.Server, "server", "ws://localhost:3000/ws", "dispatch server websocket URL")
	flag.StringVar(&cfg.Name, "name", "Sim Driver", "driver display name")
	flag.StringVar(&cfg.Vehicle, "vehicle", "Ambulance 12", "vehicle descriptor")
	flag.Float64Var(&cfg.Lat, "lat", 25.0330, "starting latitude")
	flag.Float64Var(&cfg.Lng, "lng", 121.5654, "starting longitude")
	flag.DurationVar(&cfg.PickupDelay, "pickup-delay", 5*time.Second, "time to reach the patient")
	flag.DurationVar(&cfg.StepInterval, "step-interval", 2*time.Second, "time between location updates")
	flag.IntVar(&cfg.Steps, "steps", 5, "location updates per leg")
	flag.Parse()
	return cfg
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type ridePayload struct {
	PatientID string        `json:"patient_id"`
	Route     []types.Point `json:"route"`
}

func main() {
	cfg := loadConfig()
	logger := logging.New("info")

	conn, _, err := websocket.DefaultDialer.Dial(cfg.Server, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", cfg.Server, err)
	}
	defer conn.Close()

	pos := types.Point{Lat: cfg.Lat, Lng: cfg.Lng}
	send(conn, "driver-online", map[string]any{
		"name":     cfg.Name,
		"vehicle":  cfg.Vehicle,
		"location": pos,
	})
	logger.Info("driver online", "name", cfg.Name, "lat", pos.Lat, "lng", pos.Lng)

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			log.Fatalf("read: %v", err)
		}
		switch env.Event {
		case "start-ride":
			var r ridePayload
			if err := json.Unmarshal(env.Data, &r); err != nil {
				logger.Warn("undecodable ride assignment", "error", err)
				continue
			}
			pos = driveRide(conn, logger, cfg, pos, r)
		case "booking-cancelled":
			logger.Info("ride cancelled by dispatch, back to waiting")
		default:
			logger.Debug("ignoring event", "event", env.Event)
		}
	}
}

// driveRide walks the assigned ride to completion and returns the driver's
// final position. The server re-pools the driver on the finish event.
func driveRide(conn *websocket.Conn, logger *slog.Logger, cfg config, pos types.Point, r ridePayload) types.Point {
	logger.Info("ride assigned", "patient", r.PatientID)
	dest := pos
	if len(r.Route) > 0 {
		dest = r.Route[len(r.Route)-1]
	}

	time.Sleep(cfg.PickupDelay)
	send(conn, "driver-picked-up-patient", map[string]any{"patient_id": r.PatientID})
	logger.Info("patient on board")

	for i := 1; i <= cfg.Steps; i++ {
		f := float64(i) / float64(cfg.Steps)
		cur := types.Point{
			Lat: pos.Lat + (dest.Lat-pos.Lat)*f,
			Lng: pos.Lng + (dest.Lng-pos.Lng)*f,
		}
		time.Sleep(cfg.StepInterval)
		send(conn, "driver-location-update", cur)
	}

	send(conn, "ride-finished", map[string]any{"location": dest})
	logger.Info("ride finished", "lat", dest.Lat, "lng", dest.Lng)
	return dest
}

func send(conn *websocket.Conn, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("marshal %s: %v", event, err)
	}
	if err := conn.WriteJSON(envelope{Event: event, Data: data}); err != nil {
		log.Fatalf("send %s: %v", event, err)
	}
}
