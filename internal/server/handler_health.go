package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	GoVersion   string `json:"go_version"`
	Uptime      string `json:"uptime"`
	BurstPolicy string `json:"burst_policy"`
	Heartbeat   bool   `json:"heartbeat"`
	MaxTicks    int    `json:"max_ticks"`
	MaxUnits    int    `json:"max_units"`
}

// handleHealth reports liveness and the simulation defaults applied to
// submitted workloads.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, healthResponse{
		Status:      "healthy",
		Version:     "0.1.0",
		GoVersion:   runtime.Version(),
		Uptime:      time.Since(s.startTime).Round(time.Second).String(),
		BurstPolicy: s.sim.BurstPolicy.String(),
		Heartbeat:   s.sim.Heartbeat,
		MaxTicks:    s.sim.MaxTicks,
		MaxUnits:    s.sim.MaxUnits,
	})
}
