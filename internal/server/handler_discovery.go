package server

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
)

// routeDocs describes the routes listed by discovery. Routes without an
// entry are not advertised.
var routeDocs = map[string]string{
	"/api/v1/runs/":     "Simulate a workload (POST) or list recorded runs",
	"/api/v1/runs/{id}": "Single run with final process states",
	"/api/v1/health":    "Server health and simulation defaults",
}

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	methods := make(map[string][]string)
	err := chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if _, ok := routeDocs[route]; ok {
			methods[route] = append(methods[route], method)
		}
		return nil
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	endpoints := make([]endpointInfo, 0, len(methods))
	for route, ms := range methods {
		sort.Strings(ms)
		endpoints = append(endpoints, endpointInfo{Path: route, Methods: ms, Description: routeDocs[route]})
	}
	sort.Slice(endpoints, func(i, j int) bool { return endpoints[i].Path < endpoints[j].Path })

	respond(w, r, http.StatusOK, discoveryResponse{
		Name:        "credsched API",
		Version:     "v1",
		Description: "Credit-based CPU scheduler simulation",
		Endpoints:   endpoints,
	})
}
