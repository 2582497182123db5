package api

import (
	"net/http"
)

// routeInfo is one entry of the route index served at the root.
type routeInfo struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// businessRoutes lists the discoverable API surface. Operational routes
// (healthz, dashboard, api-docs) are intentionally not advertised here.
var businessRoutes = []routeInfo{
	{Path: "/buildings", Name: "list buildings"},
	{Path: "/buildings/{building}/sensors", Name: "list sensors"},
	{Path: "/buildings/{building}/sensors/{sensor}", Name: "sensor data"},
	{Path: "/buildings/{building}/timestamps", Name: "timestamps"},
	{Path: "/algorithms", Name: "list algorithms"},
	{Path: "/calculate/anomalies", Name: "calculate anomalies"},
	{Path: "/calculate/prototypes", Name: "prototypes"},
	{Path: "/calculate/feature-attribution", Name: "feature attribution"},
}

// RoutesHandler serves the route index.
type RoutesHandler struct{}

// NewRoutesHandler creates a new routes handler.
func NewRoutesHandler() *RoutesHandler {
	return &RoutesHandler{}
}

// HandleIndex handles GET / requests with a JSON list of business routes.
func (h *RoutesHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, businessRoutes)
}
