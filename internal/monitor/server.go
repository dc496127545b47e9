// Package monitor serves a debugging web UI for classification results:
// go-echarts polar scatter plots of the score and classification grids, JSON
// summaries, and Prometheus metrics. No auth; bind it to localhost or a
// trusted network.
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/banshee-data/echo.report/internal/echo"
	"github.com/banshee-data/echo.report/internal/monitoring"
	"github.com/banshee-data/echo.report/internal/polar"
)

var logf = monitoring.Prefixed("Monitor")

// WebServer holds the most recent classification result for display.
type WebServer struct {
	mu     sync.RWMutex
	siteID string
	result *echo.Result
}

// NewWebServer creates a monitor for the given site.
func NewWebServer(siteID string) *WebServer {
	return &WebServer{siteID: siteID}
}

// SetResult publishes a freshly classified scan to the UI.
func (ws *WebServer) SetResult(res *echo.Result) {
	ws.mu.Lock()
	ws.result = res
	ws.mu.Unlock()
}

func (ws *WebServer) snapshot() (*echo.Result, string) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.result, ws.siteID
}

// Routes registers all monitor endpoints on a fresh mux.
func (ws *WebServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/echo/score", ws.handleScorePolar)
	mux.HandleFunc("/debug/echo/classes", ws.handleClassesPolar)
	mux.HandleFunc("/api/echo/summary", ws.handleSummary)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// ListenAndServe blocks serving the monitor on addr.
func (ws *WebServer) ListenAndServe(addr string) error {
	logf("serving on %s", addr)
	return http.ListenAndServe(addr, ws.Routes())
}

type runSummary struct {
	SiteID      string  `json:"site_id"`
	AzimuthBins int     `json:"azimuth_bins"`
	RangeBins   int     `json:"range_bins"`
	GatesTotal  int     `json:"gates_total"`
	GatesMet    int     `json:"gates_met"`
	GatesNonMet int     `json:"gates_non_met"`
	GatesMasked int     `json:"gates_masked"`
	NonMetFrac  float64 `json:"non_met_fraction"`
}

func (ws *WebServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, siteID := ws.snapshot()
	if res == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no classification result available")
		return
	}

	total := res.Classes.AzimuthBins * res.Classes.RangeBins
	nonMet := res.Classes.Count(polar.ClassNonMet)
	s := runSummary{
		SiteID:      siteID,
		AzimuthBins: res.Classes.AzimuthBins,
		RangeBins:   res.Classes.RangeBins,
		GatesTotal:  total,
		GatesMet:    res.Classes.Count(polar.ClassMet),
		GatesNonMet: nonMet,
		GatesMasked: res.Mask.CountSet(),
	}
	if total > 0 {
		s.NonMetFrac = float64(nonMet) / float64(total)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		logf("failed to encode summary: %v", err)
	}
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
