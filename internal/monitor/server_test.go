package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/banshee-data/echo.report/internal/echo"
	"github.com/banshee-data/echo.report/internal/polar"
)

func classifiedResult(t *testing.T) *echo.Result {
	t.Helper()
	c := echo.NewClassifier()
	rho := polar.NewGrid(8, 8)
	mp := polar.NewGrid(8, 8)
	for az := 0; az < 8; az++ {
		for r := 0; r < 8; r++ {
			if az == 0 && r == 0 {
				continue // one masked gate
			}
			rho.Set(az, r, 0.7)
			mp.Set(az, r, float64(az%2))
		}
	}
	res, err := c.Classify(map[echo.Moment]*polar.Grid{echo.MomentRho: rho, echo.MomentMap: mp})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	return res
}

func TestRoutesRegistered(t *testing.T) {
	ws := NewWebServer("site-test")
	ws.SetResult(classifiedResult(t))
	mux := ws.Routes()

	endpoints := []string{
		"/debug/echo/score",
		"/debug/echo/classes",
		"/api/echo/summary",
		"/metrics",
	}
	for _, endpoint := range endpoints {
		t.Run(endpoint, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, endpoint, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			if w.Code == http.StatusNotFound {
				t.Errorf("endpoint %s should be registered, got 404", endpoint)
			}
		})
	}
}

func TestSummaryJSON(t *testing.T) {
	ws := NewWebServer("site-test")
	ws.SetResult(classifiedResult(t))

	req := httptest.NewRequest(http.MethodGet, "/api/echo/summary", nil)
	w := httptest.NewRecorder()
	ws.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("summary status: %d", w.Code)
	}
	var s runSummary
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if s.SiteID != "site-test" || s.GatesTotal != 64 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.GatesMasked != 1 {
		t.Fatalf("want 1 masked gate, got %d", s.GatesMasked)
	}
	if s.GatesMet+s.GatesNonMet+s.GatesMasked != s.GatesTotal {
		t.Fatalf("gate counts do not partition the grid: %+v", s)
	}
}

func TestScoreChartRenders(t *testing.T) {
	ws := NewWebServer("site-test")
	ws.SetResult(classifiedResult(t))

	req := httptest.NewRequest(http.MethodGet, "/debug/echo/score", nil)
	w := httptest.NewRecorder()
	ws.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("score chart status: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("score chart content type: %s", ct)
	}
	if !strings.Contains(w.Body.String(), "echarts") {
		t.Fatalf("response does not look like an echarts page")
	}
}

func TestEndpointsWithoutResult(t *testing.T) {
	ws := NewWebServer("site-test")
	for _, endpoint := range []string{"/debug/echo/score", "/debug/echo/classes", "/api/echo/summary"} {
		req := httptest.NewRequest(http.MethodGet, endpoint, nil)
		w := httptest.NewRecorder()
		ws.Routes().ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s without a result should 404, got %d", endpoint, w.Code)
		}
	}
}

func TestGateXYProjection(t *testing.T) {
	// azimuth bin 0 lies on the +X axis
	x, y := gateXY(360, 100, 10)
	if x <= 0 || y != 0 {
		t.Fatalf("gate at azimuth 0 should project onto +X: (%v,%v)", x, y)
	}
}
