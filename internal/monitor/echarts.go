package monitor

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/echo.report/internal/polar"
)

// viridis-like palette shared by both grid views.
var vmColors = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// handleScorePolar renders the fused score grid as a polar scatter (HTML).
// Query params:
//   - max_points (optional; default 8000) to reduce payload size
func (ws *WebServer) handleScorePolar(w http.ResponseWriter, r *http.Request) {
	res, siteID := ws.snapshot()
	if res == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no classification result available")
		return
	}

	g := res.Score
	data := make([]opts.ScatterData, 0, g.Gates())
	stride := scatterStride(r, g.Gates())
	for i := 0; i < g.Gates(); i += stride {
		if !g.Valid[i] {
			continue
		}
		x, y := gateXY(g.AzimuthBins, g.RangeBins, i)
		data = append(data, opts.ScatterData{Value: []interface{}{x, y, g.Values[i]}})
	}

	ws.renderScatter(w, data, float64(g.RangeBins),
		"Echo Score", fmt.Sprintf("site=%s points=%d stride=%d", siteID, len(data), stride), 1.0)
}

// handleClassesPolar renders the classification grid. Masked gates are
// omitted so the display matches what a downstream renderer would show after
// applying the insufficient-data mask.
func (ws *WebServer) handleClassesPolar(w http.ResponseWriter, r *http.Request) {
	res, siteID := ws.snapshot()
	if res == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no classification result available")
		return
	}

	cg := res.Classes
	gates := cg.AzimuthBins * cg.RangeBins
	data := make([]opts.ScatterData, 0, gates)
	stride := scatterStride(r, gates)
	for i := 0; i < gates; i += stride {
		c := cg.Classes[i]
		if c == polar.ClassUndefined {
			continue
		}
		x, y := gateXY(cg.AzimuthBins, cg.RangeBins, i)
		data = append(data, opts.ScatterData{Value: []interface{}{x, y, float64(c)}})
	}

	ws.renderScatter(w, data, float64(cg.RangeBins),
		"Echo Classification", fmt.Sprintf("site=%s points=%d stride=%d (0=met 1=non-met)", siteID, len(data), stride), 1.0)
}

// gateXY projects a flat gate index into scan-relative XY coordinates.
func gateXY(azBins, rangeBins, idx int) (float64, float64) {
	azBin := idx / rangeBins
	rangeBin := idx % rangeBins
	theta := 2 * math.Pi * float64(azBin) / float64(azBins)
	rad := float64(rangeBin) + 0.5
	return rad * math.Cos(theta), rad * math.Sin(theta)
}

func scatterStride(r *http.Request, gates int) int {
	maxPoints := 8000
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 100 && v <= 50000 {
			maxPoints = v
		}
	}
	if gates <= maxPoints {
		return 1
	}
	return int(math.Ceil(float64(gates) / float64(maxPoints)))
}

func (ws *WebServer) renderScatter(w http.ResponseWriter, data []opts.ScatterData, maxRange float64, title, subtitle string, vmMax float32) {
	pad := maxRange * 1.05
	if pad == 0 {
		pad = 1.0
	}

	// Square plot with symmetric axes so the scan stays circular.
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (gates)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (gates)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        vmMax,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: vmColors},
		}),
	)
	scatter.AddSeries("gates", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
