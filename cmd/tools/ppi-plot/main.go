// Command ppi-plot renders a persisted classification run as PNG plan
// position indicator images: one for the fused clutter score, one for the
// class partition.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/echo.report/internal/echodb"
	"github.com/banshee-data/echo.report/internal/polar"
)

var (
	dbPath = flag.String("db", "echo.db", "sqlite database with classification runs")
	runID  = flag.String("run", "", "Run ID to render (latest for -site when empty)")
	siteID = flag.String("site", "default", "Site whose latest run to render")
	outDir = flag.String("out", "plots", "Output directory for PNG files")
	list   = flag.Bool("list", false, "List recent runs for -site and exit")
	size   = flag.Float64("size", 8, "Plot size in inches")
)

func main() {
	flag.Parse()

	db, err := echodb.Open(*dbPath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if *list {
		listRuns(db)
		return
	}

	var rec *echodb.RunRecord
	if *runID != "" {
		rec, err = db.GetRun(*runID)
	} else {
		rec, err = db.GetLatestRun(*siteID)
	}
	if err != nil {
		log.Fatalf("load run: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	scoreFile := filepath.Join(*outDir, rec.RunID+"_score.png")
	if err := renderScore(rec, scoreFile); err != nil {
		log.Fatalf("score plot: %v", err)
	}
	classFile := filepath.Join(*outDir, rec.RunID+"_classes.png")
	if err := renderClasses(rec, classFile); err != nil {
		log.Fatalf("class plot: %v", err)
	}

	log.Printf("rendered run %s (site=%s, %dx%d) to %s and %s",
		rec.RunID, rec.SiteID, rec.AzimuthBins, rec.RangeBins, scoreFile, classFile)
}

func listRuns(db *echodb.DB) {
	runs, err := db.ListRuns(*siteID, 20)
	if err != nil {
		log.Fatalf("list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Printf("no runs for site=%s\n", *siteID)
		return
	}
	for _, r := range runs {
		fmt.Printf("%s  %dx%d  threshold=%.2f  non-met=%d/%d  masked=%d\n",
			r.RunID, r.AzimuthBins, r.RangeBins, r.Threshold,
			r.GatesNonMet, r.GatesTotal, r.GatesMasked)
	}
}

// renderScore draws every valid gate colored by its fused score, blue (clean)
// through red (clutter). Masked gates are skipped.
func renderScore(rec *echodb.RunRecord, path string) error {
	p := newPPI(fmt.Sprintf("Fused clutter score — site %s", rec.SiteID), rec.RangeBins)

	pts := make(plotter.XYs, 0, rec.Score.Gates())
	vals := make([]float64, 0, rec.Score.Gates())
	for az := 0; az < rec.AzimuthBins; az++ {
		for rb := 0; rb < rec.RangeBins; rb++ {
			v, ok := rec.Score.At(az, rb)
			if !ok {
				continue
			}
			x, y := gateXY(rec.AzimuthBins, az, rb)
			pts = append(pts, plotter.XY{X: x, Y: y})
			vals = append(vals, v)
		}
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  rampColor(vals[i]),
			Radius: vg.Points(1.2),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(sc)

	return p.Save(vg.Length(*size)*vg.Inch, vg.Length(*size)*vg.Inch, path)
}

// renderClasses draws the class partition: green for meteorological, red for
// clutter, grey for insufficient data.
func renderClasses(rec *echodb.RunRecord, path string) error {
	p := newPPI(fmt.Sprintf("Echo classes — site %s", rec.SiteID), rec.RangeBins)

	classColors := map[polar.Class]color.Color{
		polar.ClassMet:       color.RGBA{G: 180, A: 255},
		polar.ClassNonMet:    color.RGBA{R: 220, A: 255},
		polar.ClassUndefined: color.RGBA{R: 120, G: 120, B: 120, A: 255},
	}
	labels := []struct {
		class polar.Class
		name  string
	}{
		{polar.ClassMet, "meteorological"},
		{polar.ClassNonMet, "non-meteorological"},
		{polar.ClassUndefined, "insufficient data"},
	}

	for _, l := range labels {
		pts := make(plotter.XYs, 0, rec.Classes.Count(l.class))
		for az := 0; az < rec.AzimuthBins; az++ {
			for rb := 0; rb < rec.RangeBins; rb++ {
				if rec.Classes.At(az, rb) != l.class {
					continue
				}
				x, y := gateXY(rec.AzimuthBins, az, rb)
				pts = append(pts, plotter.XY{X: x, Y: y})
			}
		}
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.Color = classColors[l.class]
		sc.Radius = vg.Points(1.2)
		sc.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(l.name, sc)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	return p.Save(vg.Length(*size)*vg.Inch, vg.Length(*size)*vg.Inch, path)
}

func newPPI(title string, rangeBins int) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Range bins (east)"
	p.Y.Label.Text = "Range bins (north)"
	r := float64(rangeBins)
	p.X.Min, p.X.Max = -r, r
	p.Y.Min, p.Y.Max = -r, r
	return p
}

// gateXY projects a polar gate onto the plot plane. Azimuth 0 points north
// and increases clockwise; the gate sits at the center of its range bin.
func gateXY(azBins, azBin, rangeBin int) (float64, float64) {
	theta := 2 * math.Pi * float64(azBin) / float64(azBins)
	r := float64(rangeBin) + 0.5
	return r * math.Sin(theta), r * math.Cos(theta)
}

// rampColor maps a score in [0,1] onto a blue-to-red HSL ramp.
func rampColor(v float64) color.Color {
	v = math.Max(0, math.Min(1, v))
	hue := (1 - v) * 2.0 / 3.0 // 0.66 (blue) down to 0 (red)
	r, g, b := hslToRGB(hue, 0.8, 0.5)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64
	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}
	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
