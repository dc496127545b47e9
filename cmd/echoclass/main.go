// Command echoclass classifies non-meteorological echoes in one polar radar
// scan. It reads per-moment grid files, fuses them with the static clutter
// map through the fuzzy classifier, and reports (and optionally persists and
// serves) the result.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/banshee-data/echo.report/internal/config"
	"github.com/banshee-data/echo.report/internal/echo"
	"github.com/banshee-data/echo.report/internal/echodb"
	"github.com/banshee-data/echo.report/internal/ingest"
	"github.com/banshee-data/echo.report/internal/monitor"
	"github.com/banshee-data/echo.report/internal/observability"
	"github.com/banshee-data/echo.report/internal/polar"
)

var (
	configPath = flag.String("config", "", "Tuning JSON file (defaults apply when empty)")
	siteID     = flag.String("site", "default", "Radar site identifier")

	rhoPath  = flag.String("rho", "", "Correlation coefficient grid file")
	rho2Path = flag.String("rho2", "", "Correlation texture grid file")
	phiPath  = flag.String("phi", "", "Differential phase texture grid file")
	zdrPath  = flag.String("zdr", "", "Differential reflectivity texture grid file")
	dopPath  = flag.String("dop", "", "Doppler velocity grid file")
	mapPath  = flag.String("map", "", "Static clutter map file (falls back to -db store)")

	deriveTexture = flag.Bool("texture", false, "Treat -phi/-zdr/-rho2 inputs as raw moments and derive their texture channels")

	dbPath  = flag.String("db", "", "sqlite database for clutter maps and runs")
	saveMap = flag.Bool("save-map", false, "Store the -map file in the database for this site")
	persist = flag.Bool("persist", false, "Persist the classification run to the database")
	listen  = flag.String("listen", "", "Serve the debug monitor on this address after classifying")
)

func main() {
	flag.Parse()

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	classifier, err := cfg.NewClassifier()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var db *echodb.DB
	if *dbPath != "" {
		db, err = echodb.Open(*dbPath)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
	}

	moments, err := loadMoments(cfg, db)
	if err != nil {
		log.Fatalf("inputs: %v", err)
	}

	metrics := observability.NewMetrics()
	start := time.Now()
	res, err := classifier.Classify(moments)
	if err != nil {
		metrics.ScanErrors.Inc()
		log.Fatalf("classify: %v", err)
	}
	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	metrics.ObserveResult(
		res.Classes.Count(polar.ClassMet),
		res.Classes.Count(polar.ClassNonMet),
		res.Mask.CountSet(),
	)

	total := res.Score.Gates()
	nonMet := res.Classes.Count(polar.ClassNonMet)
	masked := res.Mask.CountSet()
	log.Printf("classified %s scan for site=%s in %v: %d/%d non-meteorological (%.1f%%), %d masked (%.1f%%)",
		res.Score.ShapeString(), *siteID, time.Since(start).Round(time.Millisecond),
		nonMet, total, 100*float64(nonMet)/float64(total),
		masked, 100*float64(masked)/float64(total))

	if *persist {
		if db == nil {
			log.Fatalf("-persist requires -db")
		}
		params, _ := json.Marshal(cfg)
		runID, err := db.InsertRun(*siteID, res, classifier.Threshold, string(params))
		if err != nil {
			log.Fatalf("persist run: %v", err)
		}
		log.Printf("persisted run %s", runID)
	}

	if *listen != "" {
		ws := monitor.NewWebServer(*siteID)
		ws.SetResult(res)
		log.Printf("monitor on http://%s/debug/echo/score", *listen)
		if err := ws.ListenAndServe(*listen); err != nil {
			log.Fatalf("monitor: %v", err)
		}
	}
}

// loadMoments reads every supplied moment file, derives texture channels if
// requested, and resolves the clutter map from file or store.
func loadMoments(cfg *config.TuningConfig, db *echodb.DB) (map[echo.Moment]*polar.Grid, error) {
	moments := make(map[echo.Moment]*polar.Grid)

	paths := map[echo.Moment]string{
		echo.MomentRho:  *rhoPath,
		echo.MomentRho2: *rho2Path,
		echo.MomentPhi:  *phiPath,
		echo.MomentZdr:  *zdrPath,
		echo.MomentDop:  *dopPath,
	}
	for m, path := range paths {
		if path == "" {
			continue
		}
		g, _, err := ingest.ReadFile(path)
		if err != nil {
			return nil, err
		}
		moments[m] = g
	}

	if *deriveTexture {
		window := cfg.GetTextureWindow()
		for _, m := range []echo.Moment{echo.MomentRho2, echo.MomentPhi, echo.MomentZdr} {
			g, ok := moments[m]
			if !ok {
				continue
			}
			tex, err := echo.Texture(g, window)
			if err != nil {
				return nil, fmt.Errorf("texture for %s: %w", m, err)
			}
			moments[m] = tex
		}
	}

	switch {
	case *mapPath != "":
		g, _, err := ingest.ReadClutterMap(*mapPath)
		if err != nil {
			return nil, err
		}
		moments[echo.MomentMap] = g
		if *saveMap {
			if db == nil {
				return nil, fmt.Errorf("-save-map requires -db")
			}
			if _, err := db.SaveClutterMap(*siteID, g); err != nil {
				return nil, err
			}
		}
	case db != nil:
		g, err := db.LoadClutterMap(*siteID)
		if errors.Is(err, echodb.ErrNotFound) {
			log.Printf("no stored clutter map for site=%s, classifying without one", *siteID)
			break
		}
		if err != nil {
			return nil, err
		}
		moments[echo.MomentMap] = g
	}

	if len(moments) == 0 {
		return nil, fmt.Errorf("no moment grids supplied (see -rho, -phi, -dop, -map, ...)")
	}
	return moments, nil
}
