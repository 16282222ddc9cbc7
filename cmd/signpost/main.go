// Command signpost runs the trail signage survey pipeline: it turns a
// directory of geotagged photos and a trail geometry export into a ranked
// list of candidate wayfinding-signage sites.
//
// Configuration is loaded from prefab.yaml and PF__ environment variables.
package main

import (
	"embed"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/dpup/prefab"

	"github.com/kootenaytrails/signpost/internal/config"
	"github.com/kootenaytrails/signpost/internal/export"
	"github.com/kootenaytrails/signpost/internal/services"
	"github.com/kootenaytrails/signpost/internal/store"
)

//go:embed static/*
var staticFiles embed.FS

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command := os.Args[1]

	cfg := loadConfig(command)
	st := store.New(cfg.Survey.DataDir)
	svc := services.NewSurveyService(st, cfg)

	var err error
	switch command {
	case "photos":
		err = svc.ImportPhotos()
	case "trails":
		err = svc.ImportTrails()
	case "cluster":
		err = svc.RunClustering()
	case "match":
		err = svc.RunMatching()
	case "run":
		err = svc.RunPipeline()
	case "export":
		err = runExport(st, os.Args[2:])
	case "serve":
		err = runServe(st)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("signpost %s: %v", command, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: signpost <command>

Commands:
  photos   extract observations from the photo directory
  trails   import the trail geometry export
  cluster  group observations into spatial clusters
  match    cross-reference clusters against trails
  run      full pipeline: photos, trails, cluster, match
  export   write the report as GeoJSON or KML
  serve    serve the survey map viewer`)
}

// loadConfig loads configuration using prefab's config system. The survey
// distances are required for the pipeline commands; export and serve only
// need the data directory.
func loadConfig(command string) *config.Config {
	cfg := &config.Config{}

	if err := prefab.Config.Unmarshal("survey", &cfg.Survey); err != nil {
		log.Fatalf("Failed to unmarshal survey config: %v", err)
	}
	if err := prefab.Config.Unmarshal("photos", &cfg.Photos); err != nil {
		log.Fatalf("Failed to unmarshal photos config: %v", err)
	}
	if err := prefab.Config.Unmarshal("trails", &cfg.Trails); err != nil {
		log.Fatalf("Failed to unmarshal trails config: %v", err)
	}

	switch command {
	case "export", "serve":
		if cfg.Survey.DataDir == "" {
			log.Fatal("survey.data_dir must be set")
		}
	default:
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}
	return cfg
}

// runExport writes the report in the requested format.
func runExport(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "geojson", "Output format: geojson or kml")
	out := fs.String("out", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report, err := st.LoadReport()
	if err != nil {
		return err
	}

	var data []byte
	switch *format {
	case "geojson":
		data, err = export.SitesGeoJSON(report)
	case "kml":
		data, err = export.SitesKML(report)
	default:
		return fmt.Errorf("unknown export format %q", *format)
	}
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}
	log.Printf("Wrote %d site(s) to %s", len(report.Intersections), *out)
	return nil
}

// runServe starts the map viewer: an embedded Leaflet page over the exported
// site GeoJSON. Server settings (port, etc.) come from prefab.yaml.
func runServe(st *store.Store) error {
	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/", viewerHandler),
		prefab.WithHTTPHandlerFunc("/data/sites.geojson", sitesHandler(st)),
	)
	return server.Start()
}

// viewerHandler serves the embedded map page at the server root.
func viewerHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := staticFiles.ReadFile("static/map.html")
	if err != nil {
		http.Error(w, "viewer page missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// sitesHandler serves the current report as GeoJSON, re-reading the store on
// each request so a freshly-run pipeline shows up on reload.
func sitesHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := st.LoadReport()
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		data, err := export.SitesGeoJSON(report)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(data)
	}
}
