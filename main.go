package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"f50-race-telemetry/live"
	"f50-race-telemetry/maneuver"
	"f50-race-telemetry/storage"
	"f50-race-telemetry/tack"
	"f50-race-telemetry/telemetry"
)

func main() {
	var (
		logsDir   = flag.String("logs", "", "directory of boat-log CSVs to process in batch mode")
		rulesPath = flag.String("rules", "", "YAML rule table (default: built-in F50 rules)")
		outPath   = flag.String("out", "data/normalized.csv", "normalized CSV output path")
		dbPath    = flag.String("db", "", "SQLite database path (empty disables persistence)")
		strict    = flag.Bool("strict", false, "abort the batch on the first rejected row")
		liveMode  = flag.Bool("live", false, "run the live MQTT collector and API server")
		listen    = flag.String("listen", ":8080", "API server listen address (live mode)")
		broker    = flag.String("broker", "", "MQTT broker host (default from config)")
		port      = flag.Int("port", 0, "MQTT broker port")
		topic     = flag.String("topic", "", "MQTT telemetry topic")
	)
	flag.Parse()

	table, err := loadRuleTable(*rulesPath)
	if err != nil {
		log.Fatalf("[Main] Rule table: %v", err)
	}
	log.Printf("[Main] Rule table loaded: %d fields", table.Len())

	var db *storage.DB
	if *dbPath != "" {
		db, err = storage.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("[Main] Database: %v", err)
		}
		defer db.Close()
	}

	if *liveMode {
		runLive(table, db, *listen, *broker, *port, *topic, *outPath)
		return
	}

	if *logsDir == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -logs for batch mode or -live for the collector")
		flag.Usage()
		os.Exit(2)
	}

	if err := runBatch(table, db, *logsDir, *outPath, *strict); err != nil {
		log.Fatalf("[Main] Batch failed: %v", err)
	}
}

func loadRuleTable(path string) (*tack.RuleTable, error) {
	if path == "" {
		return tack.F50Table(), nil
	}
	return tack.LoadRules(path)
}

// runBatch imports the boat logs, normalizes every row to starboard-tack
// convention and persists the results.
func runBatch(table *tack.RuleTable, db *storage.DB, logsDir, outPath string, strict bool) error {
	rows, err := storage.ImportBoatLogs(logsDir)
	if err != nil {
		return err
	}
	log.Printf("[Batch] Imported %d rows", len(rows))

	result, err := tack.NormalizeBatch(rows, table, strict)
	if err != nil {
		return err
	}
	log.Printf("[Batch] Normalized %d rows, skipped %d", result.OK, result.Skipped)
	for _, f := range result.Failures {
		log.Printf("[Batch] Row %d rejected: %v", f.Index, f.Err)
	}

	writer, err := storage.NewRowWriter(outPath, telemetry.DefaultCatalog().Names())
	if err != nil {
		return err
	}
	defer writer.Close()
	for _, row := range result.Rows {
		if err := writer.WriteRow(row); err != nil {
			return err
		}
	}
	log.Printf("[Batch] Wrote %s", outPath)

	// Maneuvers are detected on the raw rows: the detector reads the TWA
	// sign changes that normalization removes.
	byBoat := make(map[string][]telemetry.Row)
	for _, row := range rows {
		byBoat[row.Boat()] = append(byBoat[row.Boat()], row)
	}

	var maneuvers []maneuver.Maneuver
	for boat, boatRows := range byBoat {
		found := maneuver.Detect(boatRows, maneuver.DefaultConfig())
		log.Printf("[Batch] %s: %d maneuvers", boat, len(found))
		maneuvers = append(maneuvers, found...)
	}

	summary := maneuver.Summarize(maneuvers)
	log.Printf("[Batch] %d maneuvers (%d tacks, %d gybes), mean BSP loss %.1f km/h, %.0f%% flying",
		summary.Count, summary.Tacks, summary.Gybes, summary.MeanBSPLoss, summary.FlyingRate*100)

	if db != nil {
		runID, err := db.CreateRun("batch:" + logsDir)
		if err != nil {
			return err
		}
		if err := db.InsertRows(runID, result.Rows); err != nil {
			return err
		}
		if err := db.InsertManeuvers(runID, maneuvers); err != nil {
			return err
		}
		n, err := db.CountSamples(runID)
		if err != nil {
			return err
		}
		log.Printf("[Batch] Run %s: %d samples persisted", runID, n)
	}

	return nil
}

// runLive starts the MQTT collector and serves the API until interrupted.
func runLive(table *tack.RuleTable, db *storage.DB, listen, broker string, port int, topic, outPath string) {
	config := live.DefaultConfig()
	if broker != "" {
		config.MQTTBroker = broker
	}
	if port != 0 {
		config.MQTTPort = port
	}
	if topic != "" {
		config.MQTTTopic = topic
	}
	config.CSVPath = outPath

	buffer := storage.NewRingBuffer(config.BufferSize)

	var writer live.WriterInterface
	if config.EnableCSV {
		w, err := storage.NewRowWriter(config.CSVPath, telemetry.DefaultCatalog().Names())
		if err != nil {
			log.Fatalf("[Main] CSV writer: %v", err)
		}
		writer = w
	}

	collector := live.NewCollector(config, table, buffer, writer)
	if err := collector.Start(); err != nil {
		log.Printf("[WARN] Collector failed to start: %v", err)
		log.Printf("[WARN] Serving API without live data")
	} else {
		defer collector.Stop()
	}

	server := NewAPIServer(collector, buffer, db)

	log.Printf("[Main] API server listening on %s", listen)
	httpServer := &http.Server{Addr: listen, Handler: server.Routes()}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Main] Server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Printf("[Main] Shutting down")
	httpServer.Close()
}
