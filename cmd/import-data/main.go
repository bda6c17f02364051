package main

import (
	"context"
	"flag"
	"log"
	"time"

	"ecoulement_app_go/config"
	"ecoulement_app_go/db"
	"ecoulement_app_go/models"
	"ecoulement_app_go/services"
	"ecoulement_app_go/services/hubeau"
)

func main() {
	skipSnapshot := flag.Bool("skip-snapshot", false, "do not archive an XLSX snapshot after import")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Region{},
		&models.Departement{},
		&models.Commune{},
		&models.Bassin{},
		&models.CoursEau{},
		&models.Station{},
		&models.Observation{},
		&models.Campagne{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := services.InitializeFTS5(db.DB); err != nil {
		log.Fatalf("Failed to initialize FTS5: %v", err)
	}

	client := hubeau.NewClient(cfg.HubeauBaseURL)
	importer := services.NewStationImporter(db.DB, client)

	result, err := importer.Run()
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Println(result.Summary())

	// Stations created before the triggers existed need a manual index pass
	if err := services.BackfillFTS5(db.DB); err != nil {
		log.Fatalf("Failed to backfill search index: %v", err)
	}

	if !*skipSnapshot {
		archiveSnapshot(cfg)
	}

	// Email the import report to the ops address if one is configured
	if cfg.EmailOpsTo != "" {
		email := services.BuildImportReportEmail(cfg.EmailOpsTo, result)
		if err := services.SendEmail(cfg, email); err != nil {
			log.Printf("Failed to send import report: %v", err)
		}
	}

	log.Println("Import completed successfully!")
}

// archiveSnapshot writes the full station dataset to the configured storage
// provider so each import leaves a dated XLSX trace.
func archiveSnapshot(cfg *config.Config) {
	services.InitializeStorage(cfg)

	buf, err := services.GenerateStationWorkbook(db.DB, services.StationFilter{})
	if err != nil {
		log.Printf("Failed to build snapshot workbook: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	key := services.SnapshotKey(time.Now())
	res, err := services.Storage.UploadReader(ctx, buf, key,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", int64(buf.Len()))
	if err != nil {
		log.Printf("Failed to archive snapshot: %v", err)
		return
	}
	log.Printf("Snapshot archived: %s", res.Key)
}
