package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"ecoulement_app_go/config"
	"ecoulement_app_go/db"
	"ecoulement_app_go/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	report, err := services.CheckIntegrity(db.DB)
	if err != nil {
		log.Fatalf("Integrity check failed to run: %v", err)
	}

	fmt.Printf("integrity_check:    %s\n", status(report.IntegrityOK, report.IntegrityMsg))
	fmt.Printf("foreign_key_check:  %s (%d violations)\n", status(report.ForeignKeysOK, ""), report.FKViolations)
	fmt.Printf("join sample:        %s (%d stations linked to a region)\n", status(report.JoinSampleOK, ""), report.StationsLinked)

	tables := make([]string, 0, len(report.RowCounts))
	for t := range report.RowCounts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	fmt.Println("row counts:")
	for _, t := range tables {
		fmt.Printf("  %-14s %d\n", t, report.RowCounts[t])
	}
	for _, t := range report.EmptyTables {
		fmt.Printf("[WARNING] table %s is empty\n", t)
	}

	if !report.OK() {
		fmt.Println("database check FAILED")
		os.Exit(1)
	}
	fmt.Println("database check passed")
}

func status(ok bool, msg string) string {
	if ok {
		return "ok"
	}
	if msg != "" {
		return "FAILED (" + msg + ")"
	}
	return "FAILED"
}
