package services

import (
	"fmt"

	"gorm.io/gorm"
)

// referenceTables are the tables the checker requires at least one row in
var referenceTables = []string{
	"regions", "departements", "communes", "bassins", "cours_eau", "stations",
}

// IntegrityReport summarizes the database health checks
type IntegrityReport struct {
	IntegrityOK    bool             `json:"integrity_ok"`
	IntegrityMsg   string           `json:"integrity_msg,omitempty"`
	ForeignKeysOK  bool             `json:"foreign_keys_ok"`
	FKViolations   int              `json:"fk_violations"`
	RowCounts      map[string]int64 `json:"row_counts"`
	EmptyTables    []string         `json:"empty_tables,omitempty"`
	JoinSampleOK   bool             `json:"join_sample_ok"`
	StationsLinked int64            `json:"stations_linked"`
}

// OK is true when every check passed
func (r *IntegrityReport) OK() bool {
	return r.IntegrityOK && r.ForeignKeysOK && len(r.EmptyTables) == 0 && r.JoinSampleOK
}

// CheckIntegrity runs PRAGMA integrity_check, PRAGMA foreign_key_check,
// per-table minimum row counts and a region→station join sample
func CheckIntegrity(db *gorm.DB) (*IntegrityReport, error) {
	report := &IntegrityReport{
		RowCounts: make(map[string]int64),
	}

	var integrity string
	if err := db.Raw("PRAGMA integrity_check").Scan(&integrity).Error; err != nil {
		return nil, fmt.Errorf("integrity_check failed to run: %w", err)
	}
	report.IntegrityOK = integrity == "ok"
	if !report.IntegrityOK {
		report.IntegrityMsg = integrity
	}

	var violations []struct {
		Table  string `gorm:"column:table"`
		RowID  int64  `gorm:"column:rowid"`
		Parent string `gorm:"column:parent"`
	}
	if err := db.Raw("PRAGMA foreign_key_check").Scan(&violations).Error; err != nil {
		return nil, fmt.Errorf("foreign_key_check failed to run: %w", err)
	}
	report.FKViolations = len(violations)
	report.ForeignKeysOK = len(violations) == 0

	for _, table := range referenceTables {
		var count int64
		if err := db.Table(table).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		report.RowCounts[table] = count
		if count == 0 {
			report.EmptyTables = append(report.EmptyTables, table)
		}
	}

	// Every station must be reachable from a region through the hierarchy
	err := db.Table("stations s").
		Joins("JOIN communes c ON s.commune_id = c.id").
		Joins("JOIN departements d ON c.departement_id = d.id").
		Joins("JOIN regions r ON d.region_id = r.id").
		Count(&report.StationsLinked).Error
	if err != nil {
		return nil, fmt.Errorf("hierarchy join sample failed: %w", err)
	}
	report.JoinSampleOK = report.StationsLinked == report.RowCounts["stations"]

	return report, nil
}
