package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FlowStat is one slice of the flow-type distribution
type FlowStat struct {
	Label      string  `json:"label"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// GetFlowDistribution counts cached observations per flow label over the
// last `days` days. Slices are ordered by count descending, then label, so
// chart rendering is deterministic.
func GetFlowDistribution(db *gorm.DB, days int) ([]FlowStat, error) {
	if days <= 0 {
		days = 90
	}
	since := time.Now().AddDate(0, 0, -days)

	var stats []FlowStat
	err := db.Table("observations").
		Select("flow_label AS label, COUNT(*) AS count").
		Where("observed_at >= ? AND flow_label != ''", since).
		Group("flow_label").
		Order("count DESC, flow_label").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute flow distribution: %w", err)
	}

	var total int64
	for _, s := range stats {
		total += s.Count
	}
	if total > 0 {
		for i := range stats {
			stats[i].Percentage = float64(stats[i].Count) * 100 / float64(total)
		}
	}

	return stats, nil
}
