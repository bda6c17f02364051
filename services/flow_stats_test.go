package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFlowDistribution(t *testing.T) {
	db := setupServiceTestDB(t)
	ids := seedHierarchy(t, db)
	station := seedStation(t, db, ids, "V1234567", "Le Buizin à Vaux")

	seedObservation(t, db, station.ID, "Ecoulement visible", 5)
	seedObservation(t, db, station.ID, "Ecoulement visible", 10)
	seedObservation(t, db, station.ID, "Ecoulement visible", 20)
	seedObservation(t, db, station.ID, "Assec", 15)
	// Outside the 90 day window
	seedObservation(t, db, station.ID, "Assec", 120)
	// Unlabelled rows are excluded
	seedObservation(t, db, station.ID, "", 3)

	t.Run("counts and percentages over the window", func(t *testing.T) {
		stats, err := GetFlowDistribution(db, 90)
		assert.NoError(t, err)
		assert.Len(t, stats, 2)

		// Ordered by count descending
		assert.Equal(t, "Ecoulement visible", stats[0].Label)
		assert.Equal(t, int64(3), stats[0].Count)
		assert.InDelta(t, 75.0, stats[0].Percentage, 0.01)

		assert.Equal(t, "Assec", stats[1].Label)
		assert.Equal(t, int64(1), stats[1].Count)
		assert.InDelta(t, 25.0, stats[1].Percentage, 0.01)
	})

	t.Run("wider window includes older rows", func(t *testing.T) {
		stats, err := GetFlowDistribution(db, 365)
		assert.NoError(t, err)
		assert.Len(t, stats, 2)
		assert.Equal(t, int64(2), stats[1].Count)
	})

	t.Run("non-positive days falls back to 90", func(t *testing.T) {
		stats, err := GetFlowDistribution(db, 0)
		assert.NoError(t, err)
		assert.Len(t, stats, 2)
		assert.Equal(t, int64(3), stats[0].Count)
	})

	t.Run("empty table gives empty stats", func(t *testing.T) {
		empty := setupServiceTestDB(t)
		stats, err := GetFlowDistribution(empty, 90)
		assert.NoError(t, err)
		assert.Empty(t, stats)
	})
}
