package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckIntegrity(t *testing.T) {
	t.Run("healthy populated database passes", func(t *testing.T) {
		db := setupServiceTestDB(t)
		ids := seedHierarchy(t, db)
		seedStation(t, db, ids, "V1234567", "Le Buizin à Vaux")

		report, err := CheckIntegrity(db)
		assert.NoError(t, err)
		assert.True(t, report.OK())
		assert.True(t, report.IntegrityOK)
		assert.True(t, report.ForeignKeysOK)
		assert.Equal(t, 0, report.FKViolations)
		assert.Empty(t, report.EmptyTables)
		assert.Equal(t, int64(1), report.RowCounts["stations"])
		assert.Equal(t, int64(1), report.StationsLinked)
		assert.True(t, report.JoinSampleOK)
	})

	t.Run("empty tables are reported", func(t *testing.T) {
		db := setupServiceTestDB(t)
		seedHierarchy(t, db)
		// Everything seeded except a station

		report, err := CheckIntegrity(db)
		assert.NoError(t, err)
		assert.False(t, report.OK())
		assert.Contains(t, report.EmptyTables, "stations")
		assert.NotContains(t, report.EmptyTables, "regions")
	})

	t.Run("orphan station breaks the join sample", func(t *testing.T) {
		db := setupServiceTestDB(t)
		ids := seedHierarchy(t, db)
		seedStation(t, db, ids, "V1234567", "Le Buizin à Vaux")

		// Point one station at a commune that does not exist
		assert.NoError(t, db.Exec(
			"UPDATE stations SET commune_id = 'missing' WHERE code = 'V1234567'").Error)

		report, err := CheckIntegrity(db)
		assert.NoError(t, err)
		assert.False(t, report.JoinSampleOK)
		assert.Equal(t, int64(0), report.StationsLinked)
		assert.False(t, report.OK())
	})
}
