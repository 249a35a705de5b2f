// Package testutil opens throwaway SQLite databases seeded with a small visit dataset.
package testutil

import (
	"path/filepath"
	"testing"

	"hcp-visit-tracker/internal/config"
	"hcp-visit-tracker/internal/database"
	"hcp-visit-tracker/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Fixture holds the rows created by SeedVisits
type Fixture struct {
	North, South       models.Territory
	RepOne, RepTwo     models.SalesRep
	Alpha, Beta, Gamma models.Hcp
	Visits             []models.Visit
}

// NewDB opens a migrated SQLite database in a temp dir that lives as long as the test
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dialector, err := database.Dialector(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "visits.db"),
	})
	require.NoError(t, err)

	db, err := gorm.Open(dialector, database.GormConfig(logger.Discard))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// SeedVisits creates two territories, two reps, three HCPs and four visits:
//
//	2024-05-10 completed 40m  Rep One / Dr. Alpha / North
//	2024-05-11 scheduled 20m  Rep Two / Dr. Beta  / South
//	2024-05-09 completed 55m  Rep One / Dr. Gamma / North
//	2024-05-08 cancelled  0m  Rep Two / Dr. Alpha / South
func SeedVisits(t testing.TB, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{
		North: models.Territory{Name: "North Territory", Code: "N"},
		South: models.Territory{Name: "South Territory", Code: "S"},
	}
	require.NoError(t, db.Create(&f.North).Error)
	require.NoError(t, db.Create(&f.South).Error)

	f.RepOne = models.SalesRep{Name: "Rep One", Email: strPtr("rep.one@example.com"), TerritoryID: &f.North.ID}
	f.RepTwo = models.SalesRep{Name: "Rep Two", Email: strPtr("rep.two@example.com"), TerritoryID: &f.South.ID}
	require.NoError(t, db.Create(&f.RepOne).Error)
	require.NoError(t, db.Create(&f.RepTwo).Error)

	f.Alpha = models.Hcp{Name: "Dr. Alpha", AreaTag: "City Hospital - Cardio", Specialty: "Cardiology"}
	f.Beta = models.Hcp{Name: "Dr. Beta", AreaTag: "Metro Clinic - Neuro", Specialty: "Neurology"}
	f.Gamma = models.Hcp{Name: "Dr. Gamma", AreaTag: "Regional Center - Trauma", Specialty: "Trauma"}
	require.NoError(t, db.Create(&f.Alpha).Error)
	require.NoError(t, db.Create(&f.Beta).Error)
	require.NoError(t, db.Create(&f.Gamma).Error)

	f.Visits = []models.Visit{
		{
			VisitDate:       "2024-05-10",
			Status:          models.VisitStatusCompleted,
			DurationMinutes: 40,
			Notes:           strPtr("Discussed performance metrics."),
			RepID:           f.RepOne.ID,
			HcpID:           f.Alpha.ID,
			TerritoryID:     f.North.ID,
		},
		{
			VisitDate:       "2024-05-11",
			Status:          models.VisitStatusScheduled,
			DurationMinutes: 20,
			Notes:           strPtr("Planned product demonstration."),
			RepID:           f.RepTwo.ID,
			HcpID:           f.Beta.ID,
			TerritoryID:     f.South.ID,
		},
		{
			VisitDate:       "2024-05-09",
			Status:          models.VisitStatusCompleted,
			DurationMinutes: 55,
			Notes:           strPtr("Follow-up on training."),
			RepID:           f.RepOne.ID,
			HcpID:           f.Gamma.ID,
			TerritoryID:     f.North.ID,
		},
		{
			VisitDate:       "2024-05-08",
			Status:          models.VisitStatusCancelled,
			DurationMinutes: 0,
			Notes:           strPtr("HCP unavailable."),
			RepID:           f.RepTwo.ID,
			HcpID:           f.Alpha.ID,
			TerritoryID:     f.South.ID,
		},
	}
	require.NoError(t, db.Create(&f.Visits).Error)

	return f
}

func strPtr(s string) *string {
	return &s
}
