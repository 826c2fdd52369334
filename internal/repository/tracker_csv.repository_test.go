package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"trmnlhealth/internal/domain"
)

func writeCsv(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracker.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func newDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func Test_TrackerCsvRepository_List(t *testing.T) {
	t.Run("parses and sorts by date", func(t *testing.T) {
		path := writeCsv(t, `date,weight_kg,meal_type,calories_kcal,notes
2024-01-08,78.0,omad,1000, cutting week
2024-01-07,80.0,,,
`)
		h := NewTrackerCsvRepository(path)

		records, err := h.List()
		require.NoError(t, err)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]domain.DailyRecord{
					{Date: newDate(2024, 1, 7), WeightKg: domain.Float(80)},
					{
						Date:         newDate(2024, 1, 8),
						WeightKg:     domain.Float(78),
						MealType:     domain.String("omad"),
						CaloriesKcal: domain.Float(1000),
						Notes:        "cutting week",
					},
				},
				records,
			),
		)
	})

	t.Run("rows with bad dates are skipped", func(t *testing.T) {
		path := writeCsv(t, `date,weight_kg
not-a-date,78.0
,79.0
2024-01-08,80.0
`)
		h := NewTrackerCsvRepository(path)

		records, err := h.List()
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, newDate(2024, 1, 8), records[0].Date)
	})

	t.Run("junk numeric cells become missing", func(t *testing.T) {
		path := writeCsv(t, `date,weight_kg,sleep_hours
2024-01-08,around 80,7.5
`)
		h := NewTrackerCsvRepository(path)

		records, err := h.List()
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Nil(t, records[0].WeightKg)
		require.InDelta(t, 7.5, *records[0].SleepHours, 1e-9)
	})

	t.Run("ragged rows load with missing cells", func(t *testing.T) {
		path := writeCsv(t, `date,weight_kg,sleep_hours
2024-01-07,80.0,7.5
2024-01-08
2024-01-09,79.0,6.5,stray-extra-cell
`)
		h := NewTrackerCsvRepository(path)

		records, err := h.List()
		require.NoError(t, err)
		require.Len(t, records, 3)

		// short row keeps its date, everything else stays missing
		require.Equal(t, newDate(2024, 1, 8), records[1].Date)
		require.Nil(t, records[1].WeightKg)
		require.Nil(t, records[1].SleepHours)

		// the long row's cells still land on their columns
		require.InDelta(t, 79.0, *records[2].WeightKg, 1e-9)
		require.InDelta(t, 6.5, *records[2].SleepHours, 1e-9)
	})

	t.Run("missing columns parse as missing values", func(t *testing.T) {
		path := writeCsv(t, `date,weight_kg
2024-01-08,78.0
`)
		h := NewTrackerCsvRepository(path)

		records, err := h.List()
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Nil(t, records[0].CaloriesKcal)
		require.Nil(t, records[0].MealType)
		require.Equal(t, "", records[0].Notes)
	})

	t.Run("absent file", func(t *testing.T) {
		h := NewTrackerCsvRepository(filepath.Join(t.TempDir(), "nope.csv"))

		_, err := h.List()
		require.ErrorIs(t, err, domain.ErrInputNotFound)
	})
}
