package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"trmnlhealth/internal/domain"
	"trmnlhealth/internal/logger"
)

// TrackerRepository loads the full daily record history, sorted ascending
// by date.
type TrackerRepository interface {
	List() ([]domain.DailyRecord, error)
}

type trackerCsvRepositoryHandler struct {
	CsvPath string
}

func NewTrackerCsvRepository(csvPath string) TrackerRepository {
	return trackerCsvRepositoryHandler{
		CsvPath: csvPath,
	}
}

// optionalFloat decodes a numeric CSV cell leniently: blank or unparseable
// cells become missing instead of failing the row. The tracker file is
// hand-edited, so stray text in number columns is expected.
type optionalFloat struct {
	value *float64
}

func (f *optionalFloat) UnmarshalCSV(cell string) error {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	f.value = &v
	return nil
}

type trackerRow struct {
	Date          string        `csv:"date"`
	WeightKg      optionalFloat `csv:"weight_kg"`
	WaistCm       optionalFloat `csv:"waist_cm"`
	SleepHours    optionalFloat `csv:"sleep_hours"`
	BodyFatPct    optionalFloat `csv:"body_fat_pct"`
	RecoveryScore optionalFloat `csv:"recovery_score"`
	HrvRmssd      optionalFloat `csv:"hrv_rmssd"`
	RestingHr     optionalFloat `csv:"resting_hr"`
	Strain        optionalFloat `csv:"strain"`
	MealType      string        `csv:"meal_type"`
	CaloriesKcal  optionalFloat `csv:"calories_kcal"`
	ProteinG      optionalFloat `csv:"protein_g"`
	CarbsG        optionalFloat `csv:"carbs_g"`
	FatG          optionalFloat `csv:"fat_g"`
	Notes         string        `csv:"notes"`
}

func (h trackerCsvRepositoryHandler) List() ([]domain.DailyRecord, error) {
	f, err := os.Open(h.CsvPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", domain.ErrInputNotFound, h.CsvPath)
	} else if err != nil {
		return nil, fmt.Errorf("failed to open tracker csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// the file is hand-edited: a row with too few or too many cells
	// must not fail the whole load, missing cells just stay missing
	reader.FieldsPerRecord = -1

	rows := []trackerRow{}
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse tracker csv: %w", err)
	}

	records := []domain.DailyRecord{}
	skipped := 0
	for _, row := range rows {
		rawDate := strings.TrimSpace(row.Date)
		if rawDate == "" {
			skipped++
			continue
		}
		date, err := time.Parse(time.DateOnly, rawDate)
		if err != nil {
			skipped++
			continue
		}

		records = append(records, domain.DailyRecord{
			Date:          date,
			WeightKg:      row.WeightKg.value,
			WaistCm:       row.WaistCm.value,
			SleepHours:    row.SleepHours.value,
			BodyFatPct:    row.BodyFatPct.value,
			RecoveryScore: row.RecoveryScore.value,
			HrvRmssd:      row.HrvRmssd.value,
			RestingHr:     row.RestingHr.value,
			Strain:        row.Strain.value,
			MealType:      cleanText(row.MealType),
			CaloriesKcal:  row.CaloriesKcal.value,
			ProteinG:      row.ProteinG.value,
			CarbsG:        row.CarbsG.value,
			FatG:          row.FatG.value,
			Notes:         strings.TrimSpace(row.Notes),
		})
	}

	if skipped > 0 {
		logger.Debug("skipped %d tracker rows with missing or malformed dates", skipped)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return records, nil
}

func cleanText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
