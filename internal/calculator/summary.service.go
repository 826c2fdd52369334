package calculator

import (
	"time"

	"github.com/montanaflynn/stats"

	"trmnlhealth/internal/config"
	"trmnlhealth/internal/domain"
)

// SummaryService turns the full record history into a Summary for one run.
type SummaryService interface {
	// Summarize expects records sorted ascending by date and returns
	// domain.ErrEmptyInput when there are none. lookbackDays is clamped
	// to a minimum of 1.
	Summarize(records []domain.DailyRecord, lookbackDays int) (*domain.Summary, error)
}

type summaryServiceHandler struct {
	TargetWeightKg         float64
	StartingWeightOverride *float64
	MacroTargets           config.MacroTargets

	// nowFn is swapped in tests to freeze the generation timestamp
	nowFn func() time.Time
}

func NewSummaryService(settings *config.Settings) SummaryService {
	return &summaryServiceHandler{
		TargetWeightKg:         settings.TargetWeightKg,
		StartingWeightOverride: settings.StartingWeightOverride,
		MacroTargets:           settings.MacroTargets,
		nowFn:                  time.Now,
	}
}

func (h *summaryServiceHandler) Summarize(records []domain.DailyRecord, lookbackDays int) (*domain.Summary, error) {
	if len(records) == 0 {
		return nil, domain.ErrEmptyInput
	}
	if lookbackDays < 1 {
		lookbackDays = 1
	}

	latest := records[len(records)-1]
	previous := findPrevious(records)
	startWeight := h.StartingWeightOverride
	if startWeight == nil {
		startWeight = firstWeight(records)
	}

	recent := takeRecent(records, lookbackDays, latest.Date)

	startDate := records[0].Date
	weight := domain.WeightSnapshot{
		LatestWeight:      latest.WeightKg,
		StartWeight:       startWeight,
		TargetWeight:      h.TargetWeightKg,
		WaistCm:           latest.WaistCm,
		LookbackAvgWeight: mean(recent, func(r domain.DailyRecord) *float64 { return r.WeightKg }),
		LookbackDays:      lookbackDays,
		LatestDate:        latest.Date,
		StartDate:         startDate,
		DaysSinceStart:    daysBetween(startDate, latest.Date),
	}
	if previous != nil {
		weight.PreviousWeight = previous.WeightKg
	}

	macroLatest := domain.MacroSnapshot{
		CaloriesKcal: latest.CaloriesKcal,
		ProteinG:     latest.ProteinG,
		CarbsG:       latest.CarbsG,
		FatG:         latest.FatG,
	}
	macroAverage := domain.MacroSnapshot{
		CaloriesKcal: mean(recent, func(r domain.DailyRecord) *float64 { return r.CaloriesKcal }),
		ProteinG:     mean(recent, func(r domain.DailyRecord) *float64 { return r.ProteinG }),
		CarbsG:       mean(recent, func(r domain.DailyRecord) *float64 { return r.CarbsG }),
		FatG:         mean(recent, func(r domain.DailyRecord) *float64 { return r.FatG }),
	}

	recoveryLatest := domain.RecoverySnapshot{
		SleepHours:    latest.SleepHours,
		RecoveryScore: latest.RecoveryScore,
		HrvRmssd:      latest.HrvRmssd,
		RestingHr:     latest.RestingHr,
		Strain:        latest.Strain,
	}
	recoveryAverage := domain.RecoverySnapshot{
		SleepHours:    mean(recent, func(r domain.DailyRecord) *float64 { return r.SleepHours }),
		RecoveryScore: mean(recent, func(r domain.DailyRecord) *float64 { return r.RecoveryScore }),
		HrvRmssd:      mean(recent, func(r domain.DailyRecord) *float64 { return r.HrvRmssd }),
		RestingHr:     mean(recent, func(r domain.DailyRecord) *float64 { return r.RestingHr }),
		Strain:        mean(recent, func(r domain.DailyRecord) *float64 { return r.Strain }),
	}

	targetWeight := h.TargetWeightKg
	summary := &domain.Summary{
		LatestRecord:     latest,
		Weight:           weight,
		MacroLatest:      macroLatest,
		MacroAverage:     macroAverage,
		RecoveryLatest:   recoveryLatest,
		RecoveryAverage:  recoveryAverage,
		WeightDeltaPrev:  delta(weight.LatestWeight, weight.PreviousWeight),
		WeightDeltaStart: delta(weight.LatestWeight, weight.StartWeight),
		TargetDelta:      delta(weight.LatestWeight, &targetWeight),
		ProgressPercent:  progressPercent(weight.StartWeight, weight.LatestWeight, targetWeight),
		GeneratedAt:      h.nowFn().UTC(),
	}

	return summary, nil
}

// findPrevious scans backward from the second-to-last record for the most
// recent day with a logged weight. Days without a weight don't count as a
// comparison point.
func findPrevious(records []domain.DailyRecord) *domain.DailyRecord {
	for i := len(records) - 2; i >= 0; i-- {
		if records[i].WeightKg != nil {
			return &records[i]
		}
	}
	return nil
}

func firstWeight(records []domain.DailyRecord) *float64 {
	for _, record := range records {
		if record.WeightKg != nil {
			return record.WeightKg
		}
	}
	return nil
}

// takeRecent trims the history to the trailing lookbackDays calendar days,
// anchored to the latest record's date. The window is date-based, not
// record-count-based: a record exactly lookbackDays-1 days before the
// latest is included, one day further back is not.
func takeRecent(records []domain.DailyRecord, lookbackDays int, latestDate time.Time) []domain.DailyRecord {
	cutoff := latestDate.AddDate(0, 0, -(lookbackDays - 1))
	recent := []domain.DailyRecord{}
	for _, record := range records {
		if !record.Date.Before(cutoff) {
			recent = append(recent, record)
		}
	}
	return recent
}

// mean averages the non-missing values of one field across the window,
// returning nil when every value is missing. Each field contributes
// independently: a record missing sleep still counts toward calories.
func mean(records []domain.DailyRecord, field func(domain.DailyRecord) *float64) *float64 {
	values := []float64{}
	for _, record := range records {
		if v := field(record); v != nil {
			values = append(values, *v)
		}
	}

	m, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	return &m
}

func delta(current, reference *float64) *float64 {
	if current == nil || reference == nil {
		return nil
	}
	d := *current - *reference
	return &d
}

func progressPercent(startWeight, latestWeight *float64, targetWeight float64) *float64 {
	if startWeight == nil || latestWeight == nil || *startWeight == targetWeight {
		return nil
	}

	totalChange := *startWeight - targetWeight
	achieved := *startWeight - *latestWeight
	percent := clamp(achieved/totalChange*100, 0, 100)
	return &percent
}

func clamp(value, minValue, maxValue float64) float64 {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
