package service

import (
	"fmt"
	"math"
	"time"

	"trmnlhealth/internal/config"
	"trmnlhealth/internal/domain"
	"trmnlhealth/internal/logger"
)

// missingValue is the em-dash rendered for any value that was never
// logged. Formatting here must stay byte-stable: the fingerprint is
// computed over the rendered strings.
const missingValue = "—"

// DashboardService renders a Summary plus a recent-history window into the
// published payload. Render is a pure function of its inputs.
type DashboardService interface {
	Render(summary *domain.Summary, history []domain.DailyRecord) *domain.Payload
}

type dashboardServiceHandler struct {
	MacroTargets   config.MacroTargets
	TargetWeightKg float64
	Timezone       string
}

func NewDashboardService(settings *config.Settings) DashboardService {
	return dashboardServiceHandler{
		MacroTargets:   settings.MacroTargets,
		TargetWeightKg: settings.TargetWeightKg,
		Timezone:       settings.Timezone,
	}
}

func (h dashboardServiceHandler) Render(summary *domain.Summary, history []domain.DailyRecord) *domain.Payload {
	loc := location(h.Timezone)
	generatedLocal := summary.GeneratedAt.In(loc)

	header := fmtNumber(summary.Weight.LatestWeight, " kg", 1)
	subtitle := fmt.Sprintf("%s to target (%.1f kg)", fmtDelta(summary.TargetDelta, " kg", 1), h.TargetWeightKg)

	var progress *domain.Progress
	if summary.ProgressPercent != nil {
		progress = &domain.Progress{
			Percent: math.Round(*summary.ProgressPercent*10) / 10,
			Label:   subtitle,
		}
	}

	cards := []domain.Card{
		h.weightCard(summary, header),
		h.nutritionCard(summary),
		h.recoveryCard(summary),
		h.notesCard(summary),
	}

	payload := &domain.Payload{
		Header:      header,
		Subtitle:    subtitle,
		GeneratedAt: generatedLocal.Format("2006-01-02 15:04"),
		Cards:       pruneCards(cards),
		Charts:      h.charts(summary, history),
		Projection:  goalProjection(summary, generatedLocal),
		Progress:    progress,
	}

	return payload
}

func (h dashboardServiceHandler) weightCard(summary *domain.Summary, header string) domain.Card {
	meal := "n/a"
	if summary.LatestRecord.MealType != nil {
		meal = *summary.LatestRecord.MealType
	}

	return domain.Card{
		Title: "Weight",
		Rows: []domain.CardRow{
			{
				Label: "Today",
				Value: fmt.Sprintf("%s · %s", header, summary.Weight.LatestDate.Format("Mon Jan 02")),
				Hint:  fmt.Sprintf("Meal: %s", meal),
			},
			{
				Label: "Vs prev",
				Value: fmtDelta(summary.WeightDeltaPrev, " kg", 1),
				Hint:  "Since last logged day",
			},
			{
				Label: fmt.Sprintf("%dd avg", summary.Weight.LookbackDays),
				Value: fmtNumber(summary.Weight.LookbackAvgWeight, " kg", 1),
				Hint:  "Rolling average",
			},
			{
				Label: "Waist",
				Value: fmtNumber(summary.Weight.WaistCm, " cm", 1),
			},
		},
	}
}

func (h dashboardServiceHandler) nutritionCard(summary *domain.Summary) domain.Card {
	targets := h.MacroTargets
	calorieHint := fmt.Sprintf("%d-%d kcal", int(targets.CaloriesMin), int(targets.CaloriesMax))

	return domain.Card{
		Title: "Nutrition",
		Rows: []domain.CardRow{
			{
				Label: "Calories",
				Value: fmtNumber(summary.MacroLatest.CaloriesKcal, " kcal", 0),
				Hint:  fmt.Sprintf("%s · %s", calorieHint, complianceBadge(summary.MacroLatest.CaloriesKcal, targets.CaloriesMin, targets.CaloriesMax)),
			},
			{
				Label: "Protein",
				Value: fmtNumber(summary.MacroLatest.ProteinG, " g", 0),
				Hint:  fmt.Sprintf("Goal %.0fg · %s", targets.ProteinG, macroBadge(summary.MacroLatest.ProteinG, targets.ProteinG)),
			},
			{
				Label: "Carbs",
				Value: fmtNumber(summary.MacroLatest.CarbsG, " g", 0),
				Hint:  fmt.Sprintf("Goal %.0fg · %s", targets.CarbsG, macroBadge(summary.MacroLatest.CarbsG, targets.CarbsG)),
			},
			{
				Label: "Fat",
				Value: fmtNumber(summary.MacroLatest.FatG, " g", 0),
				Hint:  fmt.Sprintf("Goal %.0fg · %s", targets.FatG, macroBadge(summary.MacroLatest.FatG, targets.FatG)),
			},
			{
				Label: "Avg intake",
				Value: fmt.Sprintf("%s · %dd", fmtNumber(summary.MacroAverage.CaloriesKcal, " kcal", 0), summary.Weight.LookbackDays),
				Hint:  "Rolling calorie average",
			},
		},
	}
}

func (h dashboardServiceHandler) recoveryCard(summary *domain.Summary) domain.Card {
	latest := summary.RecoveryLatest
	average := summary.RecoveryAverage

	return domain.Card{
		Title: "Recovery",
		Rows: []domain.CardRow{
			{
				Label: "Sleep",
				Value: fmtNumber(latest.SleepHours, " h", 1),
				Hint:  trendIndicator(latest.SleepHours, average.SleepHours, " h", 1),
			},
			{
				Label: "Recovery",
				Value: fmtNumber(latest.RecoveryScore, "%", 0),
				Hint:  "Whoop readiness",
			},
			{
				Label: "HRV",
				Value: fmtNumber(latest.HrvRmssd, " ms", 0),
				Hint:  trendIndicator(latest.HrvRmssd, average.HrvRmssd, " ms", 0),
			},
			{
				Label: "Resting HR",
				Value: fmtNumber(latest.RestingHr, " bpm", 0),
				Hint:  trendIndicator(latest.RestingHr, average.RestingHr, " bpm", 0),
			},
			{
				Label: "Strain",
				Value: fmtNumber(latest.Strain, "", 1),
				Hint:  trendIndicator(latest.Strain, average.Strain, "", 1),
			},
		},
	}
}

func (h dashboardServiceHandler) notesCard(summary *domain.Summary) domain.Card {
	notes := summary.LatestRecord.Notes
	if notes == "" {
		notes = "No notes logged yet."
	}
	notes = truncate(notes, 200)

	progressValue := missingValue
	if summary.ProgressPercent != nil {
		progressValue = fmt.Sprintf("%.1f%% complete", *summary.ProgressPercent)
	}

	return domain.Card{
		Title: "Notes & Reminders",
		Rows: []domain.CardRow{
			{
				Label: "Notes",
				Value: notes,
			},
			{
				Label: "Goal progress",
				Value: progressValue,
				Hint:  fmtDelta(summary.WeightDeltaStart, " kg", 1) + " since start",
			},
		},
	}
}

func (h dashboardServiceHandler) charts(summary *domain.Summary, history []domain.DailyRecord) *domain.Charts {
	charts := &domain.Charts{
		Weight: lineSeries(history, func(r domain.DailyRecord) *float64 { return r.WeightKg }, " kg", 1),
		BodyFat: lineSeries(history, func(r domain.DailyRecord) *float64 { return r.BodyFatPct }, "%", 1),
		Calories: barSeries(history, func(r domain.DailyRecord) *float64 { return r.CaloriesKcal },
			h.MacroTargets.CaloriesMax, " kcal"),
	}

	if charts.Weight == nil && charts.BodyFat == nil && charts.Calories == nil {
		return nil
	}
	return charts
}

// pruneCards drops empty rows and rowless cards so the serialized payload
// only carries meaningful content.
func pruneCards(cards []domain.Card) []domain.Card {
	kept := []domain.Card{}
	for _, card := range cards {
		rows := []domain.CardRow{}
		for _, row := range card.Rows {
			if row.Value == "" {
				continue
			}
			rows = append(rows, row)
		}
		if len(rows) == 0 {
			continue
		}
		card.Rows = rows
		kept = append(kept, card)
	}
	return kept
}

func fmtNumber(value *float64, unit string, precision int) string {
	if value == nil {
		return missingValue
	}
	return fmt.Sprintf("%.*f%s", precision, *value, unit)
}

// fmtDelta prefixes positive values with an explicit "+"; negative values
// carry their intrinsic "-".
func fmtDelta(value *float64, unit string, precision int) string {
	if value == nil {
		return missingValue
	}
	sign := ""
	if *value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.*f%s", sign, precision, *value, unit)
}

// complianceBadge classifies a value against an inclusive [low, high] band.
func complianceBadge(value *float64, low, high float64) string {
	if value == nil {
		return "No data"
	}
	if *value >= low && *value <= high {
		return "On target"
	}
	if *value < low {
		return "Low"
	}
	return "High"
}

// macroBadge classifies a value against a point target with a 10% relative
// tolerance.
func macroBadge(value *float64, target float64) string {
	if value == nil {
		return "No data"
	}
	delta := *value - target
	tolerance := target * 0.1
	if math.Abs(delta) <= tolerance {
		return "On target"
	}
	if delta < 0 {
		return "Low"
	}
	return "High"
}

// trendIndicator compares a latest value to its rolling average. Deltas
// under 0.05 read as flat.
func trendIndicator(latest, average *float64, unit string, precision int) string {
	if latest == nil || average == nil {
		return missingValue
	}
	delta := *latest - *average
	if math.Abs(delta) < 0.05 {
		return "flat"
	}
	direction := "up"
	if delta < 0 {
		direction = "down"
	}
	return fmt.Sprintf("%s %.*f%s", direction, precision, math.Abs(delta), unit)
}

// location resolves an IANA zone name, falling back to UTC for anything
// unrecognized rather than failing the run.
func location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("unknown timezone %q, falling back to UTC", name)
		return time.UTC
	}
	return loc
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
