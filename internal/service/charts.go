package service

import (
	"fmt"
	"math"
	"time"

	"trmnlhealth/internal/domain"
)

// Chart pixel box. Sized for a TRMNL half-screen region; coordinates are
// rounded to whole pixels.
const (
	chartWidth  = 400
	chartHeight = 140
)

// lineSeries builds a polyline for one metric over the history window. It
// needs at least two observed points, otherwise the chart is omitted. X is
// spaced by index position across the window (date gaps are not widened);
// Y is normalized between the observed min and max and inverted for a
// top-left origin.
func lineSeries(history []domain.DailyRecord, field func(domain.DailyRecord) *float64, unit string, precision int) *domain.LineSeries {
	type observation struct {
		index int
		value float64
	}

	observed := []observation{}
	for i, record := range history {
		if v := field(record); v != nil {
			observed = append(observed, observation{index: i, value: *v})
		}
	}
	if len(observed) < 2 {
		return nil
	}

	minValue, maxValue := observed[0].value, observed[0].value
	for _, o := range observed[1:] {
		minValue = math.Min(minValue, o.value)
		maxValue = math.Max(maxValue, o.value)
	}
	// a near-flat series would collapse to a zero-height line; widen the
	// range symmetrically instead
	if maxValue-minValue < 0.1 {
		minValue -= 0.5
		maxValue += 0.5
	}
	span := maxValue - minValue

	series := &domain.LineSeries{
		Min: fmtNumber(&minValue, unit, precision),
		Max: fmtNumber(&maxValue, unit, precision),
	}

	lastIndex := len(history) - 1
	for _, o := range observed {
		x := 0
		if lastIndex > 0 {
			x = int(math.Round(float64(o.index) / float64(lastIndex) * chartWidth))
		}
		y := int(math.Round((1 - (o.value-minValue)/span) * chartHeight))
		series.Points = append(series.Points, domain.ChartPoint{X: x, Y: y})
	}

	return series
}

// barSeries builds one bar per day, scaled against a fixed reference value
// and clamped at full height. The scale falls back to the window's own
// maximum when no positive target is configured. Missing or non-positive
// values render as zero-height placeholder bars.
func barSeries(history []domain.DailyRecord, field func(domain.DailyRecord) *float64, scale float64, unit string) *domain.BarSeries {
	if len(history) == 0 {
		return nil
	}

	if scale <= 0 {
		for _, record := range history {
			if v := field(record); v != nil && *v > scale {
				scale = *v
			}
		}
	}
	if scale <= 0 {
		return nil
	}

	series := &domain.BarSeries{
		Scale: fmt.Sprintf("%.0f%s", scale, unit),
	}
	for _, record := range history {
		bar := domain.Bar{
			Day:     record.Date.Format("Mon"),
			Display: missingValue,
		}
		if v := field(record); v != nil && *v > 0 {
			ratio := math.Min(*v/scale, 1.0)
			bar.Height = int(math.Round(ratio * chartHeight))
			bar.Display = fmt.Sprintf("%.0f", *v)
		}
		series.Bars = append(series.Bars, bar)
	}

	return series
}

// goalProjection extrapolates the observed loss rate linearly to a goal
// date. A non-negative rate never projects forward: a stalled or rising
// trend reads as paused instead of an ever-receding date.
func goalProjection(summary *domain.Summary, today time.Time) *domain.Projection {
	weight := summary.Weight
	if weight.LatestWeight == nil || weight.StartWeight == nil || weight.DaysSinceStart < 1 {
		return nil
	}

	latest := *weight.LatestWeight
	start := *weight.StartWeight
	target := weight.TargetWeight

	if latest <= target {
		return &domain.Projection{
			Status:  domain.ProjectionReached,
			Message: "Target weight reached.",
		}
	}

	ratePerDay := (latest - start) / float64(weight.DaysSinceStart)
	if ratePerDay >= 0 {
		return &domain.Projection{
			Status:  domain.ProjectionPaused,
			Message: "Weight loss paused: no goal date while trending flat or up.",
		}
	}

	remaining := latest - target
	daysToGoal := int(math.Round(remaining / math.Abs(ratePerDay)))
	goalDate := today.AddDate(0, 0, daysToGoal)

	projection := &domain.Projection{
		Status:     domain.ProjectionProjected,
		Message:    fmt.Sprintf("On pace to reach %.1f kg by %s.", target, goalDate.Format("Jan 02, 2006")),
		GoalDate:   goalDate.Format(time.DateOnly),
		RatePerDay: fmt.Sprintf("%.2f kg/day", ratePerDay),
	}

	// fractions of the remaining distance still to go
	for _, fraction := range []float64{0.8, 0.6, 0.4, 0.2} {
		milestoneWeight := target + fraction*remaining
		milestoneDate := today.AddDate(0, 0, int(math.Round(float64(daysToGoal)*(1-fraction))))
		projection.Milestones = append(projection.Milestones, domain.Milestone{
			WeightKg: fmt.Sprintf("%.1f kg", milestoneWeight),
			Date:     milestoneDate.Format(time.DateOnly),
		})
	}

	return projection
}
