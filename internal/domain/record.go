package domain

import "time"

// DailyRecord is one calendar day of tracker data. Numeric fields are
// pointers because any subset of values can be logged on a given day;
// nil means "never recorded", which is distinct from zero.
type DailyRecord struct {
	Date          time.Time
	WeightKg      *float64
	WaistCm       *float64
	SleepHours    *float64
	BodyFatPct    *float64
	RecoveryScore *float64
	HrvRmssd      *float64
	RestingHr     *float64
	Strain        *float64
	MealType      *string
	CaloriesKcal  *float64
	ProteinG      *float64
	CarbsG        *float64
	FatG          *float64
	Notes         string
}

// Float returns a pointer to v. Convenient for building records inline.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}
