package domain

import "time"

// MacroSnapshot holds nutrition values for a single day or averaged over
// a lookback window.
type MacroSnapshot struct {
	CaloriesKcal *float64
	ProteinG     *float64
	CarbsG       *float64
	FatG         *float64
}

// RecoverySnapshot holds the wearable metrics for a single day or averaged
// over a lookback window.
type RecoverySnapshot struct {
	SleepHours    *float64
	RecoveryScore *float64
	HrvRmssd      *float64
	RestingHr     *float64
	Strain        *float64
}

// WeightSnapshot collects everything weight-related the renderer needs:
// the latest observation, the reference points it is compared against,
// and the bounds of the lookback window.
type WeightSnapshot struct {
	LatestWeight      *float64
	PreviousWeight    *float64
	StartWeight       *float64
	TargetWeight      float64
	WaistCm           *float64
	LookbackAvgWeight *float64
	LookbackDays      int
	LatestDate        time.Time
	StartDate         time.Time
	DaysSinceStart    int
}

// Summary is the computed aggregate over the full record history. It is
// built fresh on every run and consumed only by the renderer.
type Summary struct {
	LatestRecord     DailyRecord
	Weight           WeightSnapshot
	MacroLatest      MacroSnapshot
	MacroAverage     MacroSnapshot
	RecoveryLatest   RecoverySnapshot
	RecoveryAverage  RecoverySnapshot
	WeightDeltaPrev  *float64
	WeightDeltaStart *float64
	TargetDelta      *float64

	// ProgressPercent is in [0, 100] when defined. It stays nil when the
	// start or latest weight is unknown, or when start == target.
	ProgressPercent *float64

	GeneratedAt time.Time
}
