package domain

// CardRow is one labeled line on a dashboard card. Hint and Trend are
// omitted from the serialized payload when empty so the fingerprint only
// reacts to meaningful content.
type CardRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Hint  string `json:"hint,omitempty"`
	Trend string `json:"trend,omitempty"`
}

// Card is a titled group of rows.
type Card struct {
	Title string    `json:"title"`
	Rows  []CardRow `json:"rows"`
}

// ChartPoint is a pixel coordinate with a top-left origin.
type ChartPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LineSeries is a normalized polyline for a single metric over the history
// window, plus the formatted range labels.
type LineSeries struct {
	Points []ChartPoint `json:"points"`
	Min    string       `json:"min"`
	Max    string       `json:"max"`
}

// Bar is one day's bar in a bar chart. Height is zero and Display a
// placeholder when the day's value is missing or non-positive.
type Bar struct {
	Day     string `json:"day"`
	Height  int    `json:"height"`
	Display string `json:"display"`
}

// BarSeries is a per-day bar chart scaled against a fixed reference value.
type BarSeries struct {
	Bars  []Bar  `json:"bars"`
	Scale string `json:"scale"`
}

// Charts groups the rendered chart series by metric name.
type Charts struct {
	Weight   *LineSeries `json:"weight,omitempty"`
	BodyFat  *LineSeries `json:"body_fat,omitempty"`
	Calories *BarSeries  `json:"calories,omitempty"`
}

// Milestone is an intermediate point on the path to the goal weight.
type Milestone struct {
	WeightKg string `json:"weight_kg"`
	Date     string `json:"date"`
}

// Projection statuses.
const (
	ProjectionProjected = "projected"
	ProjectionPaused    = "paused"
	ProjectionReached   = "reached"
)

// Projection is the linear-rate goal-date estimate. GoalDate, RatePerDay
// and Milestones are only populated when Status is "projected".
type Projection struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	GoalDate   string      `json:"goal_date,omitempty"`
	RatePerDay string      `json:"rate_per_day,omitempty"`
	Milestones []Milestone `json:"milestones,omitempty"`
}

// Progress is the goal-progress block shown under the header.
type Progress struct {
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// Payload is the published dashboard document. It is a pure function of a
// Summary plus the history window; it has no identity beyond its content.
type Payload struct {
	Header      string      `json:"header"`
	Subtitle    string      `json:"subtitle"`
	GeneratedAt string      `json:"generated_at"`
	Cards       []Card      `json:"cards"`
	Charts      *Charts     `json:"charts,omitempty"`
	Projection  *Projection `json:"projection,omitempty"`
	Progress    *Progress   `json:"progress,omitempty"`
}
