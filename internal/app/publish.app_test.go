package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trmnlhealth/internal/calculator"
	"trmnlhealth/internal/config"
	"trmnlhealth/internal/domain"
	"trmnlhealth/internal/service"
)

type fakeTracker struct {
	records []domain.DailyRecord
}

func (f fakeTracker) List() ([]domain.DailyRecord, error) {
	return f.records, nil
}

type fakeState struct {
	hash  string
	saves int
}

func (f *fakeState) LastPayloadHash() string {
	return f.hash
}

func (f *fakeState) SavePayloadHash(hash string) error {
	f.hash = hash
	f.saves++
	return nil
}

type fakePublisher struct {
	publishes int
	response  map[string]interface{}
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, mergeVariables interface{}) (map[string]interface{}, error) {
	f.publishes++
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakePublisher) CurrentScreen(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"status": "ok"}, nil
}

// frozenSummaryService pins the generation timestamp so consecutive runs
// hash identically.
type frozenSummaryService struct {
	inner calculator.SummaryService
	at    time.Time
}

func (f frozenSummaryService) Summarize(records []domain.DailyRecord, lookbackDays int) (*domain.Summary, error) {
	summary, err := f.inner.Summarize(records, lookbackDays)
	if err != nil {
		return nil, err
	}
	summary.GeneratedAt = f.at
	return summary, nil
}

func testSettings() *config.Settings {
	return &config.Settings{
		TargetWeightKg: 70,
		Timezone:       "UTC",
		MacroTargets: config.MacroTargets{
			CaloriesMin: 800,
			CaloriesMax: 1200,
			ProteinG:    100,
			CarbsG:      60,
			FatG:        40,
		},
	}
}

func testRecords() []domain.DailyRecord {
	return []domain.DailyRecord{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), WeightKg: domain.Float(80)},
		{Date: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), WeightKg: domain.Float(78)},
	}
}

func newTestApp(records []domain.DailyRecord, state *fakeState, publisher *fakePublisher) PublishApp {
	settings := testSettings()
	return NewPublishApp(
		fakeTracker{records: records},
		state,
		frozenSummaryService{
			inner: calculator.NewSummaryService(settings),
			at:    time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC),
		},
		service.NewDashboardService(settings),
		service.NewFingerprintService(),
		publisher,
	)
}

func Test_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and persists the fingerprint", func(t *testing.T) {
		state := &fakeState{}
		publisher := &fakePublisher{response: map[string]interface{}{"status": "ok"}}
		handler := newTestApp(testRecords(), state, publisher)

		result, err := handler.Publish(ctx, PublishRequest{LookbackDays: 7})
		require.NoError(t, err)

		require.True(t, result.Published)
		require.False(t, result.Skipped)
		require.Equal(t, 1, publisher.publishes)
		require.Equal(t, result.Fingerprint, state.hash)
		require.NotNil(t, result.Payload)
	})

	t.Run("identical rerun with a frozen clock is skipped", func(t *testing.T) {
		state := &fakeState{}
		publisher := &fakePublisher{}
		handler := newTestApp(testRecords(), state, publisher)

		first, err := handler.Publish(ctx, PublishRequest{LookbackDays: 7})
		require.NoError(t, err)
		require.True(t, first.Published)

		second, err := handler.Publish(ctx, PublishRequest{LookbackDays: 7})
		require.NoError(t, err)

		require.True(t, second.Skipped)
		require.False(t, second.Published)
		require.Equal(t, first.Fingerprint, second.Fingerprint)
		require.Equal(t, 1, publisher.publishes)
		require.Equal(t, 1, state.saves)
	})

	t.Run("force bypasses the fingerprint comparison", func(t *testing.T) {
		state := &fakeState{}
		publisher := &fakePublisher{}
		handler := newTestApp(testRecords(), state, publisher)

		_, err := handler.Publish(ctx, PublishRequest{LookbackDays: 7})
		require.NoError(t, err)

		second, err := handler.Publish(ctx, PublishRequest{LookbackDays: 7, Force: true})
		require.NoError(t, err)

		require.True(t, second.Published)
		require.Equal(t, 2, publisher.publishes)
	})

	t.Run("dry run never sends or persists", func(t *testing.T) {
		state := &fakeState{}
		publisher := &fakePublisher{}
		handler := newTestApp(testRecords(), state, publisher)

		result, err := handler.Publish(ctx, PublishRequest{LookbackDays: 7, DryRun: true})
		require.NoError(t, err)

		require.False(t, result.Published)
		require.False(t, result.Skipped)
		require.NotNil(t, result.Payload)
		require.NotEmpty(t, result.Fingerprint)
		require.Equal(t, 0, publisher.publishes)
		require.Equal(t, 0, state.saves)
	})

	t.Run("publish failure leaves state untouched", func(t *testing.T) {
		state := &fakeState{}
		publisher := &fakePublisher{err: &domain.NetworkError{URL: "https://example.test", StatusCode: 500}}
		handler := newTestApp(testRecords(), state, publisher)

		_, err := handler.Publish(ctx, PublishRequest{LookbackDays: 7})

		networkErr := &domain.NetworkError{}
		require.ErrorAs(t, err, &networkErr)
		require.Equal(t, 0, state.saves)
	})

	t.Run("empty history aborts before rendering", func(t *testing.T) {
		state := &fakeState{}
		publisher := &fakePublisher{}
		handler := newTestApp(nil, state, publisher)

		_, err := handler.Publish(ctx, PublishRequest{LookbackDays: 7})

		require.ErrorIs(t, err, domain.ErrEmptyInput)
		require.Equal(t, 0, publisher.publishes)
	})

	t.Run("chart history caps at the trailing ten records", func(t *testing.T) {
		records := []domain.DailyRecord{}
		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 15; i++ {
			weight := 90 - float64(i)
			records = append(records, domain.DailyRecord{Date: day.AddDate(0, 0, i), WeightKg: &weight})
		}

		captured := &capturingDashboard{inner: service.NewDashboardService(testSettings())}
		settings := testSettings()
		handler := NewPublishApp(
			fakeTracker{records: records},
			&fakeState{},
			frozenSummaryService{
				inner: calculator.NewSummaryService(settings),
				at:    time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC),
			},
			captured,
			service.NewFingerprintService(),
			&fakePublisher{},
		)

		_, err := handler.Publish(ctx, PublishRequest{LookbackDays: 7})
		require.NoError(t, err)
		require.Len(t, captured.history, 10)
	})
}

type capturingDashboard struct {
	inner   service.DashboardService
	history []domain.DailyRecord
}

func (c *capturingDashboard) Render(summary *domain.Summary, history []domain.DailyRecord) *domain.Payload {
	c.history = history
	return c.inner.Render(summary, history)
}

func Test_CurrentScreen(t *testing.T) {
	handler := newTestApp(testRecords(), &fakeState{}, &fakePublisher{})

	data, err := handler.CurrentScreen(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", data["status"])
}
