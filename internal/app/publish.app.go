package app

import (
	"context"

	"trmnlhealth/internal/calculator"
	"trmnlhealth/internal/domain"
	"trmnlhealth/internal/logger"
	"trmnlhealth/internal/repository"
	"trmnlhealth/internal/service"
)

// historyLength is the number of trailing records handed to the renderer
// for charting.
const historyLength = 10

// TrmnlPublisher is the outbound seam to the TRMNL API.
type TrmnlPublisher interface {
	Publish(ctx context.Context, mergeVariables interface{}) (map[string]interface{}, error)
	CurrentScreen(ctx context.Context) (map[string]interface{}, error)
}

type PublishRequest struct {
	LookbackDays int
	DryRun       bool
	Force        bool
	ShowPayload  bool
}

type PublishResult struct {
	Payload     *domain.Payload
	Fingerprint string

	// Skipped is set when the fingerprint matched the previous run and
	// nothing was sent.
	Skipped   bool
	Published bool
	Response  map[string]interface{}
}

type PublishApp interface {
	Publish(ctx context.Context, request PublishRequest) (*PublishResult, error)
	CurrentScreen(ctx context.Context) (map[string]interface{}, error)
}

type publishAppHandler struct {
	TrackerRepository  repository.TrackerRepository
	StateRepository    repository.StateRepository
	SummaryService     calculator.SummaryService
	DashboardService   service.DashboardService
	FingerprintService service.FingerprintService
	TrmnlClient        TrmnlPublisher
}

func NewPublishApp(
	trackerRepository repository.TrackerRepository,
	stateRepository repository.StateRepository,
	summaryService calculator.SummaryService,
	dashboardService service.DashboardService,
	fingerprintService service.FingerprintService,
	trmnlClient TrmnlPublisher,
) PublishApp {
	return &publishAppHandler{
		TrackerRepository:  trackerRepository,
		StateRepository:    stateRepository,
		SummaryService:     summaryService,
		DashboardService:   dashboardService,
		FingerprintService: fingerprintService,
		TrmnlClient:        trmnlClient,
	}
}

// Publish runs the whole pipeline: load records, summarize, render, then
// publish unless the fingerprint says nothing changed. State is only
// persisted after a confirmed successful non-dry-run publish.
func (h *publishAppHandler) Publish(ctx context.Context, request PublishRequest) (*PublishResult, error) {
	records, err := h.TrackerRepository.List()
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded %d tracker records", len(records))

	summary, err := h.SummaryService.Summarize(records, request.LookbackDays)
	if err != nil {
		return nil, err
	}

	history := records
	if len(history) > historyLength {
		history = history[len(history)-historyLength:]
	}

	payload := h.DashboardService.Render(summary, history)

	fingerprint, err := h.FingerprintService.Fingerprint(payload)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{
		Payload:     payload,
		Fingerprint: fingerprint,
	}

	if !request.Force && h.StateRepository.LastPayloadHash() == fingerprint {
		result.Skipped = true
		return result, nil
	}

	if request.DryRun {
		return result, nil
	}

	response, err := h.TrmnlClient.Publish(ctx, payload)
	if err != nil {
		return nil, err
	}

	if err := h.StateRepository.SavePayloadHash(fingerprint); err != nil {
		return nil, err
	}

	logger.Info("published dashboard payload, fingerprint %s", fingerprint)
	result.Published = true
	result.Response = response
	return result, nil
}

func (h *publishAppHandler) CurrentScreen(ctx context.Context) (map[string]interface{}, error) {
	return h.TrmnlClient.CurrentScreen(ctx)
}
