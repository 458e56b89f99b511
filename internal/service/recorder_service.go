package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/miniapptrack/attribution/internal/domain"
	"github.com/miniapptrack/attribution/internal/dto"
	"github.com/miniapptrack/attribution/internal/repository"
	"github.com/miniapptrack/attribution/pkg/telemetry"
	"github.com/miniapptrack/attribution/pkg/utm"
)

// RecorderService defines the interface for event ingestion
type RecorderService interface {
	// RecordAppOpen registers an app-open, establishing first-touch
	// attribution for users seen for the first time.
	RecordAppOpen(ctx context.Context, tenantID string, req *dto.AppOpenPayload) (*dto.AppOpenResponse, error)
	// RecordPayment appends a payment attributed to the user's first-touch
	// campaign. Returns domain.ErrUserNotAttributed when the user has never
	// opened the app.
	RecordPayment(ctx context.Context, tenantID string, req *dto.PaymentPayload) (*dto.PaymentResponse, error)
}

// recorderService implements RecorderService
type recorderService struct {
	attributionRepo repository.AttributionRepository
	now             func() time.Time
}

// NewRecorderService creates a new RecorderService
func NewRecorderService(attributionRepo repository.AttributionRepository) RecorderService {
	return &recorderService{
		attributionRepo: attributionRepo,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *recorderService) RecordAppOpen(ctx context.Context, tenantID string, req *dto.AppOpenPayload) (*dto.AppOpenResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "recorder.RecordAppOpen")
	defer span.End()

	campaign := utm.Decode(req.CampaignParameter)
	now := s.now()

	// The repository resolves the first-touch race; the campaign returned
	// here is the one that won, not necessarily the one submitted.
	firstCampaign, created, err := s.attributionRepo.UpsertUser(ctx, &domain.AttributedUser{
		TenantID:      tenantID,
		EndUserID:     req.EndUserID,
		FirstCampaign: campaign,
		LastSeenAt:    now,
		DisplayName:   req.DisplayName,
		LanguageTag:   req.LanguageTag,
	})
	if err != nil {
		return nil, err
	}

	if err := s.attributionRepo.UpsertAppOpen(ctx, &domain.AppOpenEvent{
		TenantID:   tenantID,
		Campaign:   campaign,
		EndUserID:  req.EndUserID,
		OccurredAt: now,
	}); err != nil {
		return nil, err
	}

	return &dto.AppOpenResponse{
		EndUserID:     req.EndUserID,
		FirstCampaign: firstCampaign,
		NewUser:       created,
	}, nil
}

func (s *recorderService) RecordPayment(ctx context.Context, tenantID string, req *dto.PaymentPayload) (*dto.PaymentResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "recorder.RecordPayment")
	defer span.End()

	// Any campaign submitted with the payment is ignored; attribution always
	// follows the stored first touch.
	firstCampaign, err := s.attributionRepo.FirstCampaign(ctx, tenantID, req.EndUserID)
	if err != nil {
		return nil, err
	}

	if err := s.attributionRepo.AppendPayment(ctx, &domain.PaymentEvent{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Campaign:   firstCampaign,
		EndUserID:  req.EndUserID,
		Amount:     req.Amount,
		PaymentRef: req.PaymentReference,
		OccurredAt: s.now(),
	}); err != nil {
		return nil, err
	}

	return &dto.PaymentResponse{
		EndUserID:          req.EndUserID,
		AttributedCampaign: firstCampaign,
		Amount:             req.Amount,
	}, nil
}
