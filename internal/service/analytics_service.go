package service

import (
	"context"
	"math"

	"github.com/miniapptrack/attribution/internal/domain"
	"github.com/miniapptrack/attribution/internal/dto"
	"github.com/miniapptrack/attribution/internal/repository"
	"github.com/miniapptrack/attribution/pkg/telemetry"
	"github.com/miniapptrack/attribution/pkg/utm"
)

// AnalyticsService defines the interface for campaign reporting
type AnalyticsService interface {
	// CampaignStats computes reach, paying users, revenue and conversion rate
	// for each requested campaign, in request order.
	CampaignStats(ctx context.Context, tenantID string, params []string) (*dto.CampaignStatsResponse, error)
}

// analyticsService implements AnalyticsService
type analyticsService struct {
	attributionRepo repository.AttributionRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(attributionRepo repository.AttributionRepository) AnalyticsService {
	return &analyticsService{attributionRepo: attributionRepo}
}

func (s *analyticsService) CampaignStats(ctx context.Context, tenantID string, params []string) (*dto.CampaignStatsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "analytics.CampaignStats")
	defer span.End()

	items := make([]*dto.CampaignStatsItem, 0, len(params))
	for _, param := range params {
		// Queries normalize the same way ingest does, so an encoded query
		// matches data recorded from an encoded open.
		campaign := utm.Decode(param)

		reach, err := s.attributionRepo.CountUsersByFirstCampaign(ctx, tenantID, campaign)
		if err != nil {
			return nil, err
		}
		payingUsers, revenue, err := s.attributionRepo.PaymentStats(ctx, tenantID, campaign)
		if err != nil {
			return nil, err
		}

		items = append(items, dto.FromCampaignStats(param, &domain.CampaignStats{
			Campaign:       campaign,
			Reach:          reach,
			PayingUsers:    payingUsers,
			Revenue:        revenue,
			ConversionRate: conversionRate(payingUsers, reach),
		}))
	}
	return &dto.CampaignStatsResponse{Campaigns: items}, nil
}

// conversionRate returns payingUsers/reach as a percentage rounded to two
// decimal places. Zero reach yields zero, not NaN.
func conversionRate(payingUsers, reach int64) float64 {
	if reach == 0 {
		return 0
	}
	return math.Round(float64(payingUsers)/float64(reach)*100*100) / 100
}
