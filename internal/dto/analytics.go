package dto

import "github.com/miniapptrack/attribution/internal/domain"

// CampaignStatsRequest asks for per-campaign statistics. Results come back in
// request order, one entry per requested parameter.
type CampaignStatsRequest struct {
	CampaignParameters []string `json:"campaign_parameters" binding:"required,min=1,max=100,dive,required,max=255"`
}

// CampaignStatsItem represents statistics for a single campaign
type CampaignStatsItem struct {
	CampaignParameter string  `json:"campaign_parameter"`
	Reach             int64   `json:"reach"`
	PayingUsers       int64   `json:"paying_users"`
	Revenue           int64   `json:"revenue"`
	ConversionRate    float64 `json:"conversion_rate"`
}

// FromCampaignStats converts domain campaign stats to an API item. The echoed
// parameter is the one the caller submitted, which may differ from the
// normalized campaign the aggregate was computed for.
func FromCampaignStats(param string, stats *domain.CampaignStats) *CampaignStatsItem {
	return &CampaignStatsItem{
		CampaignParameter: param,
		Reach:             stats.Reach,
		PayingUsers:       stats.PayingUsers,
		Revenue:           stats.Revenue,
		ConversionRate:    stats.ConversionRate,
	}
}

// CampaignStatsResponse represents the stats for all requested campaigns
type CampaignStatsResponse struct {
	Campaigns []*CampaignStatsItem `json:"campaigns"`
}
