package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/cache"
	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/permissions"
	"github.com/pipedesk/pipedesk/internal/pipeline"
	"github.com/pipedesk/pipedesk/internal/repositories"
)

type AnalyticsService struct {
	db    *gorm.DB
	perms permissions.Evaluator
	cache *cache.AnalyticsCache
}

func NewAnalyticsService(db *gorm.DB, perms permissions.Evaluator, analyticsCache *cache.AnalyticsCache) *AnalyticsService {
	return &AnalyticsService{db: db, perms: perms, cache: analyticsCache}
}

type SummaryReport struct {
	TotalDeals  int64                          `json:"total_deals"`
	ByStatus    []repositories.StatusAggregate `json:"by_status"`
	WonAmount   decimal.Decimal                `json:"won_amount"`
	WinRate     float64                        `json:"win_rate"`
	NewDeals30d int64                          `json:"new_deals_30d"`
}

type FunnelCell struct {
	Status models.DealStatus `json:"status"`
	Count  int64             `json:"count"`
	Amount decimal.Decimal   `json:"amount"`
}

type FunnelStage struct {
	Stage       models.DealStage `json:"stage"`
	Cells       []FunnelCell     `json:"cells"`
	TotalCount  int64            `json:"total_count"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	ActiveCount int64            `json:"active_count"`
	Conversion  float64          `json:"conversion"`
}

type FunnelReport struct {
	Stages []FunnelStage `json:"stages"`
}

// Summary aggregates deal counts and amounts by status plus the 30-day
// new-deal count. Results are cached per organization; a miss recomputes
// synchronously, and writes elsewhere never invalidate (TTL bounds
// staleness).
func (s *AnalyticsService) Summary(organizationID uint, role models.MemberRole) (*SummaryReport, error) {
	if !s.perms.CanViewAnalytics(role) {
		return nil, apperrors.Forbidden("Insufficient permissions")
	}

	key := cache.SummaryKey(organizationID)

	if cached, ok := s.cache.Get(key); ok {
		return cached.(*SummaryReport), nil
	}

	report, err := s.computeSummary(organizationID)

	if err != nil {
		return nil, err
	}

	s.cache.Set(key, report)
	return report, nil
}

func (s *AnalyticsService) computeSummary(organizationID uint) (*SummaryReport, error) {
	deals := repositories.NewDealRepository(s.db)

	rows, err := deals.SummaryByStatus(organizationID)

	if err != nil {
		return nil, err
	}

	byStatus := make(map[models.DealStatus]repositories.StatusAggregate, len(rows))

	for _, row := range rows {
		byStatus[row.Status] = row
	}

	report := &SummaryReport{WonAmount: decimal.Zero}

	// Emit every status in a fixed order, zero-filled, so the response
	// shape does not depend on which statuses happen to have deals.
	for _, status := range []models.DealStatus{models.StatusNew, models.StatusInProgress, models.StatusWon, models.StatusLost} {
		row, ok := byStatus[status]
		if !ok {
			row = repositories.StatusAggregate{
				Status:      status,
				TotalAmount: decimal.Zero,
				AvgAmount:   decimal.Zero,
			}
		}
		report.ByStatus = append(report.ByStatus, row)
		report.TotalDeals += row.Count
	}

	wonCount := byStatus[models.StatusWon].Count
	lostCount := byStatus[models.StatusLost].Count

	if row, ok := byStatus[models.StatusWon]; ok {
		report.WonAmount = row.TotalAmount
	}

	if closed := wonCount + lostCount; closed > 0 {
		report.WinRate = roundPct(float64(wonCount) / float64(closed) * 100)
	}

	report.NewDeals30d, err = deals.CountCreatedSince(organizationID, time.Now().AddDate(0, 0, -30))

	if err != nil {
		return nil, err
	}

	return report, nil
}

// Funnel groups deals by stage × status and derives a per-stage conversion
// rate: active deals (everything but lost) in the stage divided by active
// deals in the previous stage of the canonical ordering. The first stage is
// defined as 100%.
func (s *AnalyticsService) Funnel(organizationID uint, role models.MemberRole) (*FunnelReport, error) {
	if !s.perms.CanViewAnalytics(role) {
		return nil, apperrors.Forbidden("Insufficient permissions")
	}

	key := cache.FunnelKey(organizationID)

	if cached, ok := s.cache.Get(key); ok {
		return cached.(*FunnelReport), nil
	}

	report, err := s.computeFunnel(organizationID)

	if err != nil {
		return nil, err
	}

	s.cache.Set(key, report)
	return report, nil
}

func (s *AnalyticsService) computeFunnel(organizationID uint) (*FunnelReport, error) {
	cells, err := repositories.NewDealRepository(s.db).FunnelCells(organizationID)

	if err != nil {
		return nil, err
	}

	grouped := make(map[models.DealStage][]repositories.StageStatusAggregate)

	for _, cell := range cells {
		grouped[cell.Stage] = append(grouped[cell.Stage], cell)
	}

	report := &FunnelReport{}
	prevActive := int64(0)

	for i, stage := range pipeline.StagesInOrder() {
		entry := FunnelStage{Stage: stage, TotalAmount: decimal.Zero}

		for _, cell := range grouped[stage] {
			entry.Cells = append(entry.Cells, FunnelCell{
				Status: cell.Status,
				Count:  cell.Count,
				Amount: cell.TotalAmount,
			})
			entry.TotalCount += cell.Count
			entry.TotalAmount = entry.TotalAmount.Add(cell.TotalAmount)

			if cell.Status != models.StatusLost {
				entry.ActiveCount += cell.Count
			}
		}

		switch {
		case i == 0:
			entry.Conversion = 100.0
		case prevActive > 0:
			entry.Conversion = roundPct(float64(entry.ActiveCount) / float64(prevActive) * 100)
		default:
			entry.Conversion = 0
		}

		prevActive = entry.ActiveCount
		report.Stages = append(report.Stages, entry)
	}

	return report, nil
}

func roundPct(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
