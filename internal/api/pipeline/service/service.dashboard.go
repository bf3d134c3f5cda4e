package pipelinesvc

import (
	"context"
	"errors"

	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/dto"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/datastore"
)

// DashboardService projection chỉ-đọc cho dashboard khách hàng.
// Tính lại theo yêu cầu từ trạng thái hiện tại, không duy trì incremental —
// độ trễ dữ liệu bằng đúng một chu kỳ fetch.
type DashboardService struct {
	store   datastore.DataStore
	periods *PlanningPeriodService
	pieces  *ContentPieceService
}

// NewDashboardService tạo DashboardService mới trên một DataStore.
func NewDashboardService(store datastore.DataStore) *DashboardService {
	return &DashboardService{
		store:   store,
		periods: NewPlanningPeriodService(store),
		pieces:  NewContentPieceService(store),
	}
}

// GetSummary tổng hợp counters cho kỳ active của một khách hàng.
// Không có kỳ active → HasActivePlan=false ("chưa có kế hoạch"), không phải
// một kế hoạch toàn số 0.
func (s *DashboardService) GetSummary(ctx context.Context, clientID string) (*dto.DashboardSummary, error) {
	summary := &dto.DashboardSummary{ClientID: clientID}

	period, err := s.periods.ActivePeriod(ctx, clientID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return summary, nil
		}
		return nil, err
	}

	pieces, err := s.pieces.ListByPeriod(ctx, period.ID)
	if err != nil {
		return nil, err
	}

	summary.HasActivePlan = true
	summary.PeriodID = period.ID
	summary.PeriodName = period.Name
	summary.Total = period.Allocation
	for _, p := range pieces {
		switch p.Status {
		case models.StatusApproved:
			summary.Approved++
		case models.StatusClientReview:
			summary.InReview++
		case models.StatusWaitingForDirection:
			summary.NeedsAction++
		}
	}
	return summary, nil
}
