package pipelinesvc

import (
	"context"
	"sort"

	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/dto"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/datastore"
	"github.com/Naim3097/X.IDE-CMS/internal/utility"
)

// PlanningPeriodService quản lý kỳ kế hoạch và cấp phát batch content piece.
type PlanningPeriodService struct {
	store datastore.DataStore
}

// NewPlanningPeriodService tạo PlanningPeriodService mới trên một DataStore.
func NewPlanningPeriodService(store datastore.DataStore) *PlanningPeriodService {
	return &PlanningPeriodService{store: store}
}

// CreatePeriod tạo kỳ kế hoạch và cấp phát đúng input.Allocation content piece
// (index 1..N, tất cả waiting_for_direction) trong MỘT batch nguyên tử: hoặc
// toàn bộ document được ghi, hoặc không có gì — không bao giờ lộ cohort dở dang.
// Allocation không đổi sau khi tạo; không có thao tác thêm/bớt piece cho kỳ.
func (s *PlanningPeriodService) CreatePeriod(ctx context.Context, input *dto.PeriodCreateInput) (*models.PlanningPeriod, error) {
	if input.Allocation <= 0 {
		return nil, newValidationError("Allocation phải là số nguyên dương", map[string]interface{}{"field": "allocation"})
	}

	// Khách hàng phải tồn tại trước khi cấp kỳ.
	var client models.Client
	if err := s.store.GetByID(ctx, models.CollectionClients, input.ClientID, &client); err != nil {
		return nil, err
	}

	now := utility.CurrentTimeInMilli()
	period := models.PlanningPeriod{
		ID:         datastore.NewID(),
		ClientID:   input.ClientID,
		Name:       input.Name,
		Year:       input.Year,
		Month:      input.Month,
		Allocation: input.Allocation,
		Status:     models.PeriodStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	puts := make([]datastore.BatchPut, 0, input.Allocation+1)
	puts = append(puts, datastore.BatchPut{
		Collection: models.CollectionPeriods,
		ID:         period.ID,
		Doc:        period,
	})
	for i := 1; i <= input.Allocation; i++ {
		piece := models.ContentPiece{
			ID:          datastore.NewID(),
			PeriodID:    period.ID,
			ClientID:    input.ClientID,
			Index:       i,
			Status:      models.StatusWaitingForDirection,
			CurrentWork: models.WorkSnapshot{},
			Drafts:      nil,
			Version:     0,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		puts = append(puts, datastore.BatchPut{
			Collection: models.CollectionContentPieces,
			ID:         piece.ID,
			Doc:        piece,
		})
	}

	if err := s.store.AtomicBatch(ctx, puts); err != nil {
		return nil, err
	}
	return &period, nil
}

// GetByID đọc một kỳ kế hoạch theo id.
func (s *PlanningPeriodService) GetByID(ctx context.Context, id string) (*models.PlanningPeriod, error) {
	var period models.PlanningPeriod
	if err := s.store.GetByID(ctx, models.CollectionPeriods, id, &period); err != nil {
		return nil, err
	}
	return &period, nil
}

// ListByClient trả về các kỳ của một khách hàng, mới nhất trước
// (sắp giảm dần theo năm rồi tháng).
func (s *PlanningPeriodService) ListByClient(ctx context.Context, clientID string) ([]models.PlanningPeriod, error) {
	var periods []models.PlanningPeriod
	filter := map[string]interface{}{"clientId": clientID}
	if err := s.store.Query(ctx, models.CollectionPeriods, filter, &periods); err != nil {
		return nil, err
	}
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].Year != periods[j].Year {
			return periods[i].Year > periods[j].Year
		}
		return periods[i].Month > periods[j].Month
	})
	return periods, nil
}

// ActivePeriod trả về kỳ active hiện hành của khách hàng. Khi nhiều kỳ cùng
// active, kỳ có (year, month) lớn nhất thắng. Không có kỳ active nào →
// ErrNotFound (caller diễn giải thành "chưa có kế hoạch").
func (s *PlanningPeriodService) ActivePeriod(ctx context.Context, clientID string) (*models.PlanningPeriod, error) {
	var periods []models.PlanningPeriod
	filter := map[string]interface{}{
		"clientId": clientID,
		"status":   models.PeriodStatusActive,
	}
	if err := s.store.Query(ctx, models.CollectionPeriods, filter, &periods); err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, common.ErrNotFound
	}
	active := periods[0]
	for _, p := range periods[1:] {
		if p.Year > active.Year || (p.Year == active.Year && p.Month > active.Month) {
			active = p
		}
	}
	return &active, nil
}

// Archive chuyển kỳ sang archived (kỳ không còn là kế hoạch hiện hành).
func (s *PlanningPeriodService) Archive(ctx context.Context, periodID string) (*models.PlanningPeriod, error) {
	var period models.PlanningPeriod
	if err := s.store.GetByID(ctx, models.CollectionPeriods, periodID, &period); err != nil {
		return nil, err
	}
	if period.Status == models.PeriodStatusArchived {
		return &period, nil
	}
	period.Status = models.PeriodStatusArchived
	period.UpdatedAt = utility.CurrentTimeInMilli()
	if err := s.store.Put(ctx, models.CollectionPeriods, period.ID, period); err != nil {
		return nil, err
	}
	return &period, nil
}
