package pipelinesvc

import (
	"context"
	"errors"
	"testing"

	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/dto"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/datastore"
)

// seedClient ghi sẵn một khách hàng, trả về id.
func seedClient(t *testing.T, store datastore.DataStore) string {
	t.Helper()
	client := models.Client{
		ID:    datastore.NewID(),
		Name:  "Nexova Demo",
		Email: "demo@nexova.vn",
	}
	if err := store.Put(context.Background(), models.CollectionClients, client.ID, client); err != nil {
		t.Fatalf("seed client lỗi: %v", err)
	}
	return client.ID
}

func TestPeriod_CreatePeriod_AllocatesBatch(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewPlanningPeriodService(store)
	clientID := seedClient(t, store)

	period, err := svc.CreatePeriod(ctx, &dto.PeriodCreateInput{
		ClientID:   clientID,
		Name:       "Nov",
		Year:       2025,
		Month:      11,
		Allocation: 15,
	})
	if err != nil {
		t.Fatalf("CreatePeriod lỗi: %v", err)
	}
	if period.Status != models.PeriodStatusActive {
		t.Errorf("kỳ mới phải active, nhận %s", period.Status)
	}
	if period.Allocation != 15 {
		t.Errorf("muốn allocation 15, nhận %d", period.Allocation)
	}

	pieces, err := NewContentPieceService(store).ListByPeriod(ctx, period.ID)
	if err != nil {
		t.Fatalf("ListByPeriod lỗi: %v", err)
	}
	if len(pieces) != 15 {
		t.Fatalf("muốn đúng 15 piece, nhận %d", len(pieces))
	}
	for i, p := range pieces {
		if p.Index != i+1 {
			t.Errorf("pieces[%d].Index muốn %d, nhận %d", i, i+1, p.Index)
		}
		if p.Status != models.StatusWaitingForDirection {
			t.Errorf("piece %d phải ở waiting_for_direction, nhận %s", p.Index, p.Status)
		}
		if p.ClientID != clientID || p.PeriodID != period.ID {
			t.Errorf("piece %d sai liên kết: clientId=%s periodId=%s", p.Index, p.ClientID, p.PeriodID)
		}
	}
}

func TestPeriod_CreatePeriod_UnknownClient(t *testing.T) {
	ctx := context.Background()
	svc := NewPlanningPeriodService(datastore.NewMemoryStore())

	_, err := svc.CreatePeriod(ctx, &dto.PeriodCreateInput{
		ClientID: "khong-ton-tai", Name: "Nov", Year: 2025, Month: 11, Allocation: 5,
	})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("clientId không tồn tại muốn ErrNotFound, nhận %v", err)
	}
}

func TestPeriod_CreatePeriod_InvalidAllocation(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewPlanningPeriodService(store)
	clientID := seedClient(t, store)

	for _, alloc := range []int{0, -3} {
		_, err := svc.CreatePeriod(ctx, &dto.PeriodCreateInput{
			ClientID: clientID, Name: "Nov", Year: 2025, Month: 11, Allocation: alloc,
		})
		if !isValidationError(err) {
			t.Errorf("allocation %d muốn ValidationError, nhận %v", alloc, err)
		}
	}
}

// poisonBatchStore chèn một document không marshal được vào giữa batch —
// mô phỏng store fail giữa chừng khi ghi batch.
type poisonBatchStore struct {
	datastore.DataStore
}

func (s *poisonBatchStore) AtomicBatch(ctx context.Context, puts []datastore.BatchPut) error {
	poisoned := make([]datastore.BatchPut, 0, len(puts)+1)
	poisoned = append(poisoned, puts[:len(puts)/2]...)
	poisoned = append(poisoned, datastore.BatchPut{
		Collection: models.CollectionContentPieces,
		ID:         datastore.NewID(),
		Doc:        map[string]interface{}{"hong": make(chan int)},
	})
	poisoned = append(poisoned, puts[len(puts)/2:]...)
	return s.DataStore.AtomicBatch(ctx, poisoned)
}

// TestPeriod_CreatePeriod_InterruptedBatch batch fail giữa chừng thì không một
// document nào được lộ ra — không kỳ, không piece dở dang.
func TestPeriod_CreatePeriod_InterruptedBatch(t *testing.T) {
	ctx := context.Background()
	base := datastore.NewMemoryStore()
	clientID := seedClient(t, base)
	svc := NewPlanningPeriodService(&poisonBatchStore{DataStore: base})

	_, err := svc.CreatePeriod(ctx, &dto.PeriodCreateInput{
		ClientID: clientID, Name: "Nov", Year: 2025, Month: 11, Allocation: 15,
	})
	if err == nil {
		t.Fatal("batch bị hỏng phải trả lỗi")
	}

	var periods []models.PlanningPeriod
	if err := base.Query(ctx, models.CollectionPeriods, map[string]interface{}{"clientId": clientID}, &periods); err != nil {
		t.Fatalf("query periods lỗi: %v", err)
	}
	if len(periods) != 0 {
		t.Errorf("không kỳ nào được lộ ra sau batch fail, nhận %d", len(periods))
	}

	var pieces []models.ContentPiece
	if err := base.Query(ctx, models.CollectionContentPieces, map[string]interface{}{"clientId": clientID}, &pieces); err != nil {
		t.Fatalf("query pieces lỗi: %v", err)
	}
	if len(pieces) != 0 {
		t.Errorf("không piece nào được lộ ra sau batch fail, nhận %d", len(pieces))
	}
}

func TestPeriod_ListByClient_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewPlanningPeriodService(store)
	clientID := seedClient(t, store)

	for _, ym := range [][2]int{{2025, 3}, {2025, 11}, {2024, 12}} {
		_, err := svc.CreatePeriod(ctx, &dto.PeriodCreateInput{
			ClientID: clientID, Name: "Kỳ", Year: ym[0], Month: ym[1], Allocation: 1,
		})
		if err != nil {
			t.Fatalf("CreatePeriod %v lỗi: %v", ym, err)
		}
	}

	periods, err := svc.ListByClient(ctx, clientID)
	if err != nil {
		t.Fatalf("ListByClient lỗi: %v", err)
	}
	if len(periods) != 3 {
		t.Fatalf("muốn 3 kỳ, nhận %d", len(periods))
	}
	want := [][2]int{{2025, 11}, {2025, 3}, {2024, 12}}
	for i, p := range periods {
		if p.Year != want[i][0] || p.Month != want[i][1] {
			t.Errorf("periods[%d] muốn %d/%d, nhận %d/%d", i, want[i][1], want[i][0], p.Month, p.Year)
		}
	}
}

// TestPeriod_ActivePeriod nhiều kỳ cùng active thì kỳ (year, month) lớn nhất thắng;
// kỳ archived không được tính.
func TestPeriod_ActivePeriod(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewPlanningPeriodService(store)
	clientID := seedClient(t, store)

	older, err := svc.CreatePeriod(ctx, &dto.PeriodCreateInput{
		ClientID: clientID, Name: "Oct", Year: 2025, Month: 10, Allocation: 1,
	})
	if err != nil {
		t.Fatalf("CreatePeriod lỗi: %v", err)
	}
	newest, err := svc.CreatePeriod(ctx, &dto.PeriodCreateInput{
		ClientID: clientID, Name: "Nov", Year: 2025, Month: 11, Allocation: 1,
	})
	if err != nil {
		t.Fatalf("CreatePeriod lỗi: %v", err)
	}

	active, err := svc.ActivePeriod(ctx, clientID)
	if err != nil {
		t.Fatalf("ActivePeriod lỗi: %v", err)
	}
	if active.ID != newest.ID {
		t.Errorf("muốn kỳ mới nhất %s, nhận %s", newest.ID, active.ID)
	}

	// Archive kỳ mới nhất thì kỳ cũ hơn thành active hiện hành
	if _, err := svc.Archive(ctx, newest.ID); err != nil {
		t.Fatalf("Archive lỗi: %v", err)
	}
	active, err = svc.ActivePeriod(ctx, clientID)
	if err != nil {
		t.Fatalf("ActivePeriod sau archive lỗi: %v", err)
	}
	if active.ID != older.ID {
		t.Errorf("sau archive muốn kỳ %s, nhận %s", older.ID, active.ID)
	}

	// Archive nốt → không còn kỳ active
	if _, err := svc.Archive(ctx, older.ID); err != nil {
		t.Fatalf("Archive lỗi: %v", err)
	}
	if _, err := svc.ActivePeriod(ctx, clientID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("hết kỳ active muốn ErrNotFound, nhận %v", err)
	}
}
