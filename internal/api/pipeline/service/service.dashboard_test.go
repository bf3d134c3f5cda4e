package pipelinesvc

import (
	"context"
	"testing"

	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/dto"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	"github.com/Naim3097/X.IDE-CMS/internal/datastore"
)

func TestDashboard_NoActivePlan(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	clientID := seedClient(t, store)

	summary, err := NewDashboardService(store).GetSummary(ctx, clientID)
	if err != nil {
		t.Fatalf("GetSummary lỗi: %v", err)
	}
	if summary.HasActivePlan {
		t.Errorf("khách chưa có kỳ active phải trả hasActivePlan=false")
	}
	if summary.Total != 0 || summary.Approved != 0 {
		t.Errorf("không có kế hoạch thì counters phải bằng 0: %+v", summary)
	}
}

// TestDashboard_Summary đếm theo trạng thái hiện tại của các piece trong kỳ
// active: total = allocation, approved / inReview / needsAction theo status.
func TestDashboard_Summary(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	clientID := seedClient(t, store)

	period, err := NewPlanningPeriodService(store).CreatePeriod(ctx, &dto.PeriodCreateInput{
		ClientID: clientID, Name: "Nov", Year: 2025, Month: 11, Allocation: 5,
	})
	if err != nil {
		t.Fatalf("CreatePeriod lỗi: %v", err)
	}

	pieceSvc := NewContentPieceService(store)
	pieces, err := pieceSvc.ListByPeriod(ctx, period.ID)
	if err != nil {
		t.Fatalf("ListByPeriod lỗi: %v", err)
	}

	// Piece 1: approved, piece 2: client_review, piece 3: agency_prep,
	// piece 4 và 5 giữ nguyên waiting_for_direction.
	direction := models.Direction{Topic: "Sleep tips"}
	work := models.WorkSnapshot{Media: imageMedia("memory://img")}

	if _, err := pieceSvc.SubmitDirection(ctx, pieces[0].ID, direction); err != nil {
		t.Fatalf("SubmitDirection lỗi: %v", err)
	}
	if _, err := pieceSvc.SubmitDraft(ctx, pieces[0].ID, work); err != nil {
		t.Fatalf("SubmitDraft lỗi: %v", err)
	}
	if _, err := pieceSvc.Approve(ctx, pieces[0].ID); err != nil {
		t.Fatalf("Approve lỗi: %v", err)
	}

	if _, err := pieceSvc.SubmitDirection(ctx, pieces[1].ID, direction); err != nil {
		t.Fatalf("SubmitDirection lỗi: %v", err)
	}
	if _, err := pieceSvc.SubmitDraft(ctx, pieces[1].ID, work); err != nil {
		t.Fatalf("SubmitDraft lỗi: %v", err)
	}

	if _, err := pieceSvc.SubmitDirection(ctx, pieces[2].ID, direction); err != nil {
		t.Fatalf("SubmitDirection lỗi: %v", err)
	}

	summary, err := NewDashboardService(store).GetSummary(ctx, clientID)
	if err != nil {
		t.Fatalf("GetSummary lỗi: %v", err)
	}
	if !summary.HasActivePlan {
		t.Fatal("muốn hasActivePlan=true")
	}
	if summary.PeriodID != period.ID {
		t.Errorf("muốn periodId %s, nhận %s", period.ID, summary.PeriodID)
	}
	if summary.Total != 5 {
		t.Errorf("muốn total=5, nhận %d", summary.Total)
	}
	if summary.Approved != 1 {
		t.Errorf("muốn approved=1, nhận %d", summary.Approved)
	}
	if summary.InReview != 1 {
		t.Errorf("muốn inReview=1, nhận %d", summary.InReview)
	}
	if summary.NeedsAction != 2 {
		t.Errorf("muốn needsAction=2, nhận %d", summary.NeedsAction)
	}
}
