package pipelinesvc

import (
	"context"
	"errors"
	"testing"

	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/datastore"
)

// seedPiece ghi sẵn một kỳ và một piece vào store, trả về id của piece.
func seedPiece(t *testing.T, store datastore.DataStore, status string) string {
	t.Helper()
	ctx := context.Background()

	period := models.PlanningPeriod{
		ID:         datastore.NewID(),
		ClientID:   "client-1",
		Name:       "Tháng 11/2025",
		Year:       2025,
		Month:      11,
		Allocation: 1,
		Status:     models.PeriodStatusActive,
	}
	if err := store.Put(ctx, models.CollectionPeriods, period.ID, period); err != nil {
		t.Fatalf("seed period lỗi: %v", err)
	}

	piece := models.ContentPiece{
		ID:       datastore.NewID(),
		PeriodID: period.ID,
		ClientID: "client-1",
		Index:    1,
		Status:   status,
	}
	if err := store.Put(ctx, models.CollectionContentPieces, piece.ID, piece); err != nil {
		t.Fatalf("seed piece lỗi: %v", err)
	}
	return piece.ID
}

func isValidationError(err error) bool {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code.Code == common.ErrCodeValidationInput.Code
}

func isTransitionError(err error) bool {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code.Code == common.ErrCodeBusinessState.Code
}

func imageMedia(url string) []models.MediaItem {
	return []models.MediaItem{{URL: url, Type: models.MediaTypeImage}}
}

// TestContentPiece_FullWorkflow chạy trọn kịch bản từ định hướng tới approved:
// direction → save work → submit fail (thiếu media) → submit ok → request
// changes → submit lại → approve.
func TestContentPiece_FullWorkflow(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewContentPieceService(store)
	id := seedPiece(t, store, models.StatusWaitingForDirection)

	// Khách gửi định hướng
	piece, err := svc.SubmitDirection(ctx, id, models.Direction{Topic: "Sleep tips", Style: "Educational"})
	if err != nil {
		t.Fatalf("SubmitDirection lỗi: %v", err)
	}
	if piece.Status != models.StatusAgencyPrep {
		t.Fatalf("sau direction muốn status %s, nhận %s", models.StatusAgencyPrep, piece.Status)
	}

	// Agency lưu tiến độ — không tạo draft
	piece, err = svc.SaveWork(ctx, id, models.WorkSnapshot{VisualHeadline: "H1"})
	if err != nil {
		t.Fatalf("SaveWork lỗi: %v", err)
	}
	if piece.Status != models.StatusAgencyPrep || len(piece.Drafts) != 0 {
		t.Fatalf("SaveWork không được đổi status hay tạo draft: status=%s, drafts=%d", piece.Status, len(piece.Drafts))
	}

	// Submit không có media phải fail, ledger giữ nguyên
	_, err = svc.SubmitDraft(ctx, id, models.WorkSnapshot{VisualHeadline: "H1"})
	if !isValidationError(err) {
		t.Fatalf("submit thiếu media muốn ValidationError, nhận %v", err)
	}
	detail, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID lỗi: %v", err)
	}
	if len(detail.Drafts) != 0 {
		t.Errorf("ledger phải giữ nguyên sau submit fail, nhận %d draft", len(detail.Drafts))
	}

	// Thêm media rồi submit thành công
	work := models.WorkSnapshot{VisualHeadline: "H1", Media: imageMedia("memory://img-1")}
	piece, err = svc.SubmitDraft(ctx, id, work)
	if err != nil {
		t.Fatalf("SubmitDraft lỗi: %v", err)
	}
	if piece.Status != models.StatusClientReview || len(piece.Drafts) != 1 {
		t.Fatalf("sau submit muốn client_review với 1 draft, nhận status=%s drafts=%d", piece.Status, len(piece.Drafts))
	}
	if piece.Drafts[0].Number != 1 || piece.Drafts[0].Status != models.DraftStatusPending {
		t.Errorf("draft đầu tiên muốn number=1 status=pending, nhận number=%d status=%s",
			piece.Drafts[0].Number, piece.Drafts[0].Status)
	}

	// Khách yêu cầu sửa
	piece, err = svc.RequestChanges(ctx, id, "too bright")
	if err != nil {
		t.Fatalf("RequestChanges lỗi: %v", err)
	}
	if piece.Status != models.StatusChangesRequested {
		t.Fatalf("muốn status changes_requested, nhận %s", piece.Status)
	}
	if piece.Drafts[0].Status != models.DraftStatusChangesRequested || piece.Drafts[0].Feedback != "too bright" {
		t.Errorf("draft cuối phải mang feedback: status=%s feedback=%q", piece.Drafts[0].Status, piece.Drafts[0].Feedback)
	}

	// Agency submit vòng 2 với media mới
	work2 := models.WorkSnapshot{VisualHeadline: "H2", Media: imageMedia("memory://img-2")}
	piece, err = svc.SubmitDraft(ctx, id, work2)
	if err != nil {
		t.Fatalf("SubmitDraft vòng 2 lỗi: %v", err)
	}
	if len(piece.Drafts) != 2 || piece.Status != models.StatusClientReview {
		t.Fatalf("sau submit vòng 2 muốn 2 draft + client_review, nhận drafts=%d status=%s", len(piece.Drafts), piece.Status)
	}

	// Khách duyệt
	piece, err = svc.Approve(ctx, id)
	if err != nil {
		t.Fatalf("Approve lỗi: %v", err)
	}
	if piece.Status != models.StatusApproved {
		t.Fatalf("muốn status approved, nhận %s", piece.Status)
	}
	if piece.FinalApprovedVersion != 2 {
		t.Errorf("muốn finalApprovedVersion=2, nhận %d", piece.FinalApprovedVersion)
	}
	if piece.Drafts[1].Status != models.DraftStatusApproved {
		t.Errorf("draft cuối phải được đánh dấu approved, nhận %s", piece.Drafts[1].Status)
	}

	// Đánh số draft không có khoảng trống
	for i, d := range piece.Drafts {
		if d.Number != i+1 {
			t.Errorf("drafts[%d].Number muốn %d, nhận %d", i, i+1, d.Number)
		}
	}
}

func TestContentPiece_SubmitDirection_EmptyTopic(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewContentPieceService(store)
	id := seedPiece(t, store, models.StatusWaitingForDirection)

	_, err := svc.SubmitDirection(ctx, id, models.Direction{Style: "Educational"})
	if !isValidationError(err) {
		t.Fatalf("topic rỗng muốn ValidationError, nhận %v", err)
	}

	detail, _ := svc.GetByID(ctx, id)
	if detail.Status != models.StatusWaitingForDirection || detail.Direction != nil {
		t.Errorf("guard fail không được mutate state: status=%s direction=%v", detail.Status, detail.Direction)
	}
}

func TestContentPiece_SubmitDirection_WrongState(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewContentPieceService(store)
	id := seedPiece(t, store, models.StatusClientReview)

	_, err := svc.SubmitDirection(ctx, id, models.Direction{Topic: "Sleep tips"})
	if !isTransitionError(err) {
		t.Fatalf("direction từ client_review muốn InvalidTransition, nhận %v", err)
	}
}

// TestContentPiece_ApproveThenSubmit sau approved không thao tác nào hợp lệ nữa
// trừ reset — thiết kế không hỗ trợ un-approve.
func TestContentPiece_ApproveThenSubmit(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewContentPieceService(store)
	id := seedPiece(t, store, models.StatusWaitingForDirection)

	if _, err := svc.SubmitDirection(ctx, id, models.Direction{Topic: "Sleep"}); err != nil {
		t.Fatalf("SubmitDirection lỗi: %v", err)
	}
	if _, err := svc.SubmitDraft(ctx, id, models.WorkSnapshot{Media: imageMedia("memory://a")}); err != nil {
		t.Fatalf("SubmitDraft lỗi: %v", err)
	}
	if _, err := svc.Approve(ctx, id); err != nil {
		t.Fatalf("Approve lỗi: %v", err)
	}

	if _, err := svc.SubmitDraft(ctx, id, models.WorkSnapshot{Media: imageMedia("memory://b")}); !isTransitionError(err) {
		t.Errorf("submit sau approved muốn InvalidTransition, nhận %v", err)
	}
	if _, err := svc.Approve(ctx, id); !isTransitionError(err) {
		t.Errorf("approve lần 2 muốn InvalidTransition, nhận %v", err)
	}
}

func TestContentPiece_RequestChanges_EmptyFeedback(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewContentPieceService(store)
	id := seedPiece(t, store, models.StatusWaitingForDirection)

	if _, err := svc.SubmitDirection(ctx, id, models.Direction{Topic: "Sleep"}); err != nil {
		t.Fatalf("SubmitDirection lỗi: %v", err)
	}
	if _, err := svc.SubmitDraft(ctx, id, models.WorkSnapshot{Media: imageMedia("memory://a")}); err != nil {
		t.Fatalf("SubmitDraft lỗi: %v", err)
	}

	if _, err := svc.RequestChanges(ctx, id, ""); !isValidationError(err) {
		t.Fatalf("feedback rỗng muốn ValidationError, nhận %v", err)
	}

	detail, _ := svc.GetByID(ctx, id)
	if detail.Drafts[0].Status != models.DraftStatusPending {
		t.Errorf("guard fail không được mutate draft, nhận status %s", detail.Drafts[0].Status)
	}
}

// TestContentPiece_Reset reset từ mọi trạng thái đều trả piece về rỗng hoàn toàn.
func TestContentPiece_Reset(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewContentPieceService(store)
	id := seedPiece(t, store, models.StatusWaitingForDirection)

	if _, err := svc.SubmitDirection(ctx, id, models.Direction{Topic: "Sleep"}); err != nil {
		t.Fatalf("SubmitDirection lỗi: %v", err)
	}
	if _, err := svc.SubmitDraft(ctx, id, models.WorkSnapshot{VisualHeadline: "H1", Media: imageMedia("memory://a")}); err != nil {
		t.Fatalf("SubmitDraft lỗi: %v", err)
	}
	if _, err := svc.Approve(ctx, id); err != nil {
		t.Fatalf("Approve lỗi: %v", err)
	}

	piece, err := svc.Reset(ctx, id)
	if err != nil {
		t.Fatalf("Reset lỗi: %v", err)
	}
	if piece.Status != models.StatusWaitingForDirection {
		t.Errorf("sau reset muốn waiting_for_direction, nhận %s", piece.Status)
	}

	detail, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID sau reset lỗi: %v", err)
	}
	if detail.Direction != nil {
		t.Errorf("direction phải bị xóa sau reset")
	}
	if len(detail.Drafts) != 0 {
		t.Errorf("ledger phải rỗng sau reset, nhận %d draft", len(detail.Drafts))
	}
	if detail.CurrentWork.VisualHeadline != "" || len(detail.CurrentWork.Media) != 0 {
		t.Errorf("work snapshot phải rỗng sau reset: %+v", detail.CurrentWork)
	}
	if detail.FinalApprovedVersion != 0 {
		t.Errorf("finalApprovedVersion phải về 0 sau reset, nhận %d", detail.FinalApprovedVersion)
	}
}

// raceStore chen một thao tác cạnh tranh vào đúng trước lần PutWithVersion
// đầu tiên — mô phỏng hai writer cùng đọc rồi cùng ghi một piece.
type raceStore struct {
	datastore.DataStore
	before func()
	fired  bool
}

func (s *raceStore) PutWithVersion(ctx context.Context, collection string, id string, doc interface{}, expectedVersion int64) error {
	if !s.fired && s.before != nil {
		s.fired = true
		s.before()
	}
	return s.DataStore.PutWithVersion(ctx, collection, id, doc, expectedVersion)
}

// TestContentPiece_ConcurrentSubmit hai submitDraft chạy đồng thời từ ledger
// dài 1: đúng một call thành công tạo draft số 2, call kia nhận
// ErrConcurrentModification — không bao giờ có hai entry cùng số.
func TestContentPiece_ConcurrentSubmit(t *testing.T) {
	ctx := context.Background()
	base := datastore.NewMemoryStore()
	id := seedPiece(t, base, models.StatusWaitingForDirection)

	setup := NewContentPieceService(base)
	if _, err := setup.SubmitDirection(ctx, id, models.Direction{Topic: "Sleep"}); err != nil {
		t.Fatalf("SubmitDirection lỗi: %v", err)
	}
	if _, err := setup.SubmitDraft(ctx, id, models.WorkSnapshot{Media: imageMedia("memory://v1")}); err != nil {
		t.Fatalf("SubmitDraft lần 1 lỗi: %v", err)
	}
	if _, err := setup.RequestChanges(ctx, id, "đổi màu nền"); err != nil {
		t.Fatalf("RequestChanges lỗi: %v", err)
	}

	// Writer thứ hai commit xong ngay trước khi writer thứ nhất kịp ghi.
	race := &raceStore{DataStore: base}
	race.before = func() {
		other := NewContentPieceService(base)
		if _, err := other.SubmitDraft(ctx, id, models.WorkSnapshot{Media: imageMedia("memory://v2-b")}); err != nil {
			t.Fatalf("submit của writer thứ hai lỗi: %v", err)
		}
	}
	racing := NewContentPieceService(race)

	_, err := racing.SubmitDraft(ctx, id, models.WorkSnapshot{Media: imageMedia("memory://v2-a")})
	if !errors.Is(err, common.ErrConcurrentModification) {
		t.Fatalf("writer thua cuộc muốn ErrConcurrentModification, nhận %v", err)
	}

	detail, err := setup.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID lỗi: %v", err)
	}
	if len(detail.Drafts) != 2 {
		t.Fatalf("chỉ một submit được thắng, muốn 2 draft, nhận %d", len(detail.Drafts))
	}
	for i, d := range detail.Drafts {
		if d.Number != i+1 {
			t.Errorf("drafts[%d].Number muốn %d, nhận %d", i, i+1, d.Number)
		}
	}
	if detail.Drafts[1].Work.Media[0].URL != "memory://v2-b" {
		t.Errorf("draft 2 phải là của writer thắng cuộc, nhận %s", detail.Drafts[1].Work.Media[0].URL)
	}
}

// TestContentPiece_Orphaned piece có periodId không còn tồn tại: đọc được,
// mọi thao tác ghi bị từ chối.
func TestContentPiece_Orphaned(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewContentPieceService(store)

	piece := models.ContentPiece{
		ID:       datastore.NewID(),
		PeriodID: "period-da-bi-xoa",
		ClientID: "client-1",
		Index:    1,
		Status:   models.StatusAgencyPrep,
	}
	if err := store.Put(ctx, models.CollectionContentPieces, piece.ID, piece); err != nil {
		t.Fatalf("seed piece lỗi: %v", err)
	}

	detail, err := svc.GetByID(ctx, piece.ID)
	if err != nil {
		t.Fatalf("piece mồ côi vẫn phải đọc được: %v", err)
	}
	if !detail.Orphaned {
		t.Errorf("muốn cờ orphaned=true")
	}

	if _, err := svc.SaveWork(ctx, piece.ID, models.WorkSnapshot{VisualHeadline: "H1"}); !isTransitionError(err) {
		t.Errorf("ghi lên piece mồ côi muốn lỗi business-state, nhận %v", err)
	}
}

func TestContentPiece_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewContentPieceService(datastore.NewMemoryStore())

	_, err := svc.GetByID(ctx, "khong-ton-tai")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("muốn ErrNotFound, nhận %v", err)
	}
}

func TestContentPiece_ListByPeriod_SortedByIndex(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewContentPieceService(store)

	periodID := datastore.NewID()
	// Ghi theo thứ tự đảo để chắc chắn service tự sort
	for _, idx := range []int{3, 1, 2} {
		piece := models.ContentPiece{
			ID:       datastore.NewID(),
			PeriodID: periodID,
			Index:    idx,
			Status:   models.StatusWaitingForDirection,
		}
		if err := store.Put(ctx, models.CollectionContentPieces, piece.ID, piece); err != nil {
			t.Fatalf("seed piece %d lỗi: %v", idx, err)
		}
	}

	pieces, err := svc.ListByPeriod(ctx, periodID)
	if err != nil {
		t.Fatalf("ListByPeriod lỗi: %v", err)
	}
	if len(pieces) != 3 {
		t.Fatalf("muốn 3 piece, nhận %d", len(pieces))
	}
	for i, p := range pieces {
		if p.Index != i+1 {
			t.Errorf("pieces[%d].Index muốn %d, nhận %d", i, i+1, p.Index)
		}
	}
}

// TestContentPiece_ReviewEmptyLedger piece ở client_review nhưng ledger rỗng
// (dữ liệu hỏng): duyệt và yêu cầu sửa đều trả về ErrNotFound và không ghi gì.
func TestContentPiece_ReviewEmptyLedger(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemoryStore()
	svc := NewContentPieceService(store)
	id := seedPiece(t, store, models.StatusClientReview)

	if _, err := svc.Approve(ctx, id); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Approve trên ledger rỗng muốn ErrNotFound, nhận %v", err)
	}
	if _, err := svc.RequestChanges(ctx, id, "sửa lại phần mở đầu"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("RequestChanges trên ledger rỗng muốn ErrNotFound, nhận %v", err)
	}

	detail, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID lỗi: %v", err)
	}
	if detail.Status != models.StatusClientReview || detail.Version != 0 {
		t.Fatalf("piece không được thay đổi: status=%s version=%d", detail.Status, detail.Version)
	}
}
