// Package pipelinesvc - Service cho domain pipeline.
// ContentPieceService là state machine của content piece: quản lý trạng thái,
// work snapshot hiện tại và draft ledger; mọi thao tác ghi đều đi qua
// optimistic-concurrency guard (expected version).
package pipelinesvc

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/datastore"
	"github.com/Naim3097/X.IDE-CMS/internal/utility"
)

// PieceDetail kết quả đọc một content piece, kèm cờ Orphaned khi periodId
// không còn trỏ tới kỳ nào (piece chỉ đọc, mọi thao tác ghi bị từ chối).
type PieceDetail struct {
	models.ContentPiece
	Orphaned bool `json:"orphaned"`
}

// ContentPieceService xử lý workflow của content piece.
type ContentPieceService struct {
	store datastore.DataStore
}

// NewContentPieceService tạo ContentPieceService mới trên một DataStore.
func NewContentPieceService(store datastore.DataStore) *ContentPieceService {
	return &ContentPieceService{store: store}
}

// newValidationError lỗi guard đầu vào — luôn fail trước khi ghi bất cứ gì.
func newValidationError(message string, details any) error {
	return common.NewError(common.ErrCodeValidationInput, message, common.StatusBadRequest, details)
}

// newTransitionError lỗi chuyển trạng thái không hợp lệ.
func newTransitionError(action, status string) error {
	return common.NewError(common.ErrCodeBusinessState,
		fmt.Sprintf("không thể %s khi content piece đang ở trạng thái %s", action, status),
		common.StatusBadRequest,
		map[string]interface{}{"action": action, "status": status})
}

// errOrphanedPiece piece có periodId không còn tồn tại — chỉ đọc.
var errOrphanedPiece = common.NewError(common.ErrCodeBusinessState,
	"Content piece không còn thuộc kỳ kế hoạch nào, chỉ có thể xem", common.StatusConflict, nil)

// getPiece đọc piece theo id.
func (s *ContentPieceService) getPiece(ctx context.Context, id string) (*models.ContentPiece, error) {
	var piece models.ContentPiece
	if err := s.store.GetByID(ctx, models.CollectionContentPieces, id, &piece); err != nil {
		return nil, err
	}
	return &piece, nil
}

// isOrphaned kiểm tra periodId của piece còn trỏ tới kỳ nào không.
func (s *ContentPieceService) isOrphaned(ctx context.Context, piece *models.ContentPiece) (bool, error) {
	var period models.PlanningPeriod
	err := s.store.GetByID(ctx, models.CollectionPeriods, piece.PeriodID, &period)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, common.ErrNotFound) {
		return true, nil
	}
	return false, err
}

// loadForUpdate đọc piece và chặn mọi thao tác ghi trên piece mồ côi.
func (s *ContentPieceService) loadForUpdate(ctx context.Context, id string) (*models.ContentPiece, error) {
	piece, err := s.getPiece(ctx, id)
	if err != nil {
		return nil, err
	}
	orphaned, err := s.isOrphaned(ctx, piece)
	if err != nil {
		return nil, err
	}
	if orphaned {
		return nil, errOrphanedPiece
	}
	return piece, nil
}

// save ghi piece với expected-version check: version tăng 1 trên mỗi lần ghi,
// nếu một writer khác đã ghi giữa lúc đọc và lúc ghi thì trả về
// ErrConcurrentModification (caller đọc lại và thử lại).
func (s *ContentPieceService) save(ctx context.Context, piece *models.ContentPiece) error {
	expected := piece.Version
	piece.Version = expected + 1
	piece.UpdatedAt = utility.CurrentTimeInMilli()
	return s.store.PutWithVersion(ctx, models.CollectionContentPieces, piece.ID, piece, expected)
}

// GetByID trả về piece kèm cờ orphaned (periodId không còn tồn tại).
func (s *ContentPieceService) GetByID(ctx context.Context, id string) (*PieceDetail, error) {
	piece, err := s.getPiece(ctx, id)
	if err != nil {
		return nil, err
	}
	orphaned, err := s.isOrphaned(ctx, piece)
	if err != nil {
		return nil, err
	}
	return &PieceDetail{ContentPiece: *piece, Orphaned: orphaned}, nil
}

// ListByPeriod trả về toàn bộ piece của một kỳ, sắp theo index tăng dần.
// Store không đảm bảo thứ tự query nên service tự sort sau khi fetch.
func (s *ContentPieceService) ListByPeriod(ctx context.Context, periodID string) ([]models.ContentPiece, error) {
	var pieces []models.ContentPiece
	filter := map[string]interface{}{"periodId": periodID}
	if err := s.store.Query(ctx, models.CollectionContentPieces, filter, &pieces); err != nil {
		return nil, err
	}
	sort.Slice(pieces, func(i, j int) bool { return pieces[i].Index < pieces[j].Index })
	return pieces, nil
}

// SubmitDirection khách hàng gửi định hướng sáng tạo.
// waiting_for_direction → agency_prep. Topic bắt buộc không rỗng.
func (s *ContentPieceService) SubmitDirection(ctx context.Context, id string, direction models.Direction) (*models.ContentPiece, error) {
	if direction.Topic == "" {
		return nil, newValidationError("Định hướng phải có chủ đề (topic)", map[string]interface{}{"field": "topic"})
	}
	piece, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if piece.Status != models.StatusWaitingForDirection {
		return nil, newTransitionError("gửi định hướng", piece.Status)
	}

	piece.Direction = &direction
	piece.Status = models.StatusAgencyPrep
	if err := s.save(ctx, piece); err != nil {
		return nil, err
	}
	return piece, nil
}

// SaveWork agency lưu tiến độ: ghi đè work snapshot hiện tại, KHÔNG tạo draft
// mới và không đổi trạng thái. Cho phép khi piece đang ở agency_prep hoặc
// changes_requested (cả hai đều là điều kiện "agency đang làm").
func (s *ContentPieceService) SaveWork(ctx context.Context, id string, work models.WorkSnapshot) (*models.ContentPiece, error) {
	piece, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := []string{models.StatusAgencyPrep, models.StatusChangesRequested}
	if !utility.Contains(allowed, piece.Status) {
		return nil, newTransitionError("lưu tiến độ", piece.Status)
	}

	piece.CurrentWork = work
	if err := s.save(ctx, piece); err != nil {
		return nil, err
	}
	return piece, nil
}

// SubmitDraft agency submit bản draft: đóng băng work snapshot thành entry mới
// của ledger (number = len+1, status pending) và chuyển sang client_review.
// Guard: snapshot phải có ít nhất 1 media — nội dung visual là bắt buộc để
// khách review. Đây là thao tác duy nhất làm ledger dài thêm.
func (s *ContentPieceService) SubmitDraft(ctx context.Context, id string, work models.WorkSnapshot) (*models.ContentPiece, error) {
	if len(work.Media) == 0 {
		return nil, newValidationError("Draft phải có ít nhất một media trước khi gửi khách duyệt",
			map[string]interface{}{"field": "media"})
	}
	piece, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := []string{models.StatusAgencyPrep, models.StatusChangesRequested}
	if !utility.Contains(allowed, piece.Status) {
		return nil, newTransitionError("gửi draft", piece.Status)
	}

	draft := models.Draft{
		Number:      len(piece.Drafts) + 1,
		Work:        work,
		SubmittedAt: utility.CurrentTimeInMilli(),
		Status:      models.DraftStatusPending,
	}
	// Append + ghi đè CurrentWork trong cùng một lần ghi: reader không bao giờ
	// thấy entry mới trong ledger mà snapshot hiện tại chưa khớp.
	piece.Drafts = append(piece.Drafts, draft)
	piece.CurrentWork = work
	piece.Status = models.StatusClientReview
	if err := s.save(ctx, piece); err != nil {
		return nil, err
	}
	return piece, nil
}

// reviewLastDraft copy-on-write trên draft cuối: tạo ledger mới với entry cuối
// được thay, không mutate slice cũ.
func reviewLastDraft(drafts []models.Draft, status, feedback string) []models.Draft {
	next := make([]models.Draft, len(drafts))
	copy(next, drafts)
	last := &next[len(next)-1]
	last.Status = status
	last.Feedback = feedback
	return next
}

// Approve khách hàng duyệt draft cuối cùng — trạng thái cuối, không hoàn tác.
// client_review → approved; draft cuối chuyển approved và
// FinalApprovedVersion = số của draft cuối.
func (s *ContentPieceService) Approve(ctx context.Context, id string) (*models.ContentPiece, error) {
	piece, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if piece.Status != models.StatusClientReview {
		return nil, newTransitionError("duyệt", piece.Status)
	}
	// Ledger rỗng ở client_review chỉ xảy ra với dữ liệu hỏng; với caller
	// đây là "không có draft để duyệt" — cùng sentinel với document thiếu
	if len(piece.Drafts) == 0 {
		return nil, common.ErrNotFound
	}

	piece.Drafts = reviewLastDraft(piece.Drafts, models.DraftStatusApproved, "")
	piece.FinalApprovedVersion = piece.Drafts[len(piece.Drafts)-1].Number
	piece.Status = models.StatusApproved
	if err := s.save(ctx, piece); err != nil {
		return nil, err
	}
	return piece, nil
}

// RequestChanges khách hàng yêu cầu sửa draft cuối cùng, kèm feedback bắt buộc.
// client_review → changes_requested; lần submit draft tiếp theo của agency sẽ
// đưa piece trở lại client_review.
func (s *ContentPieceService) RequestChanges(ctx context.Context, id string, feedback string) (*models.ContentPiece, error) {
	if feedback == "" {
		return nil, newValidationError("Yêu cầu sửa phải kèm nội dung feedback", map[string]interface{}{"field": "feedback"})
	}
	piece, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if piece.Status != models.StatusClientReview {
		return nil, newTransitionError("yêu cầu sửa", piece.Status)
	}
	if len(piece.Drafts) == 0 {
		return nil, common.ErrNotFound
	}

	piece.Drafts = reviewLastDraft(piece.Drafts, models.DraftStatusChangesRequested, feedback)
	piece.Status = models.StatusChangesRequested
	if err := s.save(ctx, piece); err != nil {
		return nil, err
	}
	return piece, nil
}

// Reset đưa piece về trạng thái ban đầu từ BẤT KỲ trạng thái nào: xóa
// Direction, WorkSnapshot, toàn bộ draft ledger và FinalApprovedVersion.
// Thao tác phá hủy, không hoàn tác được và luôn toàn phần — không bao giờ
// xóa dở một phần field. Xác nhận 2 bước nằm ở handler, service vô điều kiện.
func (s *ContentPieceService) Reset(ctx context.Context, id string) (*models.ContentPiece, error) {
	piece, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	piece.Direction = nil
	piece.CurrentWork = models.WorkSnapshot{}
	piece.Drafts = nil
	piece.FinalApprovedVersion = 0
	piece.Status = models.StatusWaitingForDirection
	if err := s.save(ctx, piece); err != nil {
		return nil, err
	}
	return piece, nil
}
