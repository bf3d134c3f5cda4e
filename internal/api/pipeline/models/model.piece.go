package models

// Trạng thái vòng đời của một content piece.
// Luồng: waiting_for_direction → agency_prep → client_review → approved.
// client_review có thể quay về changes_requested; submit draft tiếp theo
// đưa piece trở lại client_review. Reset đưa về waiting_for_direction từ
// bất kỳ trạng thái nào.
const (
	StatusWaitingForDirection = "waiting_for_direction" // Chờ khách hàng gửi định hướng
	StatusAgencyPrep          = "agency_prep"           // Agency đang chuẩn bị nội dung
	StatusClientReview        = "client_review"         // Đã submit draft, chờ khách duyệt
	StatusChangesRequested    = "changes_requested"     // Khách yêu cầu sửa
	StatusApproved            = "approved"              // Đã duyệt — trạng thái cuối
)

// Trạng thái review của một draft trong ledger.
const (
	DraftStatusPending          = "pending"
	DraftStatusApproved         = "approved"
	DraftStatusChangesRequested = "changes_requested"
)

// Loại media được hỗ trợ.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// MediaItem mô tả một asset đã upload — giá trị bất biến.
// Thứ tự trong danh sách là thứ tự carousel; cho phép trùng lặp.
type MediaItem struct {
	URL  string `json:"url" bson:"url"`   // Địa chỉ truy xuất (opaque)
	Type string `json:"type" bson:"type"` // image | video
}

// Direction định hướng sáng tạo do khách hàng cung cấp.
// Bất biến sau khi submit; chỉ bị xóa khi reset toàn bộ piece.
type Direction struct {
	Topic      string `json:"topic" bson:"topic"` // Bắt buộc, không rỗng
	Style      string `json:"style,omitempty" bson:"style,omitempty"`
	References string `json:"references,omitempty" bson:"references,omitempty"`
}

// WorkSnapshot payload sáng tạo đang làm dở của agency.
// Chỉnh sửa tại chỗ khi status là agency_prep; khi submit sẽ được COPY
// (không move) vào một entry mới của draft ledger, bản live vẫn tiếp tục
// chỉnh được cho vòng sau.
type WorkSnapshot struct {
	VisualHeadline string      `json:"visualHeadline,omitempty" bson:"visualHeadline,omitempty"`
	Copywriting    string      `json:"copywriting,omitempty" bson:"copywriting,omitempty"`
	Media          []MediaItem `json:"media,omitempty" bson:"media,omitempty"`
}

// Draft một lần submit lịch sử trong ledger.
// Number đánh số 1-based, tăng dần không có khoảng trống: drafts[i].Number == i+1.
// Bất biến sau khi append, trừ duy nhất việc review cập nhật Status/Feedback
// của draft CUỐI CÙNG — thao tác này được bảo vệ bằng optimistic concurrency.
type Draft struct {
	Number      int          `json:"number" bson:"number"`
	Work        WorkSnapshot `json:"work" bson:"work"` // Bản copy đóng băng tại thời điểm submit
	SubmittedAt int64        `json:"submittedAt" bson:"submittedAt"`
	Status      string       `json:"status" bson:"status"` // pending | approved | changes_requested
	Feedback    string       `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

// ContentPiece một đơn vị nội dung đi qua workflow (content_pieces).
// Piece sở hữu độc quyền Direction, WorkSnapshot và Draft ledger của nó.
type ContentPiece struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty"`
	PeriodID string `json:"periodId" bson:"periodId" index:"single:1,compound:piece_period_index_unique"`
	ClientID string `json:"clientId" bson:"clientId" index:"single:1"`

	// Index thứ tự 1-based trong kỳ, gán khi tạo và không bao giờ tái sử dụng.
	Index  int    `json:"index" bson:"index" index:"compound:piece_period_index_unique"`
	Status string `json:"status" bson:"status" index:"single:1"`

	Direction            *Direction   `json:"direction,omitempty" bson:"direction,omitempty"`
	CurrentWork          WorkSnapshot `json:"currentWork" bson:"currentWork"`
	Drafts               []Draft      `json:"drafts" bson:"drafts"`
	FinalApprovedVersion int          `json:"finalApprovedVersion,omitempty" bson:"finalApprovedVersion,omitempty"` // Số draft được duyệt; != 0 chỉ khi status == approved

	// Version tăng 1 trên mỗi lần ghi — optimistic concurrency guard.
	Version int64 `json:"version" bson:"version"`

	// Metadata
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:1"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// CollectionName tên các collection của domain pipeline.
const (
	CollectionClients       = "clients"
	CollectionPeriods       = "periods"
	CollectionContentPieces = "content_pieces"
)
