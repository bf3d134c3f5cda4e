package dto

// DashboardSummary kết quả projection tổng hợp cho dashboard của một khách hàng.
// Tính lại theo yêu cầu từ trạng thái hiện tại của các piece, không lưu materialized view.
type DashboardSummary struct {
	ClientID string `json:"clientId"`

	// HasActivePlan false khi khách hàng chưa có kỳ active nào —
	// phân biệt "chưa có kế hoạch" với kế hoạch toàn số 0.
	HasActivePlan bool   `json:"hasActivePlan"`
	PeriodID      string `json:"periodId,omitempty"`
	PeriodName    string `json:"periodName,omitempty"`

	Total       int `json:"total"`       // = allocation của kỳ active
	Approved    int `json:"approved"`    // status == approved
	InReview    int `json:"inReview"`    // status == client_review
	NeedsAction int `json:"needsAction"` // status == waiting_for_direction
}

// MediaUploadResult kết quả upload media, trả về cho agency để gắn vào work snapshot
type MediaUploadResult struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}
