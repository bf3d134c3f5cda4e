// Package dto - DTO cho domain pipeline (content piece, period, dashboard).
package dto

import (
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
)

// DirectionInput dữ liệu đầu vào khi khách hàng gửi định hướng
type DirectionInput struct {
	Topic      string `json:"topic" validate:"required,no_xss"`
	Style      string `json:"style,omitempty" validate:"omitempty,no_xss"`
	References string `json:"references,omitempty" validate:"omitempty,no_xss"`
}

// MediaItemInput một media trong work snapshot
type MediaItemInput struct {
	URL  string `json:"url" validate:"required"`
	Type string `json:"type" validate:"required,media_type"`
}

// WorkInput dữ liệu đầu vào khi agency lưu tiến độ hoặc submit draft
type WorkInput struct {
	VisualHeadline string           `json:"visualHeadline,omitempty" validate:"omitempty,no_xss"`
	Copywriting    string           `json:"copywriting,omitempty"`
	Media          []MediaItemInput `json:"media,omitempty" validate:"dive"`
}

// ToSnapshot chuyển WorkInput thành models.WorkSnapshot
func (w *WorkInput) ToSnapshot() models.WorkSnapshot {
	snapshot := models.WorkSnapshot{
		VisualHeadline: w.VisualHeadline,
		Copywriting:    w.Copywriting,
	}
	for _, m := range w.Media {
		snapshot.Media = append(snapshot.Media, models.MediaItem{URL: m.URL, Type: m.Type})
	}
	return snapshot
}

// FeedbackInput dữ liệu đầu vào khi khách hàng yêu cầu sửa
type FeedbackInput struct {
	Feedback string `json:"feedback" validate:"required,no_xss"`
}

// ResetInput xác nhận 2 bước cho thao tác reset (phá hủy, không hoàn tác được).
// ConfirmIndex phải trùng với index của piece.
type ResetInput struct {
	ConfirmIndex int `json:"confirmIndex" validate:"required,min=1"`
}
