package models

// Trạng thái của kỳ kế hoạch.
const (
	PeriodStatusActive   = "active"
	PeriodStatusArchived = "archived"
)

// PlanningPeriod lưu kỳ kế hoạch nội dung của một khách hàng (periods).
// Mỗi kỳ được tạo cùng lúc với đúng Allocation content piece trong một batch
// nguyên tử; Allocation không đổi sau khi tạo (không có thao tác resize).
type PlanningPeriod struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty"`
	ClientID string `json:"clientId" bson:"clientId" index:"single:1,compound:period_client_ym_unique"`

	Name  string `json:"name" bson:"name"` // Tên hiển thị, vd "Tháng 11/2025"
	Year  int    `json:"year" bson:"year" index:"compound:period_client_ym_unique"`
	Month int    `json:"month" bson:"month" index:"compound:period_client_ym_unique"`

	Allocation int    `json:"allocation" bson:"allocation"` // Số piece được cấp, > 0
	Status     string `json:"status" bson:"status"`         // active | archived

	// Metadata
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:1"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
