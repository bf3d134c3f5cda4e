// Package models - các model thuộc domain pipeline (clients, periods, content_pieces).
// Domain quản lý quy trình sản xuất nội dung giữa agency và khách hàng.
package models

// ClientBranding thông tin nhận diện thương hiệu của khách hàng.
type ClientBranding struct {
	PrimaryColor string `json:"primaryColor,omitempty" bson:"primaryColor,omitempty"` // Mã màu hex (#RRGGBB)
	LogoUrl      string `json:"logoUrl,omitempty" bson:"logoUrl,omitempty"`
}

// Client lưu khách hàng của agency (clients).
// Được tạo khi onboarding, workflow engine chỉ đọc — không bao giờ sửa.
type Client struct {
	ID    string `json:"id,omitempty" bson:"_id,omitempty"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email" index:"single:1"`

	Branding ClientBranding `json:"branding" bson:"branding"`

	// Metadata
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:1"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
