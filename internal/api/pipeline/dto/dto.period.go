package dto

// PeriodCreateInput dữ liệu đầu vào khi tạo kỳ kế hoạch.
// Tạo kỳ đồng thời cấp phát đúng Allocation content piece trong một batch nguyên tử.
type PeriodCreateInput struct {
	ClientID   string `json:"clientId" validate:"required"`
	Name       string `json:"name" validate:"required,no_xss"`
	Year       int    `json:"year" validate:"required,min=2000,max=2100"`
	Month      int    `json:"month" validate:"required,min=1,max=12"`
	Allocation int    `json:"allocation" validate:"required,min=1,max=100"`
}

// ClientCreateInput dữ liệu đầu vào khi agency onboard khách hàng mới
type ClientCreateInput struct {
	Name  string `json:"name" validate:"required,no_xss"`
	Email string `json:"email" validate:"required,email"`

	Branding ClientBrandingInput `json:"branding"`
}

// ClientBrandingInput thông tin nhận diện thương hiệu
type ClientBrandingInput struct {
	PrimaryColor string `json:"primaryColor,omitempty" validate:"omitempty,hex_color"`
	LogoUrl      string `json:"logoUrl,omitempty" validate:"omitempty,url"`
}

// ClientUpdateInput dữ liệu đầu vào khi cập nhật khách hàng
type ClientUpdateInput struct {
	Name  string `json:"name,omitempty" validate:"omitempty,no_xss"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`

	Branding *ClientBrandingInput `json:"branding,omitempty"`
}
