package global

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	// Khởi tạo validator
	Validate = validator.New()

	// Đăng ký các custom validator
	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("media_type", validateMediaType)
	_ = Validate.RegisterValidation("hex_color", validateHexColor)
}

// validateNoXSS kiểm tra XSS trong các trường text do client nhập
func validateNoXSS(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"onmouseover=",
		"eval(",
		"document.cookie",
		"document.write",
		"innerHTML",
		"fromCharCode",
		"window.location",
		"<iframe",
		"<object",
		"<embed",
	}

	value = strings.ToLower(value)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateMediaType kiểm tra loại media hợp lệ (image hoặc video)
func validateMediaType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "image" || value == "video"
}

// validateHexColor kiểm tra mã màu branding dạng #rgb hoặc #rrggbb
func validateHexColor(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // optional
	}
	hexColorRegex := regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	return hexColorRegex.MatchString(value)
}
