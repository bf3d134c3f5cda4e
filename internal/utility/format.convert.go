package utility

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatBytes chuyển đổi số bytes thành chuỗi dễ đọc (KB, MB, GB)
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ConvertStruct map một struct sang struct khác qua vòng JSON marshal/unmarshal,
// khớp field theo json tag. Dùng để đổ dto input vào model trong CRUD handler.
func ConvertStruct(source interface{}, target interface{}) (interface{}, error) {
	jsonData, err := json.Marshal(source)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(jsonData, target); err != nil {
		return nil, err
	}
	return target, nil
}

// SanitizeFileName loại bỏ các ký tự không an toàn trong tên file trước khi dùng làm object path
func SanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		"#", "_",
		"?", "_",
		"%", "_",
		" ", "_",
	)
	cleaned := replacer.Replace(name)
	if cleaned == "" {
		cleaned = "file"
	}
	return cleaned
}
