package utility

import "testing"

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Errorf("FormatBytes(%d) muốn %q, nhận %q", tc.in, tc.want, got)
		}
	}

	// Size của file upload là int64, caller phải convert trước khi gọi
	var uploadSize int64 = 3 * 1024
	if got := FormatBytes(uint64(uploadSize)); got != "3.0 KB" {
		t.Errorf("FormatBytes từ int64 size muốn %q, nhận %q", "3.0 KB", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"banner final.png", "banner_final.png"},
		{"../../etc/passwd", "____etc_passwd"},
		{"", "file"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) muốn %q, nhận %q", tc.in, tc.want, got)
		}
	}
}

func TestConvertStruct(t *testing.T) {
	type input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	type model struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Extra string `json:"extra"`
	}

	var out model
	if _, err := ConvertStruct(input{Name: "Nexova", Email: "hello@nexova.vn"}, &out); err != nil {
		t.Fatalf("ConvertStruct lỗi: %v", err)
	}
	if out.Name != "Nexova" || out.Email != "hello@nexova.vn" || out.Extra != "" {
		t.Fatalf("ConvertStruct map sai: %+v", out)
	}
}
