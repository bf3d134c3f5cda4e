// Package blobstore - Test lưu blob in-memory và quy tắc đặt object path cho media.
package blobstore

import (
	"context"
	"strings"
	"testing"
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore()

	url, err := store.Save(context.Background(), "content/p1/123_banner.png", "image/png", strings.NewReader("fake-png-bytes"))
	if err != nil {
		t.Fatalf("Save thất bại: %v", err)
	}
	if url != "memory://content/p1/123_banner.png" {
		t.Errorf("URL không đúng: %s", url)
	}

	data, contentType, ok := store.Get("content/p1/123_banner.png")
	if !ok {
		t.Fatal("blob đã lưu nhưng không đọc lại được")
	}
	if string(data) != "fake-png-bytes" {
		t.Errorf("nội dung blob không khớp: %s", data)
	}
	if contentType != "image/png" {
		t.Errorf("content type không khớp: %s", contentType)
	}
}

func TestBuildMediaPath(t *testing.T) {
	path := BuildMediaPath("piece123", "my banner.png")

	if !strings.HasPrefix(path, "content/piece123/") {
		t.Errorf("path phải nằm trong thư mục của piece: %s", path)
	}
	if !strings.HasSuffix(path, "_my_banner.png") {
		t.Errorf("tên file phải được sanitize và giữ ở cuối path: %s", path)
	}
	if strings.Contains(path, " ") {
		t.Errorf("path không được chứa khoảng trắng: %s", path)
	}
}
