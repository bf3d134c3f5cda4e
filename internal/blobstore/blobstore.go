// Package blobstore cung cấp lớp lưu trữ file media (ảnh, video) mà agency upload
// trong quá trình sản xuất content. Implementation chính dùng Firebase Storage,
// implementation in-memory dùng cho test.
package blobstore

import (
	"context"
	"fmt"
	"io"

	"github.com/Naim3097/X.IDE-CMS/internal/utility"
)

// BlobStore là hợp đồng lưu trữ blob media
type BlobStore interface {
	// Save ghi nội dung từ r vào path và trả về URL công khai của blob
	Save(ctx context.Context, path string, contentType string, r io.Reader) (string, error)
}

// BuildMediaPath tạo object path cho một file media của content piece.
// Timestamp mili giây ở đầu tên file tránh đụng độ khi upload cùng tên nhiều lần.
func BuildMediaPath(pieceID string, fileName string) string {
	return fmt.Sprintf("content/%s/%d_%s", pieceID, utility.CurrentTimeInMilli(), utility.SanitizeFileName(fileName))
}
