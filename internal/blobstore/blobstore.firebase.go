package blobstore

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	"github.com/Naim3097/X.IDE-CMS/internal/common"
)

// FirebaseStore lưu blob vào Firebase Storage (GCS bucket của project)
type FirebaseStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewFirebaseStore tạo FirebaseStore từ Firebase app đã khởi tạo
func NewFirebaseStore(ctx context.Context, app *firebase.App, bucketName string) (*FirebaseStore, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firebase Storage client: %w", err)
	}

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage bucket %s: %w", bucketName, err)
	}

	return &FirebaseStore{bucket: bucket, bucketName: bucketName}, nil
}

// Save ghi blob lên bucket và trả về URL công khai dạng storage.googleapis.com
func (s *FirebaseStore) Save(ctx context.Context, path string, contentType string, r io.Reader) (string, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", common.NewError(common.ErrCodeDatabase, fmt.Sprintf("upload blob thất bại: %v", err), common.StatusInternalServerError, nil)
	}
	if err := w.Close(); err != nil {
		return "", common.NewError(common.ErrCodeDatabase, fmt.Sprintf("upload blob thất bại: %v", err), common.StatusInternalServerError, nil)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, path), nil
}
