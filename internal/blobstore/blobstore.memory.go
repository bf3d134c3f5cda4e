package blobstore

import (
	"context"
	"io"
	"sync"
)

// MemoryStore lưu blob trong bộ nhớ, dùng cho test và chạy local không có Firebase
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

type memoryBlob struct {
	contentType string
	data        []byte
}

// NewMemoryStore tạo MemoryStore rỗng
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]memoryBlob)}
}

// Save đọc toàn bộ r và lưu vào map, URL trả về có scheme memory://
func (s *MemoryStore) Save(ctx context.Context, path string, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[path] = memoryBlob{contentType: contentType, data: data}
	return "memory://" + path, nil
}

// Get trả về nội dung và content type của blob đã lưu, dùng trong test
func (s *MemoryStore) Get(path string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[path]
	return b.data, b.contentType, ok
}
