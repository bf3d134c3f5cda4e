// Package datastore cung cấp lớp trừu tượng hóa document store cho workflow engine.
// Các service nghiệp vụ chỉ phụ thuộc vào interface DataStore, không phụ thuộc trực tiếp
// vào MongoDB, nhờ đó test được với implementation in-memory.
package datastore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BatchPut mô tả một thao tác ghi trong batch nguyên tử
type BatchPut struct {
	Collection string      // Tên collection đích
	ID         string      // ID của document
	Doc        interface{} // Document sẽ được ghi đè toàn bộ
}

// DataStore là hợp đồng lưu trữ document của workflow engine.
//
// Quy ước lỗi:
// - GetByID trả về common.ErrNotFound nếu không có document nào với id đó
// - PutWithVersion trả về common.ErrConcurrentModification nếu version hiện tại
//   của document không khớp với expectedVersion
// - AtomicBatch hoặc ghi được tất cả document hoặc không ghi gì cả
type DataStore interface {
	// GetByID đọc một document theo id và decode vào out (con trỏ struct)
	GetByID(ctx context.Context, collection string, id string, out interface{}) error

	// Query đọc tất cả document khớp với filter (so sánh bằng trên từng field)
	// và decode vào out (con trỏ slice). Filter rỗng trả về toàn bộ collection.
	Query(ctx context.Context, collection string, filter map[string]interface{}, out interface{}) error

	// Put ghi đè toàn bộ document theo id, tạo mới nếu chưa tồn tại
	Put(ctx context.Context, collection string, id string, doc interface{}) error

	// PutWithVersion ghi đè document chỉ khi version hiện tại bằng expectedVersion.
	// Caller chịu trách nhiệm tăng field version trong doc trước khi gọi.
	PutWithVersion(ctx context.Context, collection string, id string, doc interface{}, expectedVersion int64) error

	// AtomicBatch ghi nhiều document trong một thao tác nguyên tử
	AtomicBatch(ctx context.Context, puts []BatchPut) error
}

// NewID sinh một id document mới dạng chuỗi hex
func NewID() string {
	return primitive.NewObjectID().Hex()
}
