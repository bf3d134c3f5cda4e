// Package datastore - Test hợp đồng lưu trữ của MemoryStore: not-found, version check, batch nguyên tử.
package datastore

import (
	"context"
	"errors"
	"testing"

	"github.com/Naim3097/X.IDE-CMS/internal/common"
)

type testDoc struct {
	ID      string `bson:"_id"`
	Name    string `bson:"name"`
	Year    int    `bson:"year"`
	Version int64  `bson:"version"`
}

func TestMemoryStore_GetByID_NotFound(t *testing.T) {
	store := NewMemoryStore()
	var out testDoc
	err := store.GetByID(context.Background(), "docs", "missing", &out)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("GetByID với id không tồn tại phải trả về ErrNotFound, nhận được: %v", err)
	}
}

func TestMemoryStore_PutRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	doc := testDoc{ID: "a1", Name: "Brand X", Year: 2025, Version: 1}
	if err := store.Put(ctx, "docs", doc.ID, doc); err != nil {
		t.Fatalf("Put thất bại: %v", err)
	}

	var out testDoc
	if err := store.GetByID(ctx, "docs", "a1", &out); err != nil {
		t.Fatalf("GetByID thất bại: %v", err)
	}
	if out != doc {
		t.Errorf("document đọc ra không khớp: got %+v, want %+v", out, doc)
	}
}

func TestMemoryStore_PutWithVersion(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	doc := testDoc{ID: "a1", Name: "v1", Version: 1}
	if err := store.Put(ctx, "docs", doc.ID, doc); err != nil {
		t.Fatalf("Put thất bại: %v", err)
	}

	// Ghi với version đúng phải thành công
	doc.Name = "v2"
	doc.Version = 2
	if err := store.PutWithVersion(ctx, "docs", "a1", doc, 1); err != nil {
		t.Fatalf("PutWithVersion với version đúng phải thành công, nhận được: %v", err)
	}

	// Ghi lại với version cũ phải bị từ chối
	doc.Name = "stale"
	if err := store.PutWithVersion(ctx, "docs", "a1", doc, 1); !errors.Is(err, common.ErrConcurrentModification) {
		t.Fatalf("PutWithVersion với version cũ phải trả về ErrConcurrentModification, nhận được: %v", err)
	}

	// Document phải giữ nguyên bản ghi thành công cuối cùng
	var out testDoc
	if err := store.GetByID(ctx, "docs", "a1", &out); err != nil {
		t.Fatalf("GetByID thất bại: %v", err)
	}
	if out.Name != "v2" || out.Version != 2 {
		t.Errorf("document bị ghi đè bởi bản stale: %+v", out)
	}
}

func TestMemoryStore_PutWithVersion_NotFound(t *testing.T) {
	store := NewMemoryStore()
	doc := testDoc{ID: "x", Version: 1}
	err := store.PutWithVersion(context.Background(), "docs", "x", doc, 0)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("PutWithVersion trên document không tồn tại phải trả về ErrNotFound, nhận được: %v", err)
	}
}

func TestMemoryStore_Query_EqualityFilter(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	docs := []testDoc{
		{ID: "a", Name: "x", Year: 2024, Version: 1},
		{ID: "b", Name: "y", Year: 2025, Version: 1},
		{ID: "c", Name: "z", Year: 2025, Version: 1},
	}
	for _, d := range docs {
		if err := store.Put(ctx, "docs", d.ID, d); err != nil {
			t.Fatalf("Put thất bại: %v", err)
		}
	}

	var out []testDoc
	if err := store.Query(ctx, "docs", map[string]interface{}{"year": 2025}, &out); err != nil {
		t.Fatalf("Query thất bại: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Query year=2025 phải trả về 2 document, nhận được %d", len(out))
	}
	if out[0].ID != "b" || out[1].ID != "c" {
		t.Errorf("kết quả query phải sắp theo id: %+v", out)
	}

	// Filter rỗng trả về toàn bộ collection
	out = nil
	if err := store.Query(ctx, "docs", map[string]interface{}{}, &out); err != nil {
		t.Fatalf("Query filter rỗng thất bại: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("Query filter rỗng phải trả về 3 document, nhận được %d", len(out))
	}

	// Filter không khớp trả về slice rỗng, không lỗi
	out = nil
	if err := store.Query(ctx, "docs", map[string]interface{}{"year": 1999}, &out); err != nil {
		t.Fatalf("Query không khớp thất bại: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Query không khớp phải trả về rỗng, nhận được %d", len(out))
	}
}

func TestMemoryStore_AtomicBatch_AllOrNothing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Batch hợp lệ ghi đủ tất cả document
	puts := []BatchPut{
		{Collection: "docs", ID: "a", Doc: testDoc{ID: "a", Name: "one", Version: 1}},
		{Collection: "docs", ID: "b", Doc: testDoc{ID: "b", Name: "two", Version: 1}},
	}
	if err := store.AtomicBatch(ctx, puts); err != nil {
		t.Fatalf("AtomicBatch thất bại: %v", err)
	}
	var out []testDoc
	if err := store.Query(ctx, "docs", nil, &out); err != nil {
		t.Fatalf("Query thất bại: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("batch hợp lệ phải ghi 2 document, nhận được %d", len(out))
	}

	// Batch có phần tử không encode được: không document nào được ghi thêm
	bad := []BatchPut{
		{Collection: "docs", ID: "c", Doc: testDoc{ID: "c", Name: "three", Version: 1}},
		{Collection: "docs", ID: "d", Doc: map[string]interface{}{"ch": make(chan int)}},
	}
	if err := store.AtomicBatch(ctx, bad); err == nil {
		t.Fatal("AtomicBatch với document không encode được phải trả về lỗi")
	}
	out = nil
	if err := store.Query(ctx, "docs", nil, &out); err != nil {
		t.Fatalf("Query thất bại: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("batch lỗi không được để lại trạng thái dở dang, collection có %d document", len(out))
	}
}
