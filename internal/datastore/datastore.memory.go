package datastore

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"

	"github.com/Naim3097/X.IDE-CMS/internal/common"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStore là implementation DataStore trong bộ nhớ, dùng cho test và chạy local.
// Document được lưu dưới dạng bytes bson-marshaled để giữ đúng semantics
// serialize/deserialize của MongoStore.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte // collection -> id -> bson bytes
}

// NewMemoryStore tạo MemoryStore rỗng
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string][]byte),
	}
}

// GetByID đọc một document theo id
func (s *MemoryStore) GetByID(ctx context.Context, collection string, id string, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data[collection][id]
	if !ok {
		return common.ErrNotFound
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return common.NewError(common.ErrCodeDatabaseQuery, fmt.Sprintf("decode document thất bại: %v", err), common.StatusInternalServerError, nil)
	}
	return nil
}

// Query đọc tất cả document khớp với filter so sánh bằng, kết quả sắp theo id
// để đảm bảo thứ tự ổn định
func (s *MemoryStore) Query(ctx context.Context, collection string, filter map[string]interface{}, out interface{}) error {
	outVal := reflect.ValueOf(out)
	if outVal.Kind() != reflect.Ptr || outVal.Elem().Kind() != reflect.Slice {
		return common.NewError(common.ErrCodeDatabaseQuery, "out phải là con trỏ tới slice", common.StatusInternalServerError, nil)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data[collection]))
	for id := range s.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sliceVal := outVal.Elem()
	sliceVal = sliceVal.Slice(0, 0)
	elemType := sliceVal.Type().Elem()

	for _, id := range ids {
		raw := s.data[collection][id]

		var doc bson.M
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return common.NewError(common.ErrCodeDatabaseQuery, fmt.Sprintf("decode document thất bại: %v", err), common.StatusInternalServerError, nil)
		}
		if !matchFilter(doc, filter) {
			continue
		}

		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return common.NewError(common.ErrCodeDatabaseQuery, fmt.Sprintf("decode document thất bại: %v", err), common.StatusInternalServerError, nil)
		}
		sliceVal = reflect.Append(sliceVal, elem.Elem())
	}

	outVal.Elem().Set(sliceVal)
	return nil
}

// Put ghi đè toàn bộ document theo id
func (s *MemoryStore) Put(ctx context.Context, collection string, id string, doc interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return common.NewError(common.ErrCodeDatabaseQuery, fmt.Sprintf("encode document thất bại: %v", err), common.StatusInternalServerError, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, id, raw)
	return nil
}

// PutWithVersion ghi đè document với điều kiện version hiện tại khớp expectedVersion
func (s *MemoryStore) PutWithVersion(ctx context.Context, collection string, id string, doc interface{}, expectedVersion int64) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return common.NewError(common.ErrCodeDatabaseQuery, fmt.Sprintf("encode document thất bại: %v", err), common.StatusInternalServerError, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.data[collection][id]
	if !ok {
		return common.ErrNotFound
	}

	var versioned struct {
		Version int64 `bson:"version"`
	}
	if err := bson.Unmarshal(existing, &versioned); err != nil {
		return common.NewError(common.ErrCodeDatabaseQuery, fmt.Sprintf("decode document thất bại: %v", err), common.StatusInternalServerError, nil)
	}
	if versioned.Version != expectedVersion {
		return common.ErrConcurrentModification
	}

	s.put(collection, id, raw)
	return nil
}

// AtomicBatch ghi nhiều document nguyên tử: marshal toàn bộ trước, chỉ khi tất cả
// thành công mới commit, nhờ đó một phần tử lỗi không để lại trạng thái dở dang
func (s *MemoryStore) AtomicBatch(ctx context.Context, puts []BatchPut) error {
	type staged struct {
		collection string
		id         string
		raw        []byte
	}

	pending := make([]staged, 0, len(puts))
	for _, put := range puts {
		raw, err := bson.Marshal(put.Doc)
		if err != nil {
			return common.NewError(common.ErrCodeDatabaseQuery, fmt.Sprintf("encode document thất bại: %v", err), common.StatusInternalServerError, nil)
		}
		pending = append(pending, staged{collection: put.Collection, id: put.ID, raw: raw})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pending {
		s.put(p.collection, p.id, p.raw)
	}
	return nil
}

// put ghi bytes vào map, caller phải giữ lock
func (s *MemoryStore) put(collection string, id string, raw []byte) {
	if s.data[collection] == nil {
		s.data[collection] = make(map[string][]byte)
	}
	s.data[collection][id] = raw
}

// matchFilter kiểm tra document có khớp toàn bộ cặp field/value của filter không
func matchFilter(doc bson.M, filter map[string]interface{}) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if !looseEqual(got, want) {
			return false
		}
	}
	return true
}

// looseEqual so sánh hai giá trị sau khi chuẩn hóa kiểu số,
// vì bson decode int thành int32/int64 tùy giá trị
func looseEqual(a, b interface{}) bool {
	return reflect.DeepEqual(normalizeValue(a), normalizeValue(b))
}

func normalizeValue(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float32:
		return normalizeFloat(float64(n))
	case float64:
		return normalizeFloat(n)
	default:
		return v
	}
}

func normalizeFloat(f float64) interface{} {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return int64(f)
	}
	return f
}
