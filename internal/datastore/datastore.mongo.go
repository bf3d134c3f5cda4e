package datastore

import (
	"context"

	"github.com/Naim3097/X.IDE-CMS/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func mongoReplaceUpsert() *options.ReplaceOptions {
	return options.Replace().SetUpsert(true)
}

// MongoStore là implementation DataStore trên MongoDB
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore tạo MongoStore từ một database đã kết nối
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// GetByID đọc một document theo _id
func (s *MongoStore) GetByID(ctx context.Context, collection string, id string, out interface{}) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// Query đọc tất cả document khớp với filter so sánh bằng
func (s *MongoStore) Query(ctx context.Context, collection string, filter map[string]interface{}, out interface{}) error {
	mongoFilter := bson.M{}
	for k, v := range filter {
		mongoFilter[k] = v
	}

	cursor, err := s.db.Collection(collection).Find(ctx, mongoFilter)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// Put ghi đè toàn bộ document theo _id, upsert nếu chưa tồn tại
func (s *MongoStore) Put(ctx context.Context, collection string, id string, doc interface{}) error {
	opts := mongoReplaceUpsert()
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// PutWithVersion ghi đè document với điều kiện version khớp.
// Filter trên cả _id và version: nếu một writer khác đã tăng version thì
// ReplaceOne không khớp document nào và thao tác bị từ chối.
func (s *MongoStore) PutWithVersion(ctx context.Context, collection string, id string, doc interface{}, expectedVersion int64) error {
	filter := bson.M{"_id": id, "version": expectedVersion}
	result, err := s.db.Collection(collection).ReplaceOne(ctx, filter, doc)
	if err != nil {
		return common.ConvertMongoError(err)
	}

	if result.MatchedCount == 0 {
		// Phân biệt document đã bị sửa với document không tồn tại
		count, err := s.db.Collection(collection).CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return common.ConvertMongoError(err)
		}
		if count > 0 {
			return common.ErrConcurrentModification
		}
		return common.ErrNotFound
	}
	return nil
}

// AtomicBatch ghi nhiều document trong một transaction MongoDB
func (s *MongoStore) AtomicBatch(ctx context.Context, puts []BatchPut) error {
	if len(puts) == 0 {
		return nil
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return common.ConvertMongoError(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, put := range puts {
			opts := mongoReplaceUpsert()
			_, err := s.db.Collection(put.Collection).ReplaceOne(sc, bson.M{"_id": put.ID}, put.Doc, opts)
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}
