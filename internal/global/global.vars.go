package global

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Naim3097/X.IDE-CMS/config"
	"github.com/Naim3097/X.IDE-CMS/internal/blobstore"
	"github.com/Naim3097/X.IDE-CMS/internal/datastore"
	"github.com/Naim3097/X.IDE-CMS/internal/registry"
	"github.com/go-playground/validator/v10"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Clients       string // Tên collection cho clients của agency
	Periods       string // Tên collection cho planning periods
	ContentPieces string // Tên collection cho content pieces
}

// Các biến toàn cục
var Validate *validator.Validate                                             // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                            // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration                                       // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName = *new(MongoDB_CollectionName)   // Tên các collection

// Store là document store dùng bởi workflow engine.
// Được gán một Mongo-backed implementation lúc khởi động; test thay bằng in-memory fake.
var Store datastore.DataStore

// Blob là blob store nhận media upload của agency.
var Blob blobstore.BlobStore

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
