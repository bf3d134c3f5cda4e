package main

import (
	"context"

	"github.com/Naim3097/X.IDE-CMS/config"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	"github.com/Naim3097/X.IDE-CMS/internal/blobstore"
	"github.com/Naim3097/X.IDE-CMS/internal/database"
	"github.com/Naim3097/X.IDE-CMS/internal/datastore"
	"github.com/Naim3097/X.IDE-CMS/internal/global"
	"github.com/Naim3097/X.IDE-CMS/internal/utility"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
	initFirebase()         // Khởi tạo Firebase
	initStores()           // Khởi tạo document store và blob store
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Clients = models.CollectionClients
	global.MongoDB_ColNames.Periods = models.CollectionPeriods
	global.MongoDB_ColNames.ContentPieces = models.CollectionContentPieces

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (global.InitValidator đăng ký custom validators: no_xss, media_type, hex_color)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo db và các collection nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo index cho các collection theo index tag trong model
	dbName := global.ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Clients), models.Client{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Periods), models.PlanningPeriod{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.ContentPieces), models.ContentPiece{})
}

// initFirebase khởi tạo Firebase Admin SDK (blob store cho media upload)
func initFirebase() {
	cfg := global.ServerConfig

	if cfg.FirebaseProjectID == "" || cfg.FirebaseCredentialsPath == "" {
		logrus.Warn("Firebase config không đầy đủ, bỏ qua khởi tạo Firebase")
		return
	}

	err := utility.InitFirebase(cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		// Không fatal, media upload sẽ fallback sang memory store
		logrus.Errorf("Failed to initialize Firebase: %v", err)
		return
	}

	logrus.Info("Firebase initialized successfully")
}

// initStores gán document store và blob store cho workflow engine.
// Store luôn là Mongo; Blob là Firebase Storage khi có config, không thì
// fallback memory store (chỉ phù hợp cho development).
func initStores() {
	cfg := global.ServerConfig
	db := global.MongoDB_Session.Database(cfg.MongoDB_DBName)
	global.Store = datastore.NewMongoStore(db)
	logrus.Info("Initialized Mongo document store")

	app := utility.GetFirebaseApp()
	if app != nil && cfg.FirebaseStorageBucket != "" {
		blob, err := blobstore.NewFirebaseStore(context.TODO(), app, cfg.FirebaseStorageBucket)
		if err != nil {
			logrus.Errorf("Failed to initialize Firebase blob store: %v", err)
		} else {
			global.Blob = blob
			logrus.Infof("Initialized Firebase blob store (bucket: %s)", cfg.FirebaseStorageBucket)
			return
		}
	}

	global.Blob = blobstore.NewMemoryStore()
	logrus.Warn("Blob store fallback: dùng memory store, media sẽ mất khi restart")
}
