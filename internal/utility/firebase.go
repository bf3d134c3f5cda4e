package utility

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

var firebaseApp *firebase.App

// findAPIDir tìm thư mục api (thư mục chứa config/env)
func findAPIDir() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Tìm thư mục api (có chứa config/env)
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			// Tìm thấy thư mục api
			return currentDir, nil
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", fmt.Errorf("không tìm thấy thư mục api")
		}
		currentDir = parentDir
	}
}

// InitFirebase khởi tạo Firebase Admin SDK với service account credentials.
// Đường dẫn credentials relative sẽ được resolve từ thư mục api (nơi có config/).
func InitFirebase(projectID, credentialsPath, storageBucket string) error {
	if !filepath.IsAbs(credentialsPath) {
		apiDir, err := findAPIDir()
		if err != nil {
			return fmt.Errorf("không tìm thấy thư mục api: %v", err)
		}
		credentialsPath = filepath.Join(apiDir, credentialsPath)
	}

	// Kiểm tra file credentials tồn tại
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
	}

	// Tạo Firebase app
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(context.Background(), &firebase.Config{
		ProjectID:     projectID,
		StorageBucket: storageBucket,
	}, opt)
	if err != nil {
		return fmt.Errorf("failed to initialize Firebase app: %v", err)
	}

	firebaseApp = app
	return nil
}

// GetFirebaseApp trả về Firebase app đã khởi tạo, nil nếu chưa init
func GetFirebaseApp() *firebase.App {
	return firebaseApp
}
