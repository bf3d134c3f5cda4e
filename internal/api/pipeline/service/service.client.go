package pipelinesvc

import (
	"fmt"

	basesvc "github.com/Naim3097/X.IDE-CMS/internal/api/base/service"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/global"
)

// ClientService CRUD khách hàng cho màn hình onboarding của agency.
// Workflow engine chỉ đọc collection này, không bao giờ sửa.
type ClientService struct {
	*basesvc.BaseServiceMongoImpl[models.Client]
}

// NewClientService tạo ClientService mới.
func NewClientService() (*ClientService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Clients)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Clients, common.ErrNotFound)
	}
	return &ClientService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Client](coll),
	}, nil
}
