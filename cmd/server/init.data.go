package main

import (
	"context"

	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/dto"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	pipelinesvc "github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/service"
	"github.com/Naim3097/X.IDE-CMS/internal/datastore"
	"github.com/Naim3097/X.IDE-CMS/internal/global"
	"github.com/Naim3097/X.IDE-CMS/internal/logger"
	"github.com/Naim3097/X.IDE-CMS/internal/utility"
)

// InitDefaultData seed dữ liệu mẫu khi chạy ở INITMODE: một khách hàng demo
// và một kỳ kế hoạch active để dựng được dashboard ngay. Chỉ seed khi
// collection clients còn trống — chạy lại không tạo trùng.
func InitDefaultData() {
	if !global.ServerConfig.InitMode {
		return
	}

	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData (INITMODE)...")
	ctx := context.Background()

	var existing []models.Client
	if err := global.Store.Query(ctx, models.CollectionClients, map[string]interface{}{}, &existing); err != nil {
		log.WithError(err).Error("❌ [INIT] Không đọc được collection clients, bỏ qua seed")
		return
	}
	if len(existing) > 0 {
		log.Infof("✅ [INIT] Đã có %d khách hàng, bỏ qua seed", len(existing))
		return
	}

	now := utility.CurrentTimeInMilli()
	client := models.Client{
		ID:    datastore.NewID(),
		Name:  "Nexova Demo Client",
		Email: "demo@nexova.agency",
		Branding: models.ClientBranding{
			PrimaryColor: "#4F46E5",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := global.Store.Put(ctx, models.CollectionClients, client.ID, client); err != nil {
		log.WithError(err).Error("❌ [INIT] Seed khách hàng demo thất bại")
		return
	}
	log.Infof("✅ [INIT] Seeded demo client (ID: %s)", client.ID)

	periodSvc := pipelinesvc.NewPlanningPeriodService(global.Store)
	period, err := periodSvc.CreatePeriod(ctx, &dto.PeriodCreateInput{
		ClientID:   client.ID,
		Name:       "Tháng 11/2025",
		Year:       2025,
		Month:      11,
		Allocation: 15,
	})
	if err != nil {
		log.WithError(err).Error("❌ [INIT] Seed kỳ kế hoạch demo thất bại")
		return
	}
	log.Infof("✅ [INIT] Seeded demo period (ID: %s, allocation: %d)", period.ID, period.Allocation)
	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
