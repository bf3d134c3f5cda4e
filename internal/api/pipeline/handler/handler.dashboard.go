package pipelinehdl

import (
	basehdl "github.com/Naim3097/X.IDE-CMS/internal/api/base/handler"
	pipelinesvc "github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/service"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/global"

	"github.com/gofiber/fiber/v3"
)

// DashboardHandler projection tổng hợp cho dashboard.
type DashboardHandler struct {
	DashboardService *pipelinesvc.DashboardService
}

// NewDashboardHandler tạo DashboardHandler mới trên global.Store.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{
		DashboardService: pipelinesvc.NewDashboardService(global.Store),
	}
}

// HandleAgencySummary xử lý GET /content/dashboard/:clientId (agency) —
// agency xem summary của bất kỳ khách hàng nào.
func (h *DashboardHandler) HandleAgencySummary(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		clientID := c.Params("clientId")
		if clientID == "" {
			basehdl.WriteResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				"Thiếu clientId", common.StatusBadRequest, nil))
			return nil
		}
		summary, err := h.DashboardService.GetSummary(c.Context(), clientID)
		basehdl.WriteResponse(c, summary, err)
		return nil
	})
}

// HandleClientSummary xử lý GET /content/dashboard (client) — clientId lấy từ
// claim trong token, client chỉ xem được dashboard của chính mình.
func (h *DashboardHandler) HandleClientSummary(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		clientID, _ := c.Locals("clientId").(string)
		if clientID == "" {
			basehdl.WriteResponse(c, nil, common.ErrRoleDenied)
			return nil
		}
		summary, err := h.DashboardService.GetSummary(c.Context(), clientID)
		basehdl.WriteResponse(c, summary, err)
		return nil
	})
}
