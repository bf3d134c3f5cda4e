package pipelinehdl

import (
	basehdl "github.com/Naim3097/X.IDE-CMS/internal/api/base/handler"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/dto"
	pipelinesvc "github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/service"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/global"

	"github.com/gofiber/fiber/v3"
)

// PeriodHandler xử lý kỳ kế hoạch.
type PeriodHandler struct {
	PeriodService *pipelinesvc.PlanningPeriodService
}

// NewPeriodHandler tạo PeriodHandler mới trên global.Store.
func NewPeriodHandler() *PeriodHandler {
	return &PeriodHandler{
		PeriodService: pipelinesvc.NewPlanningPeriodService(global.Store),
	}
}

// HandleCreatePeriod xử lý POST /content/periods (agency).
// Tạo kỳ và cấp phát toàn bộ content piece trong một batch nguyên tử.
func (h *PeriodHandler) HandleCreatePeriod(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input dto.PeriodCreateInput
		if err := bindAndValidate(c, &input); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		period, err := h.PeriodService.CreatePeriod(c.Context(), &input)
		basehdl.WriteResponse(c, period, err)
		return nil
	})
}

// HandleListByClient xử lý GET /content/periods?clientId= (agency) —
// danh sách kỳ của một khách hàng, mới nhất trước.
func (h *PeriodHandler) HandleListByClient(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		clientID := c.Query("clientId")
		if clientID == "" {
			basehdl.WriteResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				"Thiếu tham số clientId", common.StatusBadRequest, nil))
			return nil
		}
		periods, err := h.PeriodService.ListByClient(c.Context(), clientID)
		basehdl.WriteResponse(c, periods, err)
		return nil
	})
}

// HandleArchive xử lý POST /content/periods/:id/archive (agency).
func (h *PeriodHandler) HandleArchive(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		periodID := c.Params("id")
		if periodID == "" {
			basehdl.WriteResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				"Thiếu id của kỳ kế hoạch", common.StatusBadRequest, nil))
			return nil
		}
		period, err := h.PeriodService.Archive(c.Context(), periodID)
		basehdl.WriteResponse(c, period, err)
		return nil
	})
}
