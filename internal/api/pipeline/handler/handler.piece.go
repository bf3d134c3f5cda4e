// Package pipelinehdl - Handler cho workflow content piece.
package pipelinehdl

import (
	basehdl "github.com/Naim3097/X.IDE-CMS/internal/api/base/handler"
	"github.com/Naim3097/X.IDE-CMS/internal/api/middleware"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/dto"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	pipelinesvc "github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/service"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/global"
	"github.com/Naim3097/X.IDE-CMS/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// ContentPieceHandler xử lý các thao tác workflow trên content piece.
type ContentPieceHandler struct {
	PieceService  *pipelinesvc.ContentPieceService
	PeriodService *pipelinesvc.PlanningPeriodService
}

// NewContentPieceHandler tạo ContentPieceHandler mới trên global.Store.
func NewContentPieceHandler() *ContentPieceHandler {
	return &ContentPieceHandler{
		PieceService:  pipelinesvc.NewContentPieceService(global.Store),
		PeriodService: pipelinesvc.NewPlanningPeriodService(global.Store),
	}
}

// requirePieceID lấy id từ path param.
func requirePieceID(c fiber.Ctx) (string, error) {
	id := c.Params("id")
	if id == "" {
		return "", common.NewError(common.ErrCodeValidationInput, "Thiếu id của content piece", common.StatusBadRequest, nil)
	}
	return id, nil
}

// bindAndValidate parse JSON body và chạy validator trên input.
func bindAndValidate(c fiber.Ctx, input interface{}) error {
	if err := c.Bind().Body(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat,
			"Dữ liệu gửi lên không đúng định dạng JSON", common.StatusBadRequest, err.Error())
	}
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	return nil
}

// requireClientScope chặn client chạm vào dữ liệu của khách hàng khác.
// Token của client mang claim clientId; agency không bị ràng buộc.
func requireClientScope(c fiber.Ctx, ownerClientID string) error {
	role, _ := c.Locals("role").(string)
	if role != middleware.RoleClient {
		return nil
	}
	boundClientID, _ := c.Locals("clientId").(string)
	if boundClientID == "" || boundClientID != ownerClientID {
		return common.ErrRoleDenied
	}
	return nil
}

// requireClientOwnership chặn client thao tác lên piece của khách hàng khác.
func (h *ContentPieceHandler) requireClientOwnership(c fiber.Ctx, pieceID string) error {
	detail, err := h.PieceService.GetByID(c.Context(), pieceID)
	if err != nil {
		return err
	}
	return requireClientScope(c, detail.ClientID)
}

// HandleGetPiece xử lý GET /content/pieces/:id.
func (h *ContentPieceHandler) HandleGetPiece(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := requirePieceID(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		detail, err := h.PieceService.GetByID(c.Context(), id)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		// Client chỉ đọc được piece của chính mình
		if err := requireClientScope(c, detail.ClientID); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		basehdl.WriteResponse(c, detail, nil)
		return nil
	})
}

// HandleListByPeriod xử lý GET /content/pieces?periodId= — danh sách piece
// của một kỳ, sắp theo index.
func (h *ContentPieceHandler) HandleListByPeriod(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		periodID := c.Query("periodId")
		if periodID == "" {
			basehdl.WriteResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				"Thiếu tham số periodId", common.StatusBadRequest, nil))
			return nil
		}
		// Resolve kỳ trước để biết chủ sở hữu: client chỉ liệt kê được
		// piece trong kỳ của chính mình
		period, err := h.PeriodService.GetByID(c.Context(), periodID)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		if err := requireClientScope(c, period.ClientID); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		pieces, err := h.PieceService.ListByPeriod(c.Context(), periodID)
		basehdl.WriteResponse(c, pieces, err)
		return nil
	})
}

// HandleSubmitDirection xử lý POST /content/pieces/:id/direction (client).
func (h *ContentPieceHandler) HandleSubmitDirection(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := requirePieceID(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		var input dto.DirectionInput
		if err := bindAndValidate(c, &input); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		if err := h.requireClientOwnership(c, id); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		direction := models.Direction{Topic: input.Topic, Style: input.Style, References: input.References}
		piece, err := h.PieceService.SubmitDirection(c.Context(), id, direction)
		basehdl.WriteResponse(c, piece, err)
		return nil
	})
}

// HandleSaveWork xử lý PUT /content/pieces/:id/work (agency) — lưu tiến độ,
// không tạo draft.
func (h *ContentPieceHandler) HandleSaveWork(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := requirePieceID(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		var input dto.WorkInput
		if err := bindAndValidate(c, &input); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		piece, err := h.PieceService.SaveWork(c.Context(), id, input.ToSnapshot())
		basehdl.WriteResponse(c, piece, err)
		return nil
	})
}

// HandleSubmitDraft xử lý POST /content/pieces/:id/drafts (agency) — đóng băng
// work snapshot thành draft mới và chuyển sang client_review.
func (h *ContentPieceHandler) HandleSubmitDraft(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := requirePieceID(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		var input dto.WorkInput
		if err := bindAndValidate(c, &input); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		piece, err := h.PieceService.SubmitDraft(c.Context(), id, input.ToSnapshot())
		if err == nil {
			logger.LogAction("piece_submit_draft", "content_piece", id, c,
				map[string]interface{}{"draftNumber": len(piece.Drafts)})
		}
		basehdl.WriteResponse(c, piece, err)
		return nil
	})
}

// HandleApprove xử lý POST /content/pieces/:id/approve (client).
func (h *ContentPieceHandler) HandleApprove(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := requirePieceID(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		if err := h.requireClientOwnership(c, id); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		piece, err := h.PieceService.Approve(c.Context(), id)
		if err == nil {
			logger.LogAction("piece_approve", "content_piece", id, c,
				map[string]interface{}{"finalApprovedVersion": piece.FinalApprovedVersion})
		}
		basehdl.WriteResponse(c, piece, err)
		return nil
	})
}

// HandleRequestChanges xử lý POST /content/pieces/:id/changes (client).
func (h *ContentPieceHandler) HandleRequestChanges(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := requirePieceID(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		var input dto.FeedbackInput
		if err := bindAndValidate(c, &input); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		if err := h.requireClientOwnership(c, id); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		piece, err := h.PieceService.RequestChanges(c.Context(), id, input.Feedback)
		basehdl.WriteResponse(c, piece, err)
		return nil
	})
}

// HandleReset xử lý POST /content/pieces/:id/reset (agency).
// Thao tác phá hủy không hoàn tác được nên yêu cầu xác nhận 2 bước:
// confirmIndex trong body phải trùng index của piece.
func (h *ContentPieceHandler) HandleReset(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := requirePieceID(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		var input dto.ResetInput
		if err := bindAndValidate(c, &input); err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		detail, err := h.PieceService.GetByID(c.Context(), id)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		if input.ConfirmIndex != detail.Index {
			basehdl.WriteResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				"confirmIndex không trùng với số thứ tự của piece, thao tác reset bị từ chối",
				common.StatusBadRequest,
				map[string]interface{}{"confirmIndex": input.ConfirmIndex, "index": detail.Index}))
			return nil
		}
		piece, err := h.PieceService.Reset(c.Context(), id)
		if err == nil {
			logger.LogAction("piece_reset", "content_piece", id, c,
				map[string]interface{}{"index": detail.Index, "draftsDiscarded": len(detail.Drafts)})
		}
		basehdl.WriteResponse(c, piece, err)
		return nil
	})
}
