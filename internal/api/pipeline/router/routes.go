// Package router đăng ký các route thuộc domain pipeline: content piece
// workflow, kỳ kế hoạch, dashboard, khách hàng.
package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Naim3097/X.IDE-CMS/internal/api/middleware"
	pipelinehdl "github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/handler"
	apirouter "github.com/Naim3097/X.IDE-CMS/internal/api/router"
)

// Register đăng ký tất cả route pipeline lên v1.
// Mỗi thao tác workflow khai báo rõ vai trò được phép gọi: agency làm nội
// dung, client gửi định hướng và review.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	pieceHandler := pipelinehdl.NewContentPieceHandler()
	mediaHandler := pipelinehdl.NewMediaHandler()
	periodHandler := pipelinehdl.NewPeriodHandler()
	dashboardHandler := pipelinehdl.NewDashboardHandler()

	anyRole := []fiber.Handler{middleware.AuthMiddleware()}
	agencyOnly := []fiber.Handler{middleware.AuthMiddleware(middleware.RoleAgency)}
	clientOnly := []fiber.Handler{middleware.AuthMiddleware(middleware.RoleClient)}

	// Middleware của group áp theo path prefix, nên mỗi route mang prefix ĐẦY ĐỦ
	// của nó — hai route chung prefix mà khác vai trò sẽ dẫm middleware lên nhau.

	// Content piece workflow
	// GET /content/pieces?periodId= — piece của một kỳ, sắp theo index
	apirouter.RegisterRouteWithMiddleware(v1, "/content/pieces", "GET", "/", anyRole, pieceHandler.HandleListByPeriod)
	// GET /content/pieces/:id — cả hai vai trò xem được chi tiết piece
	apirouter.RegisterRouteWithMiddleware(v1, "/content/pieces/:id", "GET", "/", anyRole, pieceHandler.HandleGetPiece)
	// POST /content/pieces/:id/direction — client gửi định hướng sáng tạo
	apirouter.RegisterRouteWithMiddleware(v1, "/content/pieces/:id/direction", "POST", "/", clientOnly, pieceHandler.HandleSubmitDirection)
	// PUT /content/pieces/:id/work — agency lưu tiến độ (không tạo draft)
	apirouter.RegisterRouteWithMiddleware(v1, "/content/pieces/:id/work", "PUT", "/", agencyOnly, pieceHandler.HandleSaveWork)
	// POST /content/pieces/:id/drafts — agency gửi draft cho khách duyệt
	apirouter.RegisterRouteWithMiddleware(v1, "/content/pieces/:id/drafts", "POST", "/", agencyOnly, pieceHandler.HandleSubmitDraft)
	// POST /content/pieces/:id/approve — client duyệt draft cuối
	apirouter.RegisterRouteWithMiddleware(v1, "/content/pieces/:id/approve", "POST", "/", clientOnly, pieceHandler.HandleApprove)
	// POST /content/pieces/:id/changes — client yêu cầu sửa kèm feedback
	apirouter.RegisterRouteWithMiddleware(v1, "/content/pieces/:id/changes", "POST", "/", clientOnly, pieceHandler.HandleRequestChanges)
	// POST /content/pieces/:id/reset — agency reset piece, body phải echo confirmIndex
	apirouter.RegisterRouteWithMiddleware(v1, "/content/pieces/:id/reset", "POST", "/", agencyOnly, pieceHandler.HandleReset)
	// POST /content/pieces/:id/media — agency upload media vào blob store
	apirouter.RegisterRouteWithMiddleware(v1, "/content/pieces/:id/media", "POST", "/", agencyOnly, mediaHandler.HandleUploadMedia)

	// Kỳ kế hoạch — toàn bộ quản trị kỳ là việc của agency
	// POST /content/periods — tạo kỳ + cấp phát batch piece nguyên tử
	apirouter.RegisterRouteWithMiddleware(v1, "/content/periods", "POST", "/", agencyOnly, periodHandler.HandleCreatePeriod)
	// GET /content/periods?clientId= — danh sách kỳ của một khách
	apirouter.RegisterRouteWithMiddleware(v1, "/content/periods", "GET", "/", agencyOnly, periodHandler.HandleListByClient)
	// POST /content/periods/:id/archive — đóng kỳ
	apirouter.RegisterRouteWithMiddleware(v1, "/content/periods/:id/archive", "POST", "/", agencyOnly, periodHandler.HandleArchive)

	// Dashboard — hai prefix tách hẳn nhau để không dẫm middleware
	// GET /content/dashboard/:clientId — agency xem summary của khách bất kỳ
	apirouter.RegisterRouteWithMiddleware(v1, "/content/dashboard/:clientId", "GET", "/", agencyOnly, dashboardHandler.HandleAgencySummary)
	// GET /content/my-dashboard — client xem summary của chính mình (clientId trong token)
	apirouter.RegisterRouteWithMiddleware(v1, "/content/my-dashboard", "GET", "/", clientOnly, dashboardHandler.HandleClientSummary)

	// Khách hàng — CRUD generic cho màn hình onboarding của agency
	clientHandler, err := pipelinehdl.NewClientHandler()
	if err != nil {
		return err
	}
	r.RegisterCRUDRoutes(v1, "/clients", clientHandler, apirouter.ReadWriteConfig)

	return nil
}
