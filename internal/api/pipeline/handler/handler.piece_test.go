package pipelinehdl

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/Naim3097/X.IDE-CMS/internal/api/middleware"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/datastore"
	"github.com/Naim3097/X.IDE-CMS/internal/global"
)

// seedTwoClients ghi hai khách hàng, mỗi khách một kỳ active với một piece.
func seedTwoClients(t *testing.T, store datastore.DataStore) (pieceA, periodA, pieceB string) {
	t.Helper()
	ctx := context.Background()

	seed := func(clientID string) (string, string) {
		period := models.PlanningPeriod{
			ID:         datastore.NewID(),
			ClientID:   clientID,
			Name:       "Tháng 12/2025",
			Year:       2025,
			Month:      12,
			Allocation: 1,
			Status:     models.PeriodStatusActive,
		}
		if err := store.Put(ctx, models.CollectionPeriods, period.ID, period); err != nil {
			t.Fatalf("seed period của %s lỗi: %v", clientID, err)
		}
		piece := models.ContentPiece{
			ID:       datastore.NewID(),
			PeriodID: period.ID,
			ClientID: clientID,
			Index:    1,
			Status:   models.StatusWaitingForDirection,
		}
		if err := store.Put(ctx, models.CollectionContentPieces, piece.ID, piece); err != nil {
			t.Fatalf("seed piece của %s lỗi: %v", clientID, err)
		}
		return piece.ID, period.ID
	}

	pieceA, periodA = seed("client-a")
	pieceB, _ = seed("client-b")
	return pieceA, periodA, pieceB
}

// newReadApp dựng app Fiber với actor cố định trong Locals, giống output của
// auth middleware, và đăng ký hai route đọc của content piece.
func newReadApp(h *ContentPieceHandler, role, clientID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		c.Locals("uid", "user-test")
		c.Locals("role", role)
		c.Locals("clientId", clientID)
		return c.Next()
	})
	app.Get("/content/pieces", h.HandleListByPeriod)
	app.Get("/content/pieces/:id", h.HandleGetPiece)
	return app
}

// TestContentPieceHandler_ClientReadScope client chỉ đọc được piece và kỳ của
// chính mình; agency đọc được tất cả.
func TestContentPieceHandler_ClientReadScope(t *testing.T) {
	store := datastore.NewMemoryStore()
	global.Store = store
	h := NewContentPieceHandler()
	pieceA, periodA, pieceB := seedTwoClients(t, store)

	cases := []struct {
		name       string
		role       string
		clientID   string
		path       string
		wantStatus int
	}{
		{"client đọc piece của mình", middleware.RoleClient, "client-a", "/content/pieces/" + pieceA, common.StatusOK},
		{"client đọc piece của khách khác", middleware.RoleClient, "client-b", "/content/pieces/" + pieceA, common.StatusForbidden},
		{"client thiếu claim clientId", middleware.RoleClient, "", "/content/pieces/" + pieceA, common.StatusForbidden},
		{"client liệt kê kỳ của mình", middleware.RoleClient, "client-a", "/content/pieces?periodId=" + periodA, common.StatusOK},
		{"client liệt kê kỳ của khách khác", middleware.RoleClient, "client-b", "/content/pieces?periodId=" + periodA, common.StatusForbidden},
		{"agency đọc piece bất kỳ", middleware.RoleAgency, "", "/content/pieces/" + pieceB, common.StatusOK},
		{"agency liệt kê kỳ bất kỳ", middleware.RoleAgency, "", "/content/pieces?periodId=" + periodA, common.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newReadApp(h, tc.role, tc.clientID)
			resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
			if err != nil {
				t.Fatalf("request lỗi: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("GET %s muốn status %d, nhận %d", tc.path, tc.wantStatus, resp.StatusCode)
			}
		})
	}
}

// TestContentPieceHandler_ListUnknownPeriod liệt kê theo kỳ không tồn tại trả
// về 404 thay vì danh sách rỗng.
func TestContentPieceHandler_ListUnknownPeriod(t *testing.T) {
	store := datastore.NewMemoryStore()
	global.Store = store
	h := NewContentPieceHandler()
	seedTwoClients(t, store)

	app := newReadApp(h, middleware.RoleAgency, "")
	resp, err := app.Test(httptest.NewRequest("GET", "/content/pieces?periodId="+datastore.NewID(), nil))
	if err != nil {
		t.Fatalf("request lỗi: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != common.StatusNotFound {
		t.Fatalf("muốn status %d, nhận %d", common.StatusNotFound, resp.StatusCode)
	}
}
