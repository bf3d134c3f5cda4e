package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AuditAction mô tả một thao tác workflow cần ghi lại
type AuditAction struct {
	Action       string                 `json:"action"`        // Tên thao tác (ví dụ: "piece_submit_draft", "period_create")
	ActorUID     string                 `json:"actor_uid"`     // UID của actor thực hiện
	ActorRole    string                 `json:"actor_role"`    // Vai trò của actor (agency/client)
	ResourceID   string                 `json:"resource_id"`   // ID tài nguyên bị ảnh hưởng
	ResourceType string                 `json:"resource_type"` // Loại tài nguyên (content_piece, period, client)
	IP           string                 `json:"ip"`            // IP address
	UserAgent    string                 `json:"user_agent"`    // User agent
	Details      map[string]interface{} `json:"details"`       // Chi tiết bổ sung
	Timestamp    time.Time              `json:"timestamp"`     // Thời gian
}

// LogAction ghi một thao tác workflow vào audit log.
// Actor lấy từ Locals do auth middleware set.
func LogAction(action, resourceType, resourceID string, c fiber.Ctx, details map[string]interface{}) {
	auditLogger := GetAuditLogger()

	if details == nil {
		details = make(map[string]interface{})
	}

	audit := AuditAction{
		Action:       action,
		ResourceID:   resourceID,
		ResourceType: resourceType,
		IP:           c.IP(),
		UserAgent:    c.Get("User-Agent"),
		Details:      details,
		Timestamp:    time.Now(),
	}

	if uid := c.Locals("uid"); uid != nil {
		if s, ok := uid.(string); ok {
			audit.ActorUID = s
		}
	}
	if role := c.Locals("role"); role != nil {
		if s, ok := role.(string); ok {
			audit.ActorRole = s
		}
	}
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		audit.Details["request_id"] = requestID
	}

	auditLogger.WithFields(logrus.Fields{
		"action":        audit.Action,
		"actor_uid":     audit.ActorUID,
		"actor_role":    audit.ActorRole,
		"resource_id":   audit.ResourceID,
		"resource_type": audit.ResourceType,
		"ip":            audit.IP,
		"user_agent":    audit.UserAgent,
		"details":       audit.Details,
	}).Info("Audit action")
}
