package middleware

import (
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/Naim3097/X.IDE-CMS/internal/common"
	"github.com/Naim3097/X.IDE-CMS/internal/global"
	"github.com/Naim3097/X.IDE-CMS/internal/logger"
)

// Các vai trò trong workflow sản xuất content
const (
	RoleAgency = "agency" // Người của agency: chuẩn bị direction, làm việc, nộp draft
	RoleClient = "client" // Người của client: review, yêu cầu sửa, duyệt
)

// WorkflowClaims chứa data được mã hóa trong JWT token.
type WorkflowClaims struct {
	UID      string `json:"uid"`      // Định danh người dùng
	Role     string `json:"role"`     // agency hoặc client
	ClientID string `json:"clientId"` // Client mà user thuộc về, rỗng với agency
	jwt.StandardClaims
}

// parseToken xác thực chữ ký HMAC và trả về claims của token
func parseToken(tokenStr string) (*WorkflowClaims, error) {
	claims := &WorkflowClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return []byte(global.ServerConfig.JwtSecret), nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}

// AuthMiddleware xác thực JWT và kiểm tra vai trò của người gọi.
// Không truyền roles: chỉ cần token hợp lệ. Truyền roles: vai trò trong token
// phải nằm trong danh sách cho phép.
//
// Claims được lưu vào Locals: uid, role, clientId — các handler phía sau đọc từ đây.
func AuthMiddleware(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		claims, err := parseToken(parts[1])
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token verification failed")
			HandleErrorResponse(c, err)
			return nil
		}

		// Lưu thông tin người gọi vào context
		c.Locals("uid", claims.UID)
		c.Locals("role", claims.Role)
		c.Locals("clientId", claims.ClientID)

		// Không yêu cầu vai trò cụ thể: chỉ cần xác thực
		if len(roles) == 0 {
			return c.Next()
		}

		for _, allowed := range roles {
			if claims.Role == allowed {
				return c.Next()
			}
		}

		logger.GetAppLogger().WithFields(logrus.Fields{
			"uid":  claims.UID,
			"role": claims.Role,
			"path": c.Path(),
		}).Warn("❌ [AUTH] Role not allowed for route")
		HandleErrorResponse(c, common.ErrRoleDenied)
		return nil
	}
}
