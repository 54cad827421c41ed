package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	repo "app/internal/repository"

	"github.com/labstack/echo/v4"
)

const (
	CtxAdminIDKey      = "admin_id"      // int64
	CtxAdminRoleKey    = "admin_role"    // model.AdminRole
	CtxSessionTokenKey = "session_token" // string
)

func errorJSON(msg string) map[string]any {
	return map[string]any{"success": false, "message": msg}
}

// bearerトークンをセッションストアで解決するミドルウェア。
// 成功した呼び出しごとに有効期限を固定幅で延長する。
func SessionAuth(sessions repo.SessionRepository, admins repo.AdminRepository, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			token := strings.TrimSpace(parts[1])
			if token == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			ctx := c.Request().Context()

			sess, err := sessions.FindByToken(ctx, token)
			if err == repo.ErrNotFound {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			now := time.Now()
			if sess.Expired(now) {
				return c.JSON(http.StatusUnauthorized, errorJSON("session expired"))
			}

			admin, err := admins.FindByID(ctx, sess.AdminID)
			if err != nil || !admin.IsActive {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//スライディング延長。失敗してもリクエストは通す
			if err := sessions.Extend(ctx, token, now.Add(ttl)); err != nil {
				log.Printf("session extend failed: %v", err)
			}

			//contextへ保存
			c.Set(CtxAdminIDKey, admin.ID)
			c.Set(CtxAdminRoleKey, admin.Role)
			c.Set(CtxSessionTokenKey, token)

			return next(c)
		}
	}
}
