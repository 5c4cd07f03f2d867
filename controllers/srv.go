// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/apperr"
	"Gin_postgres_redis_equipment_tracker/config"
	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Srv struct {
	Repo      *db.Repo
	AppSess   *session.AppSessionStore
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:      db.NewRepo(a.DB),
		AppSess:   a.AppSessions(),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

// fail 统一错误出口：业务错误按分类映射状态码，其余记日志返回 500
func (s *Srv) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError && config.ErrorLogger != nil {
		config.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, app.H{"error": apperr.Message(err)})
}

func currentUserID(c *gin.Context) string {
	v, ok := c.Get("userID")
	if !ok {
		return ""
	}
	uid, _ := v.(string)
	return uid
}

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// 登录成功：创建会话 + 触发登录快照
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID string, ip, ua string) error {
	if err := s.Repo.TouchUserLogin(ctx, userID, ip, ua); err != nil {
		// 不阻塞
	}
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.AppSess.TTL())
	return nil
}

func (s *Srv) clearAppCookie(c *gin.Context) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}
