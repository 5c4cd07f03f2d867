package app

import (
	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/models"
	"Gin_postgres_redis_equipment_tracker/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "Not authenticated"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 确认用户仍存在，只查一次
		u, err := repo.FindProfileByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "Not authenticated"})
			return
		}
		// 把用户信息放进上下文，后续 handler 可用
		c.Set("userID", u.ID)
		c.Set("email", u.Email)
		c.Set("fullName", u.FullName)

		c.Next()
	}
}

// AdminOnly 只做路由级拦截；Coordinator 内部还会再查一次 RoleOf
func AdminOnly(repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("userID")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "Not authenticated"})
			return
		}
		uid, _ := v.(string)
		role, err := repo.RoleOf(c.Request.Context(), uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, H{"error": err.Error()})
			return
		}
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
