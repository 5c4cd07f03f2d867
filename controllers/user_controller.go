package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/apperr"
	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"total": res.Total,
		"users": res.Users,
	})
}

// PUT /api/users/:id/role — 升/降管理员
func (uc *UserController) SetRole(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	var in struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	// 不允许给自己降级，避免锁死
	if currentUserID(c) == id && in.Role != models.RoleAdmin {
		uc.fail(c, apperr.Validation("cannot demote yourself"))
		return
	}

	if _, err := uc.Repo.FindProfileByID(c.Request.Context(), id); err != nil {
		uc.fail(c, err)
		return
	}
	if err := uc.Repo.SetUserRole(c.Request.Context(), id, in.Role); err != nil {
		uc.fail(c, err)
		return
	}
	// 角色变化立即生效：踢掉现有会话
	if uc.AppSess != nil {
		_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "role": in.Role})
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing id"})
		return
	}
	// 不允许删除自己
	if currentUserID(c) == id {
		uc.fail(c, apperr.Validation("cannot delete yourself"))
		return
	}

	if err := uc.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		uc.fail(c, err)
		return
	}
	if uc.AppSess != nil {
		_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
