package controllers

import (
	"net/http"
	"strings"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/apperr"
	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var in struct {
		FullName string `json:"fullName" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := ac.Repo.FindProfileByEmail(c.Request.Context(), email); err == nil {
		ac.fail(c, apperr.Conflict("email already registered"))
		return
	} else if !apperr.Is(err, apperr.KindNotFound) {
		ac.fail(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		ac.fail(c, err)
		return
	}

	role := models.RoleUser
	if ac.Cfg.BootstrapEmail != "" && strings.EqualFold(email, ac.Cfg.BootstrapEmail) {
		role = models.RoleAdmin
	}

	p := &models.Profile{
		ID:           uuid.NewString(),
		FullName:     in.FullName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := ac.Repo.CreateProfile(c.Request.Context(), p, role); err != nil {
		ac.fail(c, err)
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, p.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"user": p, "role": role})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	p, err := ac.Repo.FindProfileByEmail(c.Request.Context(), in.Email)
	if err != nil {
		// 不暴露邮箱是否存在
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, p.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		ac.fail(c, err)
		return
	}
	role, _ := ac.Repo.RoleOf(c.Request.Context(), p.ID)
	c.JSON(http.StatusOK, app.H{"user": p, "role": role})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	ac.clearAppCookie(c)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/auth/whoami
func (ac *AuthController) Whoami(c *gin.Context) {
	uid := currentUserID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, app.H{"error": "Not authenticated"})
		return
	}
	p, err := ac.Repo.FindProfileByID(c.Request.Context(), uid)
	if err != nil {
		ac.fail(c, err)
		return
	}
	role, err := ac.Repo.RoleOf(c.Request.Context(), uid)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": p, "role": role})
}
