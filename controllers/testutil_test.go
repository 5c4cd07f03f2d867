package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/controllers"
	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testUserHeader = "X-Test-User"

// newTestServer 起一个不连 redis 的测试路由：
// 会话中间件换成从请求头读身份，其余链路与生产一致。
func newTestServer(t *testing.T) (*gin.Engine, *db.Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	repo := db.NewRepo(gdb)

	s := &controllers.Srv{Repo: repo}
	eqCtl := controllers.NewEquipmentController(s)
	reqCtl := controllers.NewRequestController(s)
	userCtl := controllers.NewUserController(s)
	reportCtl := controllers.NewReportController(s)

	authMW := func(c *gin.Context) {
		uid := c.GetHeader(testUserHeader)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, app.H{"error": "Not authenticated"})
			return
		}
		c.Set("userID", uid)
		c.Next()
	}
	adminMW := app.AdminOnly(repo)

	r := gin.New()
	equipment := r.Group("/api/equipment", authMW)
	{
		equipment.GET("", eqCtl.ListEquipment)
		equipment.GET("/:id", eqCtl.GetEquipment)
	}
	equipmentAdmin := r.Group("/api/equipment", authMW, adminMW)
	{
		equipmentAdmin.POST("", eqCtl.CreateEquipment)
		equipmentAdmin.PUT("/:id", eqCtl.UpdateEquipment)
		equipmentAdmin.DELETE("/:id", eqCtl.DeleteEquipment)
	}
	requests := r.Group("/api/requests", authMW)
	{
		requests.POST("", reqCtl.SubmitRequest)
		requests.GET("", reqCtl.ListRequests)
		requests.GET("/:id", reqCtl.GetRequest)
		requests.POST("/:id/approve", reqCtl.ApproveRequest)
		requests.POST("/:id/reject", reqCtl.RejectRequest)
		requests.POST("/:id/return", reqCtl.ReturnRequest)
	}
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.ListUsers)
		users.PUT("/:id/role", userCtl.SetRole)
		users.DELETE("/:id", userCtl.DeleteUser)
	}
	reports := r.Group("/api/reports", authMW, adminMW)
	{
		reports.GET("/stats", reportCtl.Stats)
		reports.GET("/requests", reportCtl.RequestRows)
	}
	history := r.Group("/api/history", authMW, adminMW)
	{
		history.GET("", eqCtl.ListHistory)
	}
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path, asUser string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if asUser != "" {
		req.Header.Set(testUserHeader, asUser)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func seedUser(t *testing.T, r *db.Repo, name, email, role string) string {
	t.Helper()
	p := &models.Profile{
		ID:           uuid.NewString(),
		FullName:     name,
		Email:        email,
		PasswordHash: "x",
	}
	require.NoError(t, r.CreateProfile(context.Background(), p, role))
	return p.ID
}

func seedEquipment(t *testing.T, r *db.Repo, name string, actorID string) *models.Equipment {
	t.Helper()
	e := &models.Equipment{Name: name, Type: "camera"}
	require.NoError(t, r.CreateEquipment(context.Background(), e, actorID))
	return e
}

func dateStr(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}
