package routes

import (
	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	eqCtl := controllers.NewEquipmentController(s)
	reqCtl := controllers.NewRequestController(s)
	userCtl := controllers.NewUserController(s)
	reportCtl := controllers.NewReportController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.AppSessions(), s.Repo)
	adminMW := app.AdminOnly(s.Repo)
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 认证（公开+受保护）
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.POST("/logout", authCtl.Logout)
		authed.GET("/whoami", authCtl.Whoami)
	}

	// ------------------------------
	// 设备：浏览对所有登录用户开放，登记/编辑/删除仅管理员
	// ------------------------------
	equipment := r.Group("/api/equipment", authMW, seenMW)
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

	// ------------------------------
	// 借用请求。approve/reject/return 不挂 adminMW：
	// 权限判定集中在 Coordinator 里（return 允许本人）
	// ------------------------------
	requests := r.Group("/api/requests", authMW, seenMW)
	{
		requests.POST("", reqCtl.SubmitRequest)
		requests.GET("", reqCtl.ListRequests) // ?all=1 管理员看全部
		requests.GET("/:id", reqCtl.GetRequest)
		requests.POST("/:id/approve", reqCtl.ApproveRequest)
		requests.POST("/:id/reject", reqCtl.RejectRequest)
		requests.POST("/:id/return", reqCtl.ReturnRequest)
	}

	// ------------------------------
	// 用户管理（仅管理员）
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.ListUsers) // ?q=&page=&size=
		users.PUT("/:id/role", userCtl.SetRole)
		users.DELETE("/:id", userCtl.DeleteUser)
	}

	// ------------------------------
	// 报表与历史（仅管理员）
	// ------------------------------
	reports := r.Group("/api/reports", authMW, adminMW)
	{
		reports.GET("/stats", reportCtl.Stats)
		reports.GET("/requests", reportCtl.RequestRows)
	}
	history := r.Group("/api/history", authMW, adminMW)
	{
		history.GET("", eqCtl.ListHistory) // ?equipmentId=
	}
}
