package main

import (
	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/config"
	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/routes"
	"context"
	"os"
	"time"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	// 首个管理员：把 BOOTSTRAP_EMAIL 提为 admin（未注册则注册时接手）
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	app.BootstrapFirstAdmin(ctx, application.Config, db.NewRepo(application.DB))
	cancel()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	config.InfoLogger.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
