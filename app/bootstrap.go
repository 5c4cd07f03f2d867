// app/bootstrap.go
package app

import (
	"context"

	"Gin_postgres_redis_equipment_tracker/apperr"
	"Gin_postgres_redis_equipment_tracker/config"
	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/models"
)

// BootstrapFirstAdmin 把配置的邮箱提升为管理员。
// 档案还不存在时由注册流程接手（见 auth controller）。
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" {
		return
	}

	p, err := repo.FindProfileByEmail(ctx, cfg.BootstrapEmail)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			config.InfoLogger.Printf("[BOOTSTRAP] %s not registered yet, admin role will be granted on signup", cfg.BootstrapEmail)
		} else {
			config.ErrorLogger.Printf("bootstrap admin lookup failed: %v", err)
		}
		return
	}

	role, err := repo.RoleOf(ctx, p.ID)
	if err != nil {
		config.ErrorLogger.Printf("bootstrap admin role lookup failed: %v", err)
		return
	}
	if role == models.RoleAdmin {
		return
	}
	if err := repo.SetUserRole(ctx, p.ID, models.RoleAdmin); err != nil {
		config.ErrorLogger.Printf("bootstrap admin grant failed: %v", err)
		return
	}
	config.InfoLogger.Printf("[BOOTSTRAP] granted admin to %s", cfg.BootstrapEmail)
}
