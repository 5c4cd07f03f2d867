package app

import (
	"Gin_postgres_redis_equipment_tracker/config"
	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/session"
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config

	appSess *session.AppSessionStore
}

// Config 从环境变量读取
type Config struct {
	RedisAddr      string
	RedisPwd       string
	WebOrigin      string
	SessionTTL     time.Duration
	BootstrapEmail string
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()

	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		config.ErrorLogger.Fatalf("redis: %v", err)
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	a := &App{
		Router: r, DB: dbConn, RDB: rdb, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
	return a
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	// 业务会话缺省 1 天
	ttl := 24 * time.Hour
	if sec, err := strconv.Atoi(get("SESSION_TTL_SECONDS", "")); err == nil && sec > 0 {
		ttl = time.Duration(sec) * time.Second
	}
	return Config{
		RedisAddr:      get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:       os.Getenv("REDIS_PASSWORD"),
		WebOrigin:      get("WEB_ORIGIN", "http://localhost:5173"),
		SessionTTL:     ttl,
		BootstrapEmail: os.Getenv("BOOTSTRAP_EMAIL"),
	}
}
