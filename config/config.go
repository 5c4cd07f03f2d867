package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv 读取 .env（不存在则忽略），并初始化日志
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	InitLogger()
}
