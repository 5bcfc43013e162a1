package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения
type Config struct {
	// Server
	Port string
	Host string

	// Database
	DBPath string

	// Security
	JWTSecret     string
	JWTExpiration time.Duration

	// Учетная запись администратора по умолчанию
	DefaultAdminPassword string

	// Время жизни состояния просмотра (смещение недели, фильтр)
	ViewStateTTL time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		Port:                 getEnv("PORT", "8080"),
		Host:                 getEnv("HOST", "0.0.0.0"),
		DBPath:               getEnv("DB_PATH", "instance/timetable.db"),
		JWTSecret:            getEnv("JWT_SECRET", "timetable_secret_key"),
		JWTExpiration:        24 * time.Hour,
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),
		ViewStateTTL:         12 * time.Hour,
	}

	return config, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
