package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort string
	BaseURL    string

	// Job lifecycle
	JobValidityDays int // 掲載有効日数
	ExtendGraceDays int // 延長を許可する残り日数の上限
	MaxJobsOnHome   int // ホームページのカテゴリごとの表示上限
	MaxJobsPerPage  int // カテゴリページの1ページあたりの件数

	// Cleanup
	CleanupRetentionDays int    // 作成からの保持日数
	CleanupCron          string // クリーンアップのcronスケジュール

	// Rate Limit
	RateLimitGeneral int // API全般のレート（req/min）
	RateLimitSubmit  int // 求人投稿のレート（req/min）

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.JobValidityDays = getEnvInt("JOB_VALIDITY_DAYS", 30)
	cfg.ExtendGraceDays = getEnvInt("EXTEND_GRACE_DAYS", 5)
	cfg.MaxJobsOnHome = getEnvInt("MAX_JOBS_ON_HOMEPAGE", 10)
	cfg.MaxJobsPerPage = getEnvInt("MAX_JOBS_PER_PAGE", 20)
	cfg.CleanupRetentionDays = getEnvInt("CLEANUP_RETENTION_DAYS", 90)
	cfg.CleanupCron = getEnvString("CLEANUP_CRON", "@daily")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitSubmit = getEnvInt("RATE_LIMIT_SUBMIT", 10)
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
