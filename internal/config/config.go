package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// どの永続化バックエンドで動いているか。起動時に一度だけ決めて
// 各コンポーネントへ注入する。グローバルには持たない。
type StorageMode string

const (
	StorageModeRelational StorageMode = "relational"
	StorageModeFile       StorageMode = "file"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先で使うDSN
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	DataDir string // ファイルバックエンドの置き場所

	Timezone string         // "today"フィルタなど日付判定に使う
	Location *time.Location

	SessionTTL time.Duration // 管理セッションの延長幅
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getenv("POSTGRES_PORT", "5432"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "storefront"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		DataDir: getenv("DATA_DIR", "data"),

		Timezone: getenv("TIMEZONE", "Asia/Dhaka"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	ttlMin, err := strconv.Atoi(getenv("SESSION_TTL_MIN", "60"))
	if err != nil || ttlMin <= 0 {
		return Config{}, fmt.Errorf("invalid SESSION_TTL_MIN")
	}
	cfg.SessionTTL = time.Duration(ttlMin) * time.Minute

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
