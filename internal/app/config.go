package app

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Env       string
	HTTPAddr  string
	CORSAllow []string

	// Room directory backend: "redis" or "memory" (dev/test only)
	RoomDir   string
	RedisAddr string // host:port
	RedisDB   int

	RoomKeyTTL time.Duration // directory entry lifetime for a new room
	RoomKeyLen int           // length of generated room keys

	SendBuffer int // per-connection outbound queue depth
}

func LoadConfig() Config {
	cfg := Config{
		Env:       getEnv("APP_ENV", "dev"),
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		RoomDir:   getEnv("ROOM_DIR", "redis"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
	}
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.RoomKeyTTL = time.Duration(getEnvInt("ROOM_KEY_TTL", 600)) * time.Second
	cfg.RoomKeyLen = getEnvInt("ROOM_KEY_LEN", 10)
	cfg.SendBuffer = getEnvInt("WS_SEND_BUFFER", 256)

	// CORS allowlist
	allow := getEnv("CORS_ALLOW", "http://localhost:4200")
	cfg.CORSAllow = splitCSV(allow)
	return cfg
}

// getEnv returns the env var or a default
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt parses an int env var with a fallback
func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		var i int
		_, _ = fmt.Sscanf(v, "%d", &i)
		if i > 0 {
			return i
		}
	}
	return def
}

// splitCSV trims and filters a comma-separated list
func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
