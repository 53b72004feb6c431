package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	UploadBasePath string // payment proofs and other uploads

	AuthSecret string

	// DayTitleFormat names appended schedule days ("Day %d" by default);
	// localized deployments override it, e.g. "اليوم الدراسي %d".
	DayTitleFormat string

	// DefaultExamTime is the time limit suggested to the autofill UI when a
	// template leaves it unset, in minutes.
	DefaultExamTime int

	CORSOrigins []string

	AdminEmail    string
	AdminPassHash string // bcrypt
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:        addr,
		PublicURL:       os.Getenv("PUBLIC_URL"),
		DBDriver:        envOr("DB_DRIVER", "sqlite"),
		DBDSN:           envOr("DB_DSN", ""),
		UploadBasePath:  envOr("UPLOAD_BASE_PATH", "./uploads"),
		AuthSecret:      envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		DayTitleFormat:  envOr("DAY_TITLE_FORMAT", "Day %d"),
		DefaultExamTime: envInt("DEFAULT_EXAM_TIME", 60),
		CORSOrigins:     csvOr("CORS_ORIGINS", "http://localhost:3000"),
		AdminEmail:      envOr("ADMIN_EMAIL", "admin@rihla.local"),
		AdminPassHash:   os.Getenv("ADMIN_PASS_HASH"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
