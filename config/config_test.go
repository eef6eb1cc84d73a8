package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "JWT_TTL", "ELASTICSEARCH_ADDRS", "MAIL_SEND_ENABLED", "AUTH_RATE_LIMIT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "5000" || cfg.JWTTTL != 7*24*time.Hour {
		t.Fatalf("port=%q ttl=%v", cfg.Port, cfg.JWTTTL)
	}
	if cfg.MailSendEnabled {
		t.Fatal("mail sending should default to off")
	}
	if len(cfg.ESAddrs()) != 0 {
		t.Fatalf("es addrs = %v, want none", cfg.ESAddrs())
	}
	if cfg.AuthRateLimit != 10 {
		t.Fatalf("auth rate limit = %d", cfg.AuthRateLimit)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("MAIL_SEND_ENABLED", "true")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("ELASTICSEARCH_ADDRS", " http://es1:9200 , ,http://es2:9200")
	cfg := Load()

	if cfg.Port != "8080" || cfg.JWTTTL != 2*time.Hour || !cfg.MailSendEnabled || cfg.DBMaxConns != 25 {
		t.Fatalf("cfg = %+v", cfg)
	}
	want := []string{"http://es1:9200", "http://es2:9200"}
	if got := cfg.ESAddrs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("es addrs = %v, want %v", got, want)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL", "a week")
	t.Setenv("REDIS_DB", "one")
	t.Setenv("HTTP_LOG_ENABLED", "maybe")
	cfg := Load()
	if cfg.JWTTTL != 7*24*time.Hour || cfg.RedisDB != 0 || cfg.HTTPLogEnabled {
		t.Fatalf("fallbacks not applied: ttl=%v db=%d log=%v", cfg.JWTTTL, cfg.RedisDB, cfg.HTTPLogEnabled)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	if got := cfg.PostgresDSN(); got != "postgres://u:p@h:5432/d?sslmode=disable" {
		t.Fatalf("dsn = %q", got)
	}
}
