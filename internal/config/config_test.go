package config

import (
    "testing"
    "time"
)

func setRequired(t *testing.T) {
    t.Helper()
    t.Setenv("JWT_ACCESS_SECRET", "a")
    t.Setenv("JWT_REFRESH_SECRET", "r")
    t.Setenv("STORE_DRIVER", StoreMemory)
}

func TestParse_Defaults(t *testing.T) {
    setRequired(t)
    cfg, err := parse()
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    if cfg.Env != "dev" || cfg.Port != "3000" || cfg.BcryptCost != 12 {
        t.Fatalf("unexpected defaults %+v", cfg)
    }
    if cfg.AccessTTL != 15*time.Minute || cfg.RefreshTTL != 7*24*time.Hour {
        t.Fatalf("unexpected ttls %s %s", cfg.AccessTTL, cfg.RefreshTTL)
    }
    if cfg.IsProduction() {
        t.Fatal("dev must not be production")
    }
}

func TestParse_DaySuffix(t *testing.T) {
    setRequired(t)
    t.Setenv("JWT_REFRESH_EXPIRES_IN", "7d")
    t.Setenv("JWT_ACCESS_EXPIRES_IN", "1h")
    cfg, err := parse()
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    if cfg.RefreshTTL != 168*time.Hour || cfg.AccessTTL != time.Hour {
        t.Fatalf("unexpected ttls %s %s", cfg.AccessTTL, cfg.RefreshTTL)
    }
}

func TestParse_MissingSecret(t *testing.T) {
    t.Setenv("JWT_ACCESS_SECRET", "")
    t.Setenv("JWT_REFRESH_SECRET", "r")
    t.Setenv("STORE_DRIVER", StoreMemory)
    if _, err := parse(); err == nil {
        t.Fatal("expected error for missing access secret")
    }
}

func TestParse_MySQLRequiresDB(t *testing.T) {
    setRequired(t)
    t.Setenv("STORE_DRIVER", StoreMySQL)
    t.Setenv("DB_USER", "")
    t.Setenv("DB_NAME", "")
    if _, err := parse(); err == nil {
        t.Fatal("expected error for missing DB vars")
    }
    t.Setenv("DB_USER", "app")
    t.Setenv("DB_NAME", "easy_search")
    cfg, err := parse()
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    if cfg.DB.Host != "127.0.0.1" || cfg.DB.Port != "3306" {
        t.Fatalf("unexpected db defaults %+v", cfg.DB)
    }
}

func TestParse_UnknownDriver(t *testing.T) {
    setRequired(t)
    t.Setenv("STORE_DRIVER", "postgres")
    if _, err := parse(); err == nil {
        t.Fatal("expected error for unknown driver")
    }
}

func TestRateLimitNormalize(t *testing.T) {
    c := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 0, TTL: time.Second}
    c.normalize()
    if c.Capacity != 1 || c.RefillTokens != 1 || c.RefillInterval != time.Second || c.TTL != 5*time.Second {
        t.Fatalf("unexpected normalized config %+v", c)
    }
}

func TestParseDuration(t *testing.T) {
    cases := map[string]time.Duration{
        "15m": 15 * time.Minute,
        "2d":  48 * time.Hour,
        "90s": 90 * time.Second,
    }
    for in, want := range cases {
        got, err := ParseDuration(in)
        if err != nil || got != want {
            t.Errorf("ParseDuration(%q) = %s, %v; want %s", in, got, err, want)
        }
    }
    if _, err := ParseDuration("xd"); err == nil {
        t.Error("expected error for xd")
    }
}

func TestRedisAddress(t *testing.T) {
    if got := (RedisConfig{Addr: "r:1", Host: "h", Port: "2"}).Address(); got != "h:2" {
        t.Fatalf("got %s", got)
    }
    if got := (RedisConfig{Addr: "r:1"}).Address(); got != "r:1" {
        t.Fatalf("got %s", got)
    }
}
