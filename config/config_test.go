package config

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"7d":  7 * 24 * time.Hour,
		"1d":  24 * time.Hour,
		"15m": 15 * time.Minute,
		"2h":  2 * time.Hour,
	}
	for input, want := range cases {
		got, err := ParseDuration(input)
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		if got != want {
			t.Fatalf("%q = %v, want %v", input, got, want)
		}
	}
	for _, bad := range []string{"", "d", "xd", "-1d", "0s", "soon"} {
		if _, err := ParseDuration(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("RESET_TOKEN_TTL", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load(quietLogger())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != fallbackJWTSecret {
		t.Fatalf("JWTSecret = %q, want fallback", cfg.JWTSecret)
	}
	if cfg.JWTExpiresIn != 7*24*time.Hour {
		t.Fatalf("JWTExpiresIn = %v", cfg.JWTExpiresIn)
	}
	if cfg.ResetTokenTTL != 15*time.Minute {
		t.Fatalf("ResetTokenTTL = %v", cfg.ResetTokenTTL)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("DBDriver = %q", cfg.DBDriver)
	}
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(quietLogger()); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing in production")
	}

	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("JWT_EXPIRES_IN", "2d")
	cfg, err := Load(quietLogger())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "prod-secret" || cfg.JWTExpiresIn != 48*time.Hour {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Load(quietLogger()); err == nil {
		t.Fatal("expected error for unsupported DB_DRIVER")
	}
}

func TestNewMailerSelectsDriver(t *testing.T) {
	for _, driver := range []string{"smtp", "resend", "queue", "log"} {
		mailer, closeFn, err := NewMailer(Config{MailDriver: driver, MailQueue: "mail.test"}, quietLogger())
		if err != nil {
			t.Fatalf("%s: %v", driver, err)
		}
		if mailer == nil || closeFn == nil {
			t.Fatalf("%s: nil mailer or close func", driver)
		}
		if err := closeFn(); err != nil {
			t.Fatalf("%s: close: %v", driver, err)
		}
	}
	if _, _, err := NewMailer(Config{MailDriver: "carrier-pigeon"}, quietLogger()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
