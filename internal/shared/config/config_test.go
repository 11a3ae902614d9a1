package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"CORS_ALLOW_ORIGINS", "OBJECT_STORE", "EMAIL_PROVIDER", "DOCTOR_EMAIL", "CONTENT_CACHE_TTL", "REFERRAL_RATE_PER_MIN", "ENV"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if len(cfg.CORSAllowOrigin) != 1 || cfg.CORSAllowOrigin[0] != "*" {
		t.Fatalf("expected wildcard CORS origin, got %v", cfg.CORSAllowOrigin)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %q", cfg.ObjectStoreType)
	}
	if cfg.DoctorEmail != "doctor@example.com" {
		t.Fatalf("unexpected doctor email %q", cfg.DoctorEmail)
	}
	if cfg.ContentCacheTTL != 5*time.Minute {
		t.Fatalf("unexpected cache ttl %s", cfg.ContentCacheTTL)
	}
	if cfg.ReferralRatePerMin != 10 {
		t.Fatalf("unexpected rate %d", cfg.ReferralRatePerMin)
	}
}

func TestLoadReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := "DOCTOR_EMAIL=file@example.com\nOBJECT_STORE=s3\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("DOCTOR_EMAIL", "env@example.com")
	t.Setenv("OBJECT_STORE", "")
	os.Unsetenv("OBJECT_STORE")

	cfg := Load()
	if cfg.DoctorEmail != "env@example.com" {
		t.Fatalf("expected environment to win, got %q", cfg.DoctorEmail)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected OBJECT_STORE from .env, got %q", cfg.ObjectStoreType)
	}
}

func TestNormalizers(t *testing.T) {
	t.Parallel()

	if got := normalizeEnv("PROD"); got != "production" {
		t.Fatalf("normalizeEnv(PROD) = %q", got)
	}
	if got := normalizeStoreType(" S3 "); got != "s3" {
		t.Fatalf("normalizeStoreType = %q", got)
	}
	if got := normalizeEmailProvider("SMTP"); got != "smtp" {
		t.Fatalf("normalizeEmailProvider = %q", got)
	}
	if got := normalizeEmailProvider("whatever"); got != "resend" {
		t.Fatalf("normalizeEmailProvider default = %q", got)
	}
}

func TestLoadTrustedProxies(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")
	t.Setenv("TRUSTED_PLATFORM", "X-Client-IP")

	cfg := Load()
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[0] != "10.0.0.0/8" || cfg.TrustedProxies[1] != "192.168.1.1" {
		t.Fatalf("unexpected trusted proxies %v", cfg.TrustedProxies)
	}
	if cfg.TrustedPlatform != "X-Client-IP" {
		t.Fatalf("unexpected trusted platform %q", cfg.TrustedPlatform)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
