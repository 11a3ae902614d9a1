package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	PublicBaseURL   string
	TrustedProxies  []string
	TrustedPlatform string

	DatabaseURL string

	ObjectStoreType    string
	LocalStoreDir      string
	LocalSigningKey    string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SSEKMSKeyID        string

	NotifyQueueURL string

	RedisURL        string
	ContentCacheTTL time.Duration

	EmailProvider string
	ResendAPIKey  string
	EmailFrom     string
	DoctorEmail   string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string

	AdminAPIToken      string
	ReferralRatePerMin int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),
		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		TrustedProxies:     splitAndTrim(getEnv("TRUSTED_PROXIES", "")),
		TrustedPlatform:    getEnv("TRUSTED_PLATFORM", ""),
		DatabaseURL:        dbURL,
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		LocalSigningKey:    getEnv("LOCAL_SIGNING_KEY", ""),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", "referrals"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		NotifyQueueURL:     getEnv("NOTIFY_QUEUE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		ContentCacheTTL:    getDuration("CONTENT_CACHE_TTL", 5*time.Minute),
		EmailProvider:      normalizeEmailProvider(getEnv("EMAIL_PROVIDER", "resend")),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "Referral System <onboarding@resend.dev>"),
		DoctorEmail:        getEnv("DOCTOR_EMAIL", "doctor@example.com"),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getInt("SMTP_PORT", 465),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		AdminAPIToken:      getEnv("ADMIN_API_TOKEN", ""),
		ReferralRatePerMin: getInt("REFERRAL_RATE_PER_MIN", 10),
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeEmailProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "smtp":
		return "smtp"
	case "none", "off":
		return "none"
	default:
		return "resend"
	}
}
