package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env        string
	MongoURI   string
	MongoDB    string
	ServerAddr string

	FrontendOrigins []string

	RateLimitLeads     int
	RateLimitUploads   int
	RateLimitWindowSec int

	RedisURL         string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTLSeconds  int
	SnapshotTTLHours int

	AdminAPIKey       string
	AdminSetupKey     string
	JWTSecret         string
	AccessTTLMinutes  int
	RefreshTTLMinutes int
	CookieSecure      bool

	BrevoAPIKey      string
	BrevoSenderEmail string
	BrevoSenderName  string
	BrevoSandbox     bool
	SalesNotifyEmail string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SalesNotifyPhone string

	AWSRegion string
	S3Bucket  string

	MetaPixelID      string
	MetaAccessToken  string
	GA4MeasurementID string
	GA4APISecret     string

	SolarAPIKey string

	EnlightenAPIKey      string
	EnlightenAccessToken string

	Timezone *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	loadDotEnv(".env")
	loc, err := time.LoadLocation(getEnv("TZ", "America/Chicago"))
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017/quantumsolar")
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "quantumsolar"
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		MongoURI:           mongoURI,
		MongoDB:            mongoDB,
		ServerAddr:         getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigins:    splitOrigins(getEnv("FRONTEND_ORIGINS", "http://localhost:3000")),
		RateLimitLeads:     getEnvInt("RATE_LIMIT_LEADS", 10),
		RateLimitUploads:   getEnvInt("RATE_LIMIT_UPLOADS", 5),
		RateLimitWindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:    getEnvInt("CACHE_TTL_SECONDS", 60),
		SnapshotTTLHours:   getEnvInt("SNAPSHOT_TTL_HOURS", 72),
		AdminAPIKey:        getEnv("ADMIN_API_KEY", ""),
		AdminSetupKey:      getEnv("ADMIN_SETUP_KEY", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AccessTTLMinutes:   getEnvInt("ACCESS_TTL_MINUTES", 15),
		RefreshTTLMinutes:  getEnvInt("REFRESH_TTL_MINUTES", 43200),
		CookieSecure:       getEnv("COOKIE_SECURE", "false") == "true",

		BrevoAPIKey:      getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail: getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:  getEnv("BREVO_SENDER_NAME", "Quantum Solar"),
		BrevoSandbox:     getEnv("BREVO_SANDBOX", "false") == "true",
		SalesNotifyEmail: getEnv("SALES_NOTIFY_EMAIL", ""),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		SalesNotifyPhone: getEnv("SALES_NOTIFY_PHONE", ""),

		AWSRegion: getEnv("AWS_REGION", "us-east-2"),
		S3Bucket:  getEnv("S3_BUCKET", ""),

		MetaPixelID:      getEnv("META_PIXEL_ID", ""),
		MetaAccessToken:  getEnv("META_ACCESS_TOKEN", ""),
		GA4MeasurementID: getEnv("GA4_MEASUREMENT_ID", ""),
		GA4APISecret:     getEnv("GA4_API_SECRET", ""),

		SolarAPIKey: getEnv("SOLAR_API_KEY", ""),

		EnlightenAPIKey:      getEnv("ENLIGHTEN_API_KEY", ""),
		EnlightenAccessToken: getEnv("ENLIGHTEN_ACCESS_TOKEN", ""),

		Timezone: loc,
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func mongoDBFromURI(uri string) string {
	start := strings.Index(uri, "//")
	if start < 0 {
		return ""
	}
	rest := uri[start+2:]
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return ""
	}
	db := rest[slash+1:]
	if q := strings.Index(db, "?"); q >= 0 {
		db = db[:q]
	}
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return strings.Trim(db, "/")
}

func loadDotEnv(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, val)
	}
}
