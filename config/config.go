package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
// It is built once in main and handed to every component; nothing reads the
// environment after startup.
type Config struct {
	AppName   string
	Env       string // development, staging, production
	Port      string
	GinMode   string
	Debug     bool
	APIPrefix string
	LogLevel  string

	// StoreDriver selects the storage backend: "postgres" or "memory".
	StoreDriver string

	// Database
	DatabaseURL   string // wins over the DB_* parts when set
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Migrations
	RunMigrations bool
	MigrationsDir string

	// Redis; empty address disables sessions in Redis (in-process fallback)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Tokens
	JWTSecret    string
	JWTAlgorithm string
	JWTIssuer    string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	BcryptCost   int

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Catalog
	TrendingWindow   time.Duration
	CategoryCacheTTL time.Duration
	CurrencySymbol   string

	// Rate limits (per minute)
	RateLimitAuthPerMin int

	// Google Cloud Storage
	GCSBucket              string
	GCSCredentialsJSONPath string // optional; if empty, Application Default Credentials are used
	GCSPublicBaseURL       string

	// Elasticsearch
	ElasticsearchAddrs string // comma-separated; empty disables search indexing
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESProductsIndex    string

	// RabbitMQ
	RabbitMQURL        string
	RabbitMQOrderQueue string

	// Mailgun
	MailgunDomain   string
	MailgunAPIKey   string
	MailgunSender   string
	MailSendEnabled bool

	// Links for emails
	SupportURL  string
	OrdersURL   string
	CompanyName string

	// Debug metrics (/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName:   getenv("APP_NAME", "jemi-api"),
		Env:       getenv("APP_ENV", "development"),
		Port:      getenv("PORT", "8080"),
		GinMode:   getenv("GIN_MODE", "release"),
		Debug:     getbool("DEBUG", true),
		APIPrefix: getenv("API_V1_PREFIX", "/api/v1"),
		LogLevel:  getenv("LOG_LEVEL", ""),

		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", "postgres")),

		DatabaseURL:   getenv("DATABASE_URL", ""),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "jemi_user"),
		DBPassword:    getenv("DB_PASSWORD", "jemi_password"),
		DBName:        getenv("DB_NAME", "jemi_db"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		RunMigrations: getbool("RUN_MIGRATIONS", true),
		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		JWTSecret:    getenv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTAlgorithm: strings.ToUpper(getenv("JWT_ALGORITHM", "HS256")),
		JWTIssuer:    getenv("JWT_ISSUER", ""),
		AccessTTL:    getdur("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTTL:   getdur("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:   getint("BCRYPT_COST", 0),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,https://jemi.ng"),

		TrendingWindow:   getdur("TRENDING_WINDOW", 7*24*time.Hour),
		CategoryCacheTTL: getdur("CATEGORY_CACHE_TTL", 10*time.Minute),
		CurrencySymbol:   getenv("CURRENCY_SYMBOL", "₦"),

		RateLimitAuthPerMin: getint("RATE_LIMIT_AUTH_PER_MIN", 10),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_FILE", ""),
		GCSPublicBaseURL:       getenv("GCS_PUBLIC_BASE_URL", "https://storage.googleapis.com"),

		ElasticsearchAddrs: getenv("ES_ADDRS", ""),
		ElasticsearchUser:  getenv("ES_USERNAME", ""),
		ElasticsearchPass:  getenv("ES_PASSWORD", ""),
		ESProductsIndex:    getenv("ES_PRODUCTS_INDEX", "products"),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQOrderQueue: getenv("RABBITMQ_ORDER_QUEUE", "order_events"),

		MailgunDomain:   getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:   getenv("MAILGUN_API_KEY", ""),
		MailgunSender:   getenv("MAILGUN_SENDER", ""),
		MailSendEnabled: getbool("MAIL_SEND_ENABLED", true),

		SupportURL:  getenv("SUPPORT_URL", "https://jemi.ng/support"),
		OrdersURL:   getenv("ORDERS_URL", "https://jemi.ng/account/orders"),
		CompanyName: getenv("COMPANY_NAME", "JEMI"),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", false),
		HTTPLogEnabled:      getbool("HTTP_LOG_ENABLED", true),
	}
}

// PostgresDSN returns a DSN compatible with pgx
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

func (c *Config) UseMemoryStore() bool { return c.StoreDriver == "memory" }

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
