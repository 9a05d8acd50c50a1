package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTExpiresIn  = 7 * 24 * time.Hour
	defaultMaxFileBytes  = 10 << 20
	defaultMaxFiles      = 5
	defaultDevJWTSecret  = "docflow-dev-secret-change-in-production"
	defaultEmailCacheCap = 1000

	defaultAuthRateLimit  = 5
	defaultAuthRateWindow = 15 * time.Minute
)

var defaultCORSOrigins = []string{
	"http://localhost:8080",
	"http://localhost:5173",
	"http://localhost:5174",
	"http://127.0.0.1:5173",
}

// OAuthClient holds the credentials for one OAuth provider. An empty
// ClientID means the provider is disabled.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

func (o OAuthClient) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`

	DBDriver string `json:"dbdriver"`
	DBHost   string `json:"dbhost"`
	DBPort   uint16 `json:"dbport"`
	DBName   string `json:"dbname"`
	DBUSER   string `json:"dbuser"`
	DBPass   string `json:"dbpass"`

	JWTSecret    string        `json:"-"`
	JWTExpiresIn time.Duration `json:"jwtexpiresin"`

	RedisEnabled  bool   `json:"redisenabled"`
	RedisAddr     string `json:"redisaddr"`
	RedisPassword string `json:"-"`
	RedisDB       int    `json:"redisdb"`

	CORSOrigins []string `json:"corsorigins"`
	FrontendURL string   `json:"frontendurl"`

	Google   OAuthClient `json:"-"`
	Facebook OAuthClient `json:"-"`

	UploadMaxFileBytes int64 `json:"uploadmaxfilebytes"`
	UploadMaxFiles     int   `json:"uploadmaxfiles"`

	AuthRateLimit  int           `json:"authratelimit"`
	AuthRateWindow time.Duration `json:"authratewindow"`

	LogLevel           string `json:"loglevel"`
	SecurityLogFile    string `json:"securitylogfile"`
	GeoIPDBPath        string `json:"geoipdbpath"`
	UserEmailCacheSize int    `json:"useremailcachesize"`
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, if present,
// and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Error loading .env file: %v", err)
		}
		config = fromEnv()
	})
	return config
}

// ResetConfigForTest drops the cached configuration so the next LoadConfig
// reads the environment again.
func ResetConfigForTest() {
	config = nil
	once = sync.Once{}
}

func fromEnv() *Config {
	appEnv := getEnv("APPENV", "development")
	cfg := &Config{
		AppName: getEnv("APPNAME", "docflow-schedule"),
		AppEnv:  appEnv,
		AppPort: uint16(getEnvInt("APPPORT", 3000)),
		GinMode: getEnv("GINMODE", "debug"),

		DBDriver: strings.ToLower(getEnv("DBDRIVER", "mysql")),
		DBHost:   getEnv("DBHOST", "localhost"),
		DBPort:   uint16(getEnvInt("DBPORT", 0)),
		DBName:   getEnv("DBNAME", "docflow_schedule"),
		DBUSER:   os.Getenv("DBUSER"),
		DBPass:   os.Getenv("DBPASS"),

		JWTSecret:    os.Getenv("JWTSECRET"),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", defaultJWTExpiresIn),

		RedisEnabled:  getEnvBool("REDIS_ENABLED", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CORSOrigins: corsOrigins(os.Getenv("CORS_ORIGINS")),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),

		Google: OAuthClient{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			CallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:3000/api/auth/google/callback"),
		},
		Facebook: OAuthClient{
			ClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
			ClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
			CallbackURL:  getEnv("FACEBOOK_CALLBACK_URL", "http://localhost:3000/api/auth/facebook/callback"),
		},

		UploadMaxFileBytes: int64(getEnvInt("UPLOAD_MAX_FILE_BYTES", defaultMaxFileBytes)),
		UploadMaxFiles:     getEnvInt("UPLOAD_MAX_FILES", defaultMaxFiles),

		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", defaultAuthRateLimit),
		AuthRateWindow: getEnvDuration("AUTH_RATE_WINDOW", defaultAuthRateWindow),

		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SecurityLogFile:    os.Getenv("SECURITY_LOG_FILE"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		UserEmailCacheSize: getEnvInt("USER_EMAIL_CACHE_SIZE", defaultEmailCacheCap),
	}
	if cfg.JWTSecret == "" && appEnv != "production" {
		cfg.JWTSecret = defaultDevJWTSecret
	}
	return cfg
}

// corsOrigins merges the comma separated extra origins into the local
// development defaults. Trailing slashes are dropped since browsers never
// send them in the Origin header.
func corsOrigins(extra string) []string {
	origins := append([]string(nil), defaultCORSOrigins...)
	for _, o := range strings.Split(extra, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		dup := false
		for _, existing := range origins {
			if existing == o {
				dup = true
				break
			}
		}
		if !dup {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
