package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	BlobCDN      BlobCDNConfig
	Media        MediaConfig
	Sweep        SweepConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STREAMPASS_APP_ENV" required:"true"`
	Port         string `envconfig:"STREAMPASS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STREAMPASS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STREAMPASS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STREAMPASS_DB_DSN"`
	Driver string `envconfig:"STREAMPASS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STREAMPASS_DB_HOST"`
	LegacyPort     int    `envconfig:"STREAMPASS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STREAMPASS_DB_USER"`
	LegacyPassword string `envconfig:"STREAMPASS_DB_PASSWORD"`
	LegacyName     string `envconfig:"STREAMPASS_DB_NAME"`
	LegacySSLMode  string `envconfig:"STREAMPASS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STREAMPASS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STREAMPASS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STREAMPASS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STREAMPASS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STREAMPASS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STREAMPASS_REDIS_ADDR"`
	Password     string        `envconfig:"STREAMPASS_REDIS_PASSWORD"`
	DB           int           `envconfig:"STREAMPASS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STREAMPASS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STREAMPASS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STREAMPASS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STREAMPASS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STREAMPASS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STREAMPASS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STREAMPASS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STREAMPASS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"STREAMPASS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STREAMPASS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STREAMPASS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STREAMPASS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STREAMPASS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STREAMPASS_ARGON_KEY_LEN" default:"32"`
}

// BlobCDNConfig points at the external blob storage service. When BaseURL is
// empty the media service degrades to inline base64 data URLs.
type BlobCDNConfig struct {
	BaseURL       string        `envconfig:"STREAMPASS_BLOBCDN_BASE_URL"`
	APIKey        string        `envconfig:"STREAMPASS_BLOBCDN_API_KEY"`
	UploadFolder  string        `envconfig:"STREAMPASS_BLOBCDN_UPLOAD_FOLDER" default:"streampass"`
	ClientTimeout time.Duration `envconfig:"STREAMPASS_BLOBCDN_TIMEOUT" default:"30s"`
}

func (b BlobCDNConfig) Configured() bool {
	return strings.TrimSpace(b.BaseURL) != ""
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"STREAMPASS_MAX_UPLOAD_MB" default:"50"`
}

type SweepConfig struct {
	Interval time.Duration `envconfig:"STREAMPASS_SWEEP_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"STREAMPASS_SWEEP_LOCK_TTL" default:"10m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STREAMPASS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STREAMPASS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STREAMPASS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
