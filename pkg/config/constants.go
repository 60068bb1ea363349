package config

// EnvPrefix is the envconfig prefix; individual fields carry explicit
// STREAMPASS_ names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "STREAMPASS_APP_ENV"
	EnvPort                   = "STREAMPASS_APP_PORT"
	EnvDBDSN                  = "STREAMPASS_DB_DSN"
	EnvDBHost                 = "STREAMPASS_DB_HOST"
	EnvDBUser                 = "STREAMPASS_DB_USER"
	EnvDBName                 = "STREAMPASS_DB_NAME"
	EnvRedisURL               = "STREAMPASS_REDIS_URL"
	EnvJWTSecret              = "STREAMPASS_JWT_SECRET"
	EnvJWTIssuer              = "STREAMPASS_JWT_ISSUER"
	EnvJWTExpMins             = "STREAMPASS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "STREAMPASS_REFRESH_TOKEN_TTL_MINUTES"
	EnvBlobCDNBaseURL         = "STREAMPASS_BLOBCDN_BASE_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
