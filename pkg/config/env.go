package config

const EnvPrefix = "FERREMAS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Variables read outside the envconfig tags, or set directly by tests.
const (
	EnvAppEnv = "FERREMAS_APP_ENV"
	EnvPort   = "FERREMAS_APP_PORT"

	EnvDBDSN      = "FERREMAS_DB_DSN"
	EnvDBHost     = "FERREMAS_DB_HOST"
	EnvDBUser     = "FERREMAS_DB_USER"
	EnvDBPassword = "FERREMAS_DB_PASSWORD"
	EnvDBName     = "FERREMAS_DB_NAME"

	EnvRedisURL = "FERREMAS_REDIS_URL"

	EnvJWTSecret              = "FERREMAS_JWT_SECRET"
	EnvJWTIssuer              = "FERREMAS_JWT_ISSUER"
	EnvJWTExpMins             = "FERREMAS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FERREMAS_REFRESH_TOKEN_TTL_MINUTES"

	EnvUseSQLite   = "FERREMAS_USE_SQLITE"
	EnvDispatchFee = "FERREMAS_DISPATCH_FEE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
