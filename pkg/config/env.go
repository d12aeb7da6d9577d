package config

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "SOLEHAUS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "SOLEHAUS_APP_ENV"
	EnvPort         = "SOLEHAUS_APP_PORT"
	EnvLogLevel     = "SOLEHAUS_LOG_LEVEL"
	EnvLogFormat    = "SOLEHAUS_LOG_FORMAT"
	EnvLogWarnStack = "SOLEHAUS_LOG_WARN_STACK"

	EnvDBDSN      = "SOLEHAUS_DB_DSN"
	EnvDBHost     = "SOLEHAUS_DB_HOST"
	EnvDBPort     = "SOLEHAUS_DB_PORT"
	EnvDBUser     = "SOLEHAUS_DB_USER"
	EnvDBPassword = "SOLEHAUS_DB_PASSWORD"
	EnvDBName     = "SOLEHAUS_DB_NAME"
	EnvDBSSLMode  = "SOLEHAUS_DB_SSLMODE"

	EnvRedisURL = "SOLEHAUS_REDIS_URL"

	EnvAdminSessionSecret = "SOLEHAUS_ADMIN_SESSION_SECRET"
	EnvBuyerSessionSecret = "SOLEHAUS_BUYER_SESSION_SECRET"
	EnvAdminSessionMaxAge = "SOLEHAUS_ADMIN_SESSION_MAX_AGE"
	EnvBuyerSessionMaxAge = "SOLEHAUS_BUYER_SESSION_MAX_AGE"
	EnvCookieSecure       = "SOLEHAUS_SESSION_COOKIE_SECURE"

	EnvAdminPasswordHash = "SOLEHAUS_ADMIN_PASSWORD_HASH"

	EnvUseSQLite   = "SOLEHAUS_USE_SQLITE"
	EnvAutoMigrate = "SOLEHAUS_AUTO_MIGRATE"

	EnvCORSAllowedOrigins = "SOLEHAUS_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{
	EnvDBHost,
	EnvDBUser,
	EnvDBName,
}
