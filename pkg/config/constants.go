package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "OPTIKART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "OPTIKART_APP_ENV"
	EnvPort     = "OPTIKART_APP_PORT"
	EnvDBDSN    = "OPTIKART_DB_DSN"
	EnvDBHost   = "OPTIKART_DB_HOST"
	EnvDBUser   = "OPTIKART_DB_USER"
	EnvDBName   = "OPTIKART_DB_NAME"
	EnvRedisURL = "OPTIKART_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
