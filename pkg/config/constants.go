package config

const EnvPrefix = "DENTIO"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "DENTIO_APP_ENV"
	EnvPort     = "DENTIO_APP_PORT"
	EnvDBDSN    = "DENTIO_DB_DSN"
	EnvDBHost   = "DENTIO_DB_HOST"
	EnvDBUser   = "DENTIO_DB_USER"
	EnvDBName   = "DENTIO_DB_NAME"
	EnvRedisURL = "DENTIO_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
