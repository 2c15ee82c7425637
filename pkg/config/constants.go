package config

const (
	// EnvPrefix scopes envconfig processing; individual fields carry explicit
	// VESTURE_* names so the prefix stays empty.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "VESTURE_APP_ENV"
	EnvPort       = "VESTURE_APP_PORT"
	EnvRedisURL   = "VESTURE_REDIS_URL"
	EnvJWTSecret  = "VESTURE_JWT_SECRET"
	EnvJWTIssuer  = "VESTURE_JWT_ISSUER"
	EnvJWTExpMins = "VESTURE_JWT_EXPIRATION_MINUTES"

	EnvDBDSN  = "VESTURE_DB_DSN"
	EnvDBHost = "VESTURE_DB_HOST"
	EnvDBUser = "VESTURE_DB_USER"
	EnvDBName = "VESTURE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
