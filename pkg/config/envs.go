package config

// EnvPrefix scopes every envconfig lookup for this service.
const EnvPrefix = "WICKHAVEN"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names, referenced by tests and ops tooling.
const (
	EnvAppEnv        = "WICKHAVEN_APP_ENV"
	EnvPort          = "WICKHAVEN_APP_PORT"
	EnvLogLevel      = "WICKHAVEN_LOG_LEVEL"
	EnvRedisURL      = "WICKHAVEN_REDIS_URL"
	EnvCatalogDSN    = "WICKHAVEN_CATALOG_DSN"
	EnvWooBaseURL    = "WICKHAVEN_WOO_BASE_URL"
	EnvWooKey        = "WICKHAVEN_WOO_CONSUMER_KEY"
	EnvWooSecret     = "WICKHAVEN_WOO_CONSUMER_SECRET"
	EnvSessionSecret = "WICKHAVEN_SESSION_SECRET"
)
