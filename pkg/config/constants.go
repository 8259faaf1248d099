package config

// EnvPrefix is unused by the explicit envconfig tags but keeps envconfig's
// prefixed lookup consistent if a field ever omits its tag.
const EnvPrefix = "ACP"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

// Environment variable names referenced outside struct tags (tests, docs).
const (
	EnvAppEnv      = "ACP_APP_ENV"
	EnvPort        = "ACP_APP_PORT"
	EnvAPIKey      = "ACP_CHECKOUT_API_KEY"
	EnvCatalogPath = "ACP_CHECKOUT_CATALOG_PATH"
	EnvDBDSN       = "ACP_DB_DSN"
	EnvRedisURL    = "ACP_REDIS_URL"
)
