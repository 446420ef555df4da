package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat    = "STOREFRONT_LOG_FORMAT"
	EnvLogWarnStack = "STOREFRONT_LOG_WARN_STACK"

	EnvStoreBackend  = "STOREFRONT_STORE_BACKEND"
	EnvStoreFilePath = "STOREFRONT_STORE_FILE_PATH"

	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvRedisAddr      = "STOREFRONT_REDIS_ADDR"
	EnvRedisPassword  = "STOREFRONT_REDIS_PASSWORD"
	EnvRedisDB        = "STOREFRONT_REDIS_DB"
	EnvRedisNamespace = "STOREFRONT_REDIS_NAMESPACE"

	EnvDBDriver = "STOREFRONT_DB_DRIVER"
	EnvDBDSN    = "STOREFRONT_DB_DSN"

	EnvCredentialsPath = "STOREFRONT_CREDENTIALS_PATH"
	EnvAutoMigrate     = "STOREFRONT_AUTO_MIGRATE"
)
