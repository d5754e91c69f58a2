package config

const (
	EnvPrefix = "BAZAAR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres   = "postgres"
	DriverSQLite     = "sqlite"
	DefaultSQLiteDSN = "file:bazaar.db?cache=shared&_fk=1"
)

const (
	EnvAppEnv       = "BAZAAR_APP_ENV"
	EnvPort         = "BAZAAR_APP_PORT"
	EnvLogLevel     = "BAZAAR_LOG_LEVEL"
	EnvLogWarnStack = "BAZAAR_LOG_WARN_STACK"

	EnvDBDSN    = "BAZAAR_DB_DSN"
	EnvDBDriver = "BAZAAR_DB_DRIVER"
	EnvDBHost   = "BAZAAR_DB_HOST"
	EnvDBUser   = "BAZAAR_DB_USER"
	EnvDBName   = "BAZAAR_DB_NAME"

	EnvRedisURL  = "BAZAAR_REDIS_URL"
	EnvRedisAddr = "BAZAAR_REDIS_ADDR"

	EnvCartStorage     = "BAZAAR_CART_STORAGE"
	EnvCartStorageKey  = "BAZAAR_CART_STORAGE_KEY"
	EnvCartTTL         = "BAZAAR_CART_TTL"
	EnvCartSaveTimeout = "BAZAAR_CART_SAVE_TIMEOUT"
	EnvCartIdleTimeout = "BAZAAR_CART_IDLE_TIMEOUT"

	EnvCheckoutTaxRate = "BAZAAR_CHECKOUT_TAX_RATE"

	EnvCORSAllowedOrigins = "BAZAAR_CORS_ALLOWED_ORIGINS"

	EnvJWTSecret  = "BAZAAR_JWT_SECRET"
	EnvJWTIssuer  = "BAZAAR_JWT_ISSUER"
	EnvJWTExpMins = "BAZAAR_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite   = "BAZAAR_USE_SQLITE"
	EnvAutoMigrate = "BAZAAR_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
