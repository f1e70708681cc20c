package config

const EnvPrefix = "casatienda"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "CASATIENDA_APP_ENV"
	EnvPort     = "CASATIENDA_APP_PORT"
	EnvLogLevel = "CASATIENDA_LOG_LEVEL"

	EnvDBDSN     = "CASATIENDA_DB_DSN"
	EnvDBHost    = "CASATIENDA_DB_HOST"
	EnvDBPort    = "CASATIENDA_DB_PORT"
	EnvDBUser    = "CASATIENDA_DB_USER"
	EnvDBPass    = "CASATIENDA_DB_PASSWORD"
	EnvDBName    = "CASATIENDA_DB_NAME"
	EnvDBSSLMode = "CASATIENDA_DB_SSLMODE"

	EnvRedisURL = "CASATIENDA_REDIS_URL"

	EnvJWTSecret              = "CASATIENDA_JWT_SECRET"
	EnvJWTIssuer              = "CASATIENDA_JWT_ISSUER"
	EnvJWTExpMins             = "CASATIENDA_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CASATIENDA_REFRESH_TOKEN_TTL_MINUTES"

	EnvTwilioAccountSID = "CASATIENDA_TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken  = "CASATIENDA_TWILIO_AUTH_TOKEN"
	EnvTwilioFrom       = "CASATIENDA_TWILIO_WHATSAPP_FROM"
	EnvTwilioRecipient  = "CASATIENDA_ORDER_NOTIFY_WHATSAPP_TO"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
