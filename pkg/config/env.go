package config

const EnvPrefix = "CARPENTER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EmailTransportSMTP     = "smtp"
	EmailTransportSendgrid = "sendgrid"
	EmailTransportLog      = "log"
)

const (
	EnvAppEnv   = "CARPENTER_APP_ENV"
	EnvPort     = "CARPENTER_APP_PORT"
	EnvLogLevel = "CARPENTER_LOG_LEVEL"

	EnvDBDSN  = "CARPENTER_DB_DSN"
	EnvDBHost = "CARPENTER_DB_HOST"
	EnvDBUser = "CARPENTER_DB_USER"
	EnvDBName = "CARPENTER_DB_NAME"

	EnvUseSQLite = "CARPENTER_USE_SQLITE"

	EnvRedisURL = "CARPENTER_REDIS_URL"

	EnvJWTSecret  = "CARPENTER_JWT_SECRET"
	EnvJWTIssuer  = "CARPENTER_JWT_ISSUER"
	EnvJWTExpMins = "CARPENTER_JWT_EXPIRATION_MINUTES"

	EnvEmailTransport = "CARPENTER_EMAIL_TRANSPORT"
	EnvEmailFrom      = "CARPENTER_EMAIL_FROM"
	EnvEmailTo        = "CARPENTER_EMAIL_TO"
	EnvSMTPHost       = "CARPENTER_SMTP_HOST"
	EnvSMTPUser       = "CARPENTER_SMTP_USER"
	EnvSMTPPassword   = "CARPENTER_SMTP_PASSWORD"
	EnvSendgridAPIKey = "CARPENTER_SENDGRID_API_KEY"

	EnvCORSOrigins = "CARPENTER_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
