package constants

const (
	ViperAPIBaseURL    = "api.base_url"
	ViperAPIKey        = "api.key"
	ViperAPITimeout    = "api.timeout"
	ViperAPIRetries    = "api.retries"
	ViperAPIRatePerSec = "api.rate_per_sec"

	ViperServerAddr        = "server.addr"
	ViperServerCORSOrigins = "server.cors_origins"

	ViperPostgresDSN = "postgres.dsn"
	ViperCacheTTL    = "cache.ttl"

	ViperLogLevel       = "log.level"
	ViperLogDevelopment = "log.development"

	ViperSecretKey = "admin.secret"

	ViperChartWidth  = "chart.width"
	ViperChartHeight = "chart.height"

	ViperInitTimeout = "init.timeout"
)

const (
	CookieKeySecretToken = "secret_token"
	HeaderAPIKey         = "X-API-KEY"
	HeaderRequestID      = "X-Request-ID"
)
