package logger

// Levels accepted in LOG_LEVEL. "warning" is an alias of "warn".
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Formats accepted in LOG_FORMAT
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

const (
	DefaultServiceName = "ssbwatch"
	DefaultVersion     = "dev"
	ProductionVersion  = "1.0.0"
)

const (
	EnvironmentDev        = "dev"
	EnvironmentProduction = "prod"
)

// Attribute keys on every record
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyComponent   = "component"
)
