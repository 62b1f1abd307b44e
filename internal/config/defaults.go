package config

const (
	defaultOutputDir         = "output"
	defaultLogDir            = "~/.local/share/astrogen/logs"
	defaultBaseURL           = "https://travellermap.com"
	defaultTimeoutSeconds    = 30
	defaultRequestsPerSecond = 4
	defaultBurst             = 4
	defaultUserAgent         = "astrogen/dev"
	defaultFormat            = "module"
	defaultFetchConcurrency  = 1
	maxFetchConcurrency      = 16
	defaultCacheTTLHours     = 24
	defaultServerBind        = "127.0.0.1:4321"
	defaultKeepaliveSeconds  = 15
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// SupportedFormats lists the output formats accepted by build.default_format.
var SupportedFormats = []string{"module", "system", "refmanual"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			CacheDir:  defaultCacheDir(),
		},
		TravellerMap: TravellerMap{
			BaseURL:           defaultBaseURL,
			TimeoutSeconds:    defaultTimeoutSeconds,
			RequestsPerSecond: defaultRequestsPerSecond,
			Burst:             defaultBurst,
			UserAgent:         defaultUserAgent,
		},
		Build: Build{
			DefaultFormat:    defaultFormat,
			FetchConcurrency: defaultFetchConcurrency,
		},
		Cache: Cache{
			TTLHours: defaultCacheTTLHours,
		},
		Server: Server{
			Bind:             defaultServerBind,
			KeepaliveSeconds: defaultKeepaliveSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
