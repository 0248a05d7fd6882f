package config

const (
	defaultDataDir   = "~/.local/share/showrunner"
	defaultLogDir    = "~/.local/share/showrunner/logs"
	defaultExportDir = "~/Downloads"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultLinkCheckTimeoutMS = 2000
	// Some origins reject faceless requests, so probes present a browser UA.
	defaultLinkCheckUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

	defaultTitlesBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultTitlesModel          = "anthropic/claude-sonnet-4"
	defaultTitlesTimeoutSeconds = 60

	defaultNotifyRequestTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		LinkCheck: LinkCheck{
			TimeoutMS: defaultLinkCheckTimeoutMS,
			UserAgent: defaultLinkCheckUserAgent,
		},
		Titles: Titles{
			BaseURL:        defaultTitlesBaseURL,
			Model:          defaultTitlesModel,
			TimeoutSeconds: defaultTitlesTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
	}
}
