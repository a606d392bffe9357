package model

// LogConfig controls the global zerolog logger
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"` // console or json
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout"`  // stdout, stderr or file
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/wizard.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// SessionConfig controls how wizard sessions are stored
type SessionConfig struct {
	TTLSeconds int    `envconfig:"SESSION_TTL" default:"3600"`
	RedisURL   string `envconfig:"REDIS_URL"` // empty means in-process memory store
}

// LookupConfig bounds calls to the Data Store and Catalog collaborators
type LookupConfig struct {
	TimeoutSeconds int `envconfig:"LOOKUP_TIMEOUT" default:"5"`
}

// DeadlineConfig anchors canned deadline offsets
type DeadlineConfig struct {
	DefaultHour int `envconfig:"DEADLINE_DEFAULT_HOUR" default:"18"`
}
