package config

// ServerConfig contains settings for the mock listener.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	// DrainTimeout bounds how long shutdown waits for in-flight requests (e.g. "5s").
	DrainTimeout string `json:"drain_timeout"`
	// ReadHeaderTimeout guards against clients that never finish a request line.
	ReadHeaderTimeout string `json:"read_header_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string            `json:"level"`
	JSON        bool              `json:"json"`
	IncludePID  bool              `json:"include_pid"`
	ExtraFields map[string]string `json:"extra_fields,omitempty"`
}

// AdminConfig contains settings for the optional admin API.
type AdminConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `json:"server"`
	Logging LoggingConfig `json:"logging"`
	Admin   AdminConfig   `json:"admin"`
}
