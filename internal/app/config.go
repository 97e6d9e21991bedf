package app

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CatalogPath string // hcl module manifests; empty disables the catalog

	LogFormat string
	LogLevel  string
}

// Command describes the work a single invocation performs.
type Command struct {
	Name string // list, resolve or emit

	Base   string // resolve: base type, "sink" or "codec"
	Lookup string // resolve: the name to resolve

	Event    string            // emit: event name
	Payload  map[string]string // emit: key=value payload pairs
	Sink     string            // emit: sink name; empty means the registry default
	Codec    string            // emit: codec name; empty means the registry default
	SinkOpts map[string]string // emit: sink factory options
}

// NewConfig applies defaults and validates the configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}
