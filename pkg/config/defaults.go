package config

const (
	defaultBackendProvider = "localdir"
	defaultAPIListen       = ":8080"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Backend: BackendConfig{
			Provider: defaultBackendProvider,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
	}
}
