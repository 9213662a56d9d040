package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the KBMCP_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindPFlag)
//  2. Environment variables (KBMCP_BACKEND_ROOT, KBMCP_API_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: KBMCP_BACKEND_ROOT, KBMCP_CATALOG_PATH, etc.
	v.SetEnvPrefix("KBMCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Backend
	v.SetDefault("backend.provider", d.Backend.Provider)
	v.SetDefault("backend.root", d.Backend.Root)

	// Catalog
	v.SetDefault("catalog.doc_id", d.Catalog.DocID)
	v.SetDefault("catalog.path", d.Catalog.Path)

	// Corrections
	v.SetDefault("corrections.doc_id", d.Corrections.DocID)
	v.SetDefault("corrections.path", d.Corrections.Path)

	// Knowledge base
	v.SetDefault("kb.core_docs", d.KB.CoreDocs)

	// API
	v.SetDefault("api.listen", d.API.Listen)
}

// FromViper materializes a Config from a viper instance, applying the full
// precedence chain.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Backend: BackendConfig{
			Provider: v.GetString("backend.provider"),
			Root:     v.GetString("backend.root"),
		},
		Catalog: CatalogConfig{
			DocID: v.GetString("catalog.doc_id"),
			Path:  v.GetString("catalog.path"),
		},
		Corrections: CorrectionsConfig{
			DocID: v.GetString("corrections.doc_id"),
			Path:  v.GetString("corrections.path"),
		},
		KB: KBConfig{
			CoreDocs: v.GetStringSlice("kb.core_docs"),
		},
		API: APIConfig{
			Listen: v.GetString("api.listen"),
		},
	}
}
