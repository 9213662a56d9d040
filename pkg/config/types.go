package config

import (
	"strings"
)

// Config represents the persistent kbmcp configuration stored as config.toml
// in the .kbmcp/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Backend     BackendConfig     `toml:"backend"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Corrections CorrectionsConfig `toml:"corrections"`
	KB          KBConfig          `toml:"kb"`
	API         APIConfig         `toml:"api"`
}

// BackendConfig selects and configures the document-repository backend.
type BackendConfig struct {
	// Provider names the backend driver. "localdir" is built in; anything
	// else must be supplied by the embedding application.
	Provider string `toml:"provider,omitempty"`

	// Root is the document root for the localdir provider.
	Root string `toml:"root,omitempty"`
}

// CatalogConfig locates the knowledge-base map.
type CatalogConfig struct {
	// DocID is the backend document holding the catalog.
	DocID string `toml:"doc_id,omitempty"`

	// Path overrides DocID with a local file, watched for changes.
	Path string `toml:"path,omitempty"`
}

// CorrectionsConfig locates the corrections/overlay document.
type CorrectionsConfig struct {
	DocID string `toml:"doc_id,omitempty"`
	Path  string `toml:"path,omitempty"`
}

// KBConfig holds knowledge-base content settings.
type KBConfig struct {
	// CoreDocs is the operator-curated critical document ID list, preloaded
	// by workflows and exposed as resources.
	CoreDocs []string `toml:"core_docs,omitempty"`
}

// APIConfig holds HTTP serving-mode settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"backend.provider": {
		get: func(c *Config) string { return c.Backend.Provider },
		set: func(c *Config, v string) error { c.Backend.Provider = v; return nil },
	},
	"backend.root": {
		get: func(c *Config) string { return c.Backend.Root },
		set: func(c *Config, v string) error { c.Backend.Root = v; return nil },
	},
	"catalog.doc_id": {
		get: func(c *Config) string { return c.Catalog.DocID },
		set: func(c *Config, v string) error { c.Catalog.DocID = v; return nil },
	},
	"catalog.path": {
		get: func(c *Config) string { return c.Catalog.Path },
		set: func(c *Config, v string) error { c.Catalog.Path = v; return nil },
	},
	"corrections.doc_id": {
		get: func(c *Config) string { return c.Corrections.DocID },
		set: func(c *Config, v string) error { c.Corrections.DocID = v; return nil },
	},
	"corrections.path": {
		get: func(c *Config) string { return c.Corrections.Path },
		set: func(c *Config, v string) error { c.Corrections.Path = v; return nil },
	},
	"kb.core_docs": {
		get: func(c *Config) string { return strings.Join(c.KB.CoreDocs, ",") },
		set: func(c *Config, v string) error {
			c.KB.CoreDocs = c.KB.CoreDocs[:0]
			for _, id := range strings.Split(v, ",") {
				id = strings.TrimSpace(id)
				if id != "" {
					c.KB.CoreDocs = append(c.KB.CoreDocs, id)
				}
			}
			return nil
		},
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
}
