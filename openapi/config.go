package openapi

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Settings holds the declarative configuration for a Generator. Settings
// are layered from struct defaults, an optional YAML file, and APIDOCS_*
// environment variables, in increasing precedence.
type Settings struct {
	Info              InfoSettings     `koanf:"info" yaml:"info"`
	Servers           []ServerSettings `koanf:"servers" yaml:"servers"`
	MediaTypes        []string         `koanf:"media_types" yaml:"media_types"`
	StaticStatusCodes bool             `koanf:"static_status_codes" yaml:"static_status_codes"`
	Auth              AuthSettings     `koanf:"auth" yaml:"auth"`
}

// InfoSettings configures the document info block.
type InfoSettings struct {
	Title       string `koanf:"title" yaml:"title"`
	Description string `koanf:"description" yaml:"description"`
	Version     string `koanf:"version" yaml:"version"`
}

// ServerSettings configures one document server entry. Both URL and
// description are required; incomplete entries fail validation.
type ServerSettings struct {
	URL         string `koanf:"url" yaml:"url"`
	Description string `koanf:"description" yaml:"description"`
}

// AuthSettings configures the apiKey security scheme declared on the
// document. When enabled, every operation requires the scheme.
type AuthSettings struct {
	Enabled     bool   `koanf:"enabled" yaml:"enabled"`
	Scheme      string `koanf:"scheme" yaml:"scheme"`
	Header      string `koanf:"header" yaml:"header"`
	Description string `koanf:"description" yaml:"description"`
}

// defaultSettings returns Settings with the built-in defaults. These are
// applied first, then overridden by the config file and env vars.
func defaultSettings() *Settings {
	return &Settings{
		Info: InfoSettings{
			Title:   "API",
			Version: "1.0.0",
		},
		MediaTypes: []string{"application/json"},
		Auth: AuthSettings{
			Enabled:     true,
			Scheme:      "ApiKeyAuth",
			Header:      "Authorization",
			Description: "Enter your bearer token in the format **Token &lt;token&gt;**",
		},
	}
}

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "APIDOCS_"

// envMappings maps flattened env var names (lowercased, prefix stripped)
// to koanf config paths.
var envMappings = map[string]string{
	"title":               "info.title",
	"description":         "info.description",
	"version":             "info.version",
	"media_types":         "media_types",
	"static_status_codes": "static_status_codes",
	"auth_enabled":        "auth.enabled",
	"auth_scheme":         "auth.scheme",
	"auth_header":         "auth.header",
	"auth_description":    "auth.description",
}

// envTransformFunc converts an environment variable name to a koanf path:
// APIDOCS_AUTH_HEADER -> auth.header. Unknown variables are dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if path, ok := envMappings[key]; ok {
		return path
	}
	return ""
}

// LoadSettings loads Settings from the given YAML file path, layered as
// defaults < file < environment. An empty path skips the file layer; a
// non-empty path must exist.
func LoadSettings(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultSettings(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Comma-separated env values for slice fields.
	if raw := k.String("media_types"); raw != "" {
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := k.Set("media_types", parts); err != nil {
			return nil, fmt.Errorf("failed to set media_types: %w", err)
		}
	}

	settings := &Settings{}
	if err := k.Unmarshal("", settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks that the settings are complete enough to build a
// document.
func (s *Settings) Validate() error {
	if s.Info.Title == "" {
		return fmt.Errorf("info.title is required")
	}
	if s.Info.Version == "" {
		return fmt.Errorf("info.version is required")
	}
	for i, server := range s.Servers {
		if server.URL == "" {
			return fmt.Errorf("servers[%d]: url is required", i)
		}
		if server.Description == "" {
			return fmt.Errorf("servers[%d]: description is required", i)
		}
	}
	if s.Auth.Enabled {
		if s.Auth.Scheme == "" {
			return fmt.Errorf("auth.scheme is required when auth is enabled")
		}
		if s.Auth.Header == "" {
			return fmt.Errorf("auth.header is required when auth is enabled")
		}
	}
	return nil
}

// NewGeneratorFromSettings builds a Generator configured per the settings.
func NewGeneratorFromSettings(s *Settings) *Generator {
	g := NewGenerator(Info{
		Title:       s.Info.Title,
		Description: s.Info.Description,
		Version:     s.Info.Version,
	})

	for _, server := range s.Servers {
		g.AddServer(Server{URL: server.URL, Description: server.Description})
	}

	if len(s.MediaTypes) > 0 {
		g.SetMediaTypes(s.MediaTypes...)
	}

	g.StaticStatusCodes(s.StaticStatusCodes)

	if s.Auth.Enabled {
		g.SetAuthScheme(s.Auth.Scheme, &SecurityScheme{
			Type:        "apiKey",
			In:          "header",
			Name:        s.Auth.Header,
			Description: s.Auth.Description,
		})
	} else {
		g.DisableAuth()
	}

	return g
}
