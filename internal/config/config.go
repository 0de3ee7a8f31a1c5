package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix recognized for environment variable overrides of
// any configuration field (spec §2.3).
const envPrefix = "GODOTMCP_"

// Server holds the Control Surface transport settings.
type Server struct {
	Host              string `yaml:"host" mapstructure:"host"`
	Port              int    `yaml:"port" mapstructure:"port"`
	AutoStartWatchers bool   `yaml:"auto_start_watchers" mapstructure:"auto_start_watchers"`
}

// Index holds Index Store settings.
type Index struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// Scan holds Scanner and Change Monitor settings. MaxFileBytes is loaded
// but not passed on: the Scanner and Change Monitor apply their own 2 MiB
// defaults.
type Scan struct {
	Root          string   `yaml:"root" mapstructure:"root"`
	MaxFileBytes  int64    `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
	IgnoreExtra   []string `yaml:"ignore_extra" mapstructure:"ignore_extra"`
}

// Config is the full configuration surface loaded at startup.
type Config struct {
	Server Server `yaml:"server" mapstructure:"server"`
	Index  Index  `yaml:"index" mapstructure:"index"`
	Scan   Scan   `yaml:"scan" mapstructure:"scan"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: Server{
			Host:              "127.0.0.1",
			Port:              8999,
			AutoStartWatchers: true,
		},
		Index: Index{
			Dir: ".godotmcp",
		},
		Scan: Scan{
			Root:         ".",
			MaxFileBytes: 2 << 20, // 2 MiB
			IgnoreExtra:  nil,
		},
	}
}

// Load reads YAML configuration from path, loads .env/.env.local if present,
// overlays GODOTMCP_-prefixed environment variables, and decodes the result
// into a Config seeded with Default() values. A missing path is not an
// error: Load falls back to defaults plus any environment overrides, the
// way the teacher pack tolerates a missing local override file.
func Load(path string) (*Config, error) {
	loadDotEnv()

	raw := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(raw)

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("config: build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads .env.local then .env, mirroring the override order used
// in the pack's config loaders. A missing file is silently ignored.
func loadDotEnv() {
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}
}

// applyEnvOverrides walks the GODOTMCP_-prefixed environment variables and
// sets the corresponding dotted key in raw, e.g. GODOTMCP_SERVER_PORT=9000
// overrides raw["server"]["port"]. Keys are lowercased; a trailing segment
// that doesn't match a known nested map is set as a scalar leaf.
func applyEnvOverrides(raw map[string]any) {
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		path := strings.Split(strings.ToLower(strings.TrimPrefix(name, envPrefix)), "_")
		setNested(raw, path, parseScalar(value))
	}
}

// setNested writes value at the dotted path within m, creating intermediate
// maps as needed. The caller splits the variable name on every "_", so
// only the first segment is treated as a section; the remaining segments
// are re-joined with "_" into one leaf key. This makes multi-word fields
// such as GODOTMCP_SCAN_MAX_FILE_BYTES land on scan.max_file_bytes, and
// limits overrides to the two-level shape (section + field).
func setNested(m map[string]any, path []string, value any) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		m[path[0]] = value
		return
	}
	section, ok := m[path[0]].(map[string]any)
	if !ok {
		section = map[string]any{}
		m[path[0]] = section
	}
	setNested(section, []string{strings.Join(path[1:], "_")}, value)
}

// parseScalar coerces an environment variable's string value into bool, int,
// float, a comma-separated slice, or leaves it as a string.
func parseScalar(v string) any {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if strings.Contains(v, ",") {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return v
}
